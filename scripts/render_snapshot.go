package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/render"
	"alfredoptarigan/resume-screener/internal/services"
)

// Renders saved /fetch_resumes responses into standalone dashboard pages.
//
//	go run scripts/render_snapshot.go snapshots/*.json
func main() {
	log.Println("🚀 Starting snapshot rendering...")

	cfg := config.Load()

	validator, err := services.NewResponseValidator()
	if err != nil {
		log.Fatalf("❌ Failed to load response schema: %v", err)
	}

	renderer, err := render.NewPageRenderer()
	if err != nil {
		log.Fatalf("❌ Failed to parse templates: %v", err)
	}
	builder := render.NewCardBuilder("/dashboard")

	paths := os.Args[1:]
	if len(paths) == 0 {
		log.Fatal("❌ Usage: render_snapshot <response.json>...")
	}

	successCount := 0
	failCount := 0

	for _, path := range paths {
		log.Printf("\n📄 Processing: %s", path)

		out, n, err := renderSnapshot(path, cfg, validator, renderer, builder)
		if err != nil {
			log.Printf("❌ %v", err)
			failCount++
			continue
		}

		log.Printf("✅ Wrote %s (%d candidates)", out, n)
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 50))
	log.Printf("📊 Rendering Summary:")
	log.Printf("   ✅ Success: %d", successCount)
	log.Printf("   ❌ Failed: %d", failCount)
	log.Println(strings.Repeat("=", 50))

	if failCount > 0 {
		os.Exit(1)
	}
}

func renderSnapshot(
	path string,
	cfg *config.Config,
	validator services.ResponseValidator,
	renderer *render.PageRenderer,
	builder *render.CardBuilder,
) (string, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := validator.ValidateFetchResponse(data); err != nil {
		return "", 0, err
	}

	var resp models.FetchResumesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", 0, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	view := render.DashboardView{
		DaysFilter:  cfg.Dashboard.DefaultDaysFilter,
		DaysOptions: cfg.Dashboard.DaysFilterOptions,
		Cards:       builder.BuildCards(resp.Candidates),
		FetchURL:    "/dashboard/fetch",
	}
	if resp.Message != "" {
		view.Status = &models.StatusMessage{Level: models.StatusWarning, Text: resp.Message}
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
	f, err := os.Create(outPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := renderer.RenderDashboard(f, view); err != nil {
		return "", 0, err
	}
	return outPath, len(resp.Candidates), nil
}
