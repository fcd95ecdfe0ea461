package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"alfredoptarigan/resume-screener/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS serves the dashboard stylesheet and script.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// DashboardView is everything the dashboard page shows.
type DashboardView struct {
	JobDescription string
	DaysFilter     int
	DaysOptions    []int
	Status         *models.StatusMessage
	Cards          []*Card
	Fetched        bool
	FetchURL       string
}

type PageRenderer struct {
	tmpl *template.Template
}

type assessmentListView struct {
	Kind string
	List AssessmentList
}

var funcs = template.FuncMap{
	"format": FormatSection,
	"assessmentList": func(kind string, list AssessmentList) assessmentListView {
		return assessmentListView{Kind: kind, List: list}
	},
}

func NewPageRenderer() (*PageRenderer, error) {
	r := &PageRenderer{}
	tmpl, err := template.New("dashboard").
		Funcs(funcs).
		Funcs(template.FuncMap{"interviewQuestions": r.RenderInterviewQuestions}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// RenderDashboard writes the full dashboard page.
func (r *PageRenderer) RenderDashboard(w io.Writer, view DashboardView) error {
	if err := r.tmpl.ExecuteTemplate(w, "page", view); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

// RenderCards writes only the candidate card list.
func (r *PageRenderer) RenderCards(w io.Writer, cards []*Card) error {
	if err := r.tmpl.ExecuteTemplate(w, "cards", cards); err != nil {
		return fmt.Errorf("failed to render cards: %w", err)
	}
	return nil
}

func (r *PageRenderer) fragment(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
