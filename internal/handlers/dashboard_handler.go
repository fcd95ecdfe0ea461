package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/render"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

// DashboardBasePath prefixes every form action the dashboard renders.
const DashboardBasePath = "/dashboard"

type DashboardHandler struct {
	sessionRepo repositories.SessionRepository
	backend     services.BackendService
	renderer    *render.PageRenderer
	builder     *render.CardBuilder
	cfg         *config.Config
}

func NewDashboardHandler(
	sessionRepo repositories.SessionRepository,
	backend services.BackendService,
	renderer *render.PageRenderer,
	cfg *config.Config,
) *DashboardHandler {
	return &DashboardHandler{
		sessionRepo: sessionRepo,
		backend:     backend,
		renderer:    renderer,
		builder:     render.NewCardBuilder(DashboardBasePath),
		cfg:         cfg,
	}
}

// HandleIndex renders the dashboard from the session's last snapshot.
func (h *DashboardHandler) HandleIndex(c *fiber.Ctx) error {
	sid := sessionID(c)

	storedJD, days := h.sessionRepo.JobDescription(sid)
	jd := loadJobDescription(c)
	if jd == "" {
		jd = storedJD
	}
	if !h.validDays(days) {
		days = h.cfg.Dashboard.DefaultDaysFilter
	}

	candidates, fetched := h.sessionRepo.Snapshot(sid)
	cards := h.builder.BuildCards(candidates)
	for _, card := range cards {
		h.builder.AttachInteractions(card, h.sessionRepo.CardState(sid, card.ID))
	}

	view := render.DashboardView{
		JobDescription: jd,
		DaysFilter:     days,
		DaysOptions:    h.cfg.Dashboard.DaysFilterOptions,
		Status:         h.sessionRepo.PopFlash(sid),
		Cards:          cards,
		Fetched:        fetched,
		FetchURL:       DashboardBasePath + "/fetch",
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderDashboard(&buf, view); err != nil {
		log.Printf("❌ Failed to render dashboard: %v\n", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render dashboard")
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// HandleFetch asks the backend for scored candidates and stores the result
// as the session's new snapshot.
func (h *DashboardHandler) HandleFetch(c *fiber.Ctx) error {
	sid := ensureSession(c, h.sessionRepo)

	jd := strings.TrimSpace(c.FormValue("job_description"))
	if jd == "" {
		h.sessionRepo.SetFlash(sid, models.StatusMessage{
			Level: models.StatusError,
			Text:  models.MsgMissingJobDescription,
		})
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	jd = strings.Clone(jd)

	days, err := strconv.Atoi(c.FormValue("days_filter"))
	if err != nil || !h.validDays(days) {
		days = h.cfg.Dashboard.DefaultDaysFilter
	}

	storeJobDescription(c, jd)
	h.sessionRepo.SetJobDescription(sid, jd, days)

	req := models.FetchResumesRequest{JobDescription: jd, DaysFilter: days}
	result, err := h.backend.FetchResumes(context.Background(), req, backendCookies(c, h.cfg.Backend.SessionCookie))
	if result != nil {
		relayCookies(c, result.SetCookies)
	}

	h.sessionRepo.SetFlash(sid, h.fetchOutcome(sid, result, err))
	return c.Redirect("/", fiber.StatusSeeOther)
}

// fetchOutcome applies a fetch result to the session and returns the status
// to show. Transport and auth failures leave the previous snapshot alone.
func (h *DashboardHandler) fetchOutcome(sid string, result *services.FetchResult, err error) models.StatusMessage {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return models.StatusMessage{
			Level:    models.StatusError,
			Text:     models.MsgAuthRequired,
			LinkURL:  h.cfg.Backend.ReauthURL,
			LinkText: "Re-authenticate",
		}
	case err != nil:
		log.Printf("❌ Fetch resumes failed: %v\n", err)
		return models.StatusMessage{Level: models.StatusError, Text: models.MsgBackendUnreachable}
	case result.Message != "":
		h.sessionRepo.ReplaceSnapshot(sid, nil)
		return models.StatusMessage{Level: models.StatusWarning, Text: result.Message}
	case len(result.Candidates) == 0:
		h.sessionRepo.ReplaceSnapshot(sid, nil)
		return models.StatusMessage{Level: models.StatusError, Text: models.MsgNoCandidates}
	default:
		h.sessionRepo.ReplaceSnapshot(sid, result.Candidates)
		log.Printf("📋 Session %s received %d candidates\n", sid, len(result.Candidates))
		return models.StatusMessage{
			Level: models.StatusSuccess,
			Text:  fmt.Sprintf("Successfully analyzed %d resumes.", len(result.Candidates)),
		}
	}
}

// HandleEmail sends an accept or reject email for one card through the
// backend.
func (h *DashboardHandler) HandleEmail(c *fiber.Ctx) error {
	sid := sessionID(c)
	cardID := strings.Clone(c.FormValue("card_id"))

	emailType := models.EmailType(c.FormValue("type"))
	if !emailType.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": models.MsgInvalidEmailType,
		})
	}

	candidate, err := h.sessionRepo.FindCandidate(sid, cardID)
	if err != nil {
		if sid != "" {
			h.sessionRepo.SetFlash(sid, models.StatusMessage{
				Level: models.StatusError,
				Text:  models.MsgUnknownCandidate,
			})
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	jd := strings.TrimSpace(c.FormValue("job_description"))
	if jd == "" {
		jd = loadJobDescription(c)
	}
	if jd == "" {
		jd, _ = h.sessionRepo.JobDescription(sid)
	}

	req := models.SendEmailRequest{
		Email:          candidate.Email,
		Name:           candidate.Name,
		JobDescription: jd,
		Type:           emailType,
	}
	result, err := h.backend.SendEmail(context.Background(), req, backendCookies(c, h.cfg.Backend.SessionCookie))

	var status models.StatusMessage
	switch {
	case err != nil:
		log.Printf("❌ Send %s email failed: %v\n", emailType, err)
		status = models.StatusMessage{Level: models.StatusError, Text: models.MsgEmailTransportFailed}
	case result.Success:
		relayCookies(c, result.SetCookies)
		status = models.StatusMessage{Level: models.StatusSuccess, Text: result.Message}
		log.Printf("📧 %s email sent for %s\n", emailType, candidate.Filename)
	default:
		relayCookies(c, result.SetCookies)
		status = models.StatusMessage{Level: models.StatusError, Text: result.Message}
	}
	if status.Text == "" {
		status.Text = defaultEmailMessage(emailType, status.Level)
	}
	h.sessionRepo.SetFlash(sid, status)

	return c.Redirect("/#card-"+cardID, fiber.StatusSeeOther)
}

func (h *DashboardHandler) validDays(days int) bool {
	for _, d := range h.cfg.Dashboard.DaysFilterOptions {
		if d == days {
			return true
		}
	}
	return false
}

func defaultEmailMessage(t models.EmailType, level models.StatusLevel) string {
	kind := "Acceptance"
	if t == models.EmailReject {
		kind = "Rejection"
	}
	if level == models.StatusSuccess {
		return kind + " email sent."
	}
	return kind + " email could not be sent."
}
