package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/render"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type fakeBackend struct {
	mu            sync.Mutex
	fetchRequests []models.FetchResumesRequest
	fetchCookies  [][]*http.Cookie
	emailRequests []models.SendEmailRequest

	fetch func(models.FetchResumesRequest) (*services.FetchResult, error)
	email func(models.SendEmailRequest) (*services.EmailResult, error)
}

func (f *fakeBackend) FetchResumes(_ context.Context, req models.FetchResumesRequest, cookies []*http.Cookie) (*services.FetchResult, error) {
	f.mu.Lock()
	f.fetchRequests = append(f.fetchRequests, req)
	f.fetchCookies = append(f.fetchCookies, cookies)
	fn := f.fetch
	f.mu.Unlock()
	return fn(req)
}

func (f *fakeBackend) SendEmail(_ context.Context, req models.SendEmailRequest, _ []*http.Cookie) (*services.EmailResult, error) {
	f.mu.Lock()
	f.emailRequests = append(f.emailRequests, req)
	fn := f.email
	f.mu.Unlock()
	return fn(req)
}

func twoCandidates(models.FetchResumesRequest) (*services.FetchResult, error) {
	return &services.FetchResult{Candidates: []models.Candidate{
		{Filename: "ada.pdf", Name: "Ada", Email: "ada@example.com"},
		{Filename: "alan.pdf", Name: "Alan", Email: "alan@example.com"},
	}}, nil
}

type client struct {
	t   *testing.T
	app *fiber.App
	jar map[string]*http.Cookie
}

func (c *client) do(req *http.Request) *http.Response {
	c.t.Helper()
	for _, ck := range c.jar {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now())) {
			delete(c.jar, ck.Name)
			continue
		}
		c.jar[ck.Name] = ck
	}
	return resp
}

func (c *client) postForm(path string, form url.Values) *http.Response {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) page() string {
	c.t.Helper()
	resp := c.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return string(body)
}

func (c *client) fetch(jd string) *http.Response {
	c.t.Helper()
	return c.postForm("/dashboard/fetch", url.Values{"job_description": {jd}, "days_filter": {"14"}})
}

func newTestClient(t *testing.T, backend services.BackendService) *client {
	t.Helper()

	cfg := config.Defaults()
	cfg.Backend.ReauthURL = "http://backend.test/authenticate"

	renderer, err := render.NewPageRenderer()
	require.NoError(t, err)
	validator, err := services.NewResponseValidator()
	require.NoError(t, err)

	sessionRepo := repositories.NewSessionRepository()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupRoutes(app, Handlers{
		Dashboard: NewDashboardHandler(sessionRepo, backend, renderer, cfg),
		Cards:     NewCardHandler(sessionRepo),
		Render:    NewRenderHandler(validator, renderer),
	})

	return &client{t: t, app: app, jar: map[string]*http.Cookie{}}
}

func TestIndex_InitialPage(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	body := c.page()

	assert.Contains(t, body, `id="initialPrompt"`)
	assert.Contains(t, body, `<option value="30" selected>`)
	assert.NotContains(t, c.jar, sessionCookieName)
}

func TestFetch_RequiresJobDescription(t *testing.T) {
	backend := &fakeBackend{fetch: twoCandidates}
	c := newTestClient(t, backend)

	resp := c.fetch("   ")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	assert.Contains(t, c.page(), models.MsgMissingJobDescription)
	assert.Empty(t, backend.fetchRequests)
}

func TestFetch_Success(t *testing.T) {
	backend := &fakeBackend{fetch: twoCandidates}
	c := newTestClient(t, backend)

	resp := c.fetch("Senior Go engineer")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	require.Len(t, backend.fetchRequests, 1)
	assert.Equal(t, models.FetchResumesRequest{JobDescription: "Senior Go engineer", DaysFilter: 14}, backend.fetchRequests[0])

	assert.Contains(t, c.jar, sessionCookieName)
	require.Contains(t, c.jar, jobDescriptionCookieName)
	assert.Equal(t, url.QueryEscape("Senior Go engineer"), c.jar[jobDescriptionCookieName].Value)

	body := c.page()
	assert.Contains(t, body, "Successfully analyzed 2 resumes.")
	assert.Equal(t, 2, strings.Count(body, `class="candidate-card`))
	assert.Contains(t, body, ">Senior Go engineer</textarea>")
	assert.Contains(t, body, `<option value="14" selected>`)
	assert.NotContains(t, body, `id="initialPrompt"`)

	// The flash is shown once.
	assert.NotContains(t, c.page(), "Successfully analyzed")
}

func TestFetch_OversizedJobDescriptionExpiresCookie(t *testing.T) {
	backend := &fakeBackend{
		fetch: twoCandidates,
		email: func(models.SendEmailRequest) (*services.EmailResult, error) {
			return &services.EmailResult{Success: true}, nil
		},
	}
	c := newTestClient(t, backend)
	c.fetch("Old short JD")
	require.Contains(t, c.jar, jobDescriptionCookieName)

	long := strings.TrimSpace(strings.Repeat("Long requirement. ", 300))
	c.fetch(long)
	assert.NotContains(t, c.jar, jobDescriptionCookieName)

	body := c.page()
	assert.Contains(t, body, ">"+long+"</textarea>")
	assert.NotContains(t, body, "Old short JD")

	c.postForm("/dashboard/email", url.Values{"card_id": {render.CardID("ada.pdf", 0)}, "type": {"accept"}})
	require.Len(t, backend.emailRequests, 1)
	assert.Equal(t, long, backend.emailRequests[0].JobDescription)
}

func TestFetch_InvalidDaysFallsBackToDefault(t *testing.T) {
	backend := &fakeBackend{fetch: twoCandidates}
	c := newTestClient(t, backend)

	c.postForm("/dashboard/fetch", url.Values{"job_description": {"x"}, "days_filter": {"999"}})

	require.Len(t, backend.fetchRequests, 1)
	assert.Equal(t, 30, backend.fetchRequests[0].DaysFilter)
}

func TestFetch_Outcomes(t *testing.T) {
	tests := []struct {
		name  string
		fetch func(models.FetchResumesRequest) (*services.FetchResult, error)
		want  []string
	}{
		{
			name: "unauthorized",
			fetch: func(models.FetchResumesRequest) (*services.FetchResult, error) {
				return &services.FetchResult{}, services.ErrUnauthorized
			},
			want: []string{"status-error", "Authentication required.", `href="http://backend.test/authenticate"`},
		},
		{
			name: "backend message",
			fetch: func(models.FetchResumesRequest) (*services.FetchResult, error) {
				return &services.FetchResult{Message: "No new resumes in the last 14 days."}, nil
			},
			want: []string{"status-warning", "No new resumes in the last 14 days."},
		},
		{
			name: "no candidates",
			fetch: func(models.FetchResumesRequest) (*services.FetchResult, error) {
				return &services.FetchResult{}, nil
			},
			want: []string{"status-error", models.MsgNoCandidates},
		},
		{
			name: "unreachable",
			fetch: func(models.FetchResumesRequest) (*services.FetchResult, error) {
				return nil, fmt.Errorf("%w: connection refused", services.ErrBackendUnavailable)
			},
			want: []string{"status-error", models.MsgBackendUnreachable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeBackend{fetch: tt.fetch})
			c.fetch("Go engineer")

			body := c.page()
			for _, s := range tt.want {
				assert.Contains(t, body, s)
			}
		})
	}
}

func TestFetch_FailureKeepsPreviousSnapshot(t *testing.T) {
	backend := &fakeBackend{fetch: twoCandidates}
	c := newTestClient(t, backend)
	c.fetch("Go engineer")
	c.page()

	backend.fetch = func(models.FetchResumesRequest) (*services.FetchResult, error) {
		return nil, services.ErrBackendUnavailable
	}
	c.fetch("Go engineer")

	body := c.page()
	assert.Contains(t, body, models.MsgBackendUnreachable)
	assert.Equal(t, 2, strings.Count(body, `class="candidate-card`))
}

func TestFetch_RelaysBackendCookies(t *testing.T) {
	backend := &fakeBackend{fetch: func(models.FetchResumesRequest) (*services.FetchResult, error) {
		return &services.FetchResult{
			Message:    "nothing yet",
			SetCookies: []*http.Cookie{{Name: "session", Value: "refreshed"}},
		}, nil
	}}
	c := newTestClient(t, backend)
	c.jar["session"] = &http.Cookie{Name: "session", Value: "original"}

	c.fetch("Go engineer")

	require.Len(t, backend.fetchCookies, 1)
	require.Len(t, backend.fetchCookies[0], 1)
	assert.Equal(t, "original", backend.fetchCookies[0][0].Value)
	assert.Equal(t, "refreshed", c.jar["session"].Value)
}

func TestCards_ToggleAndSelectTab(t *testing.T) {
	c := newTestClient(t, &fakeBackend{fetch: twoCandidates})
	c.fetch("Go engineer")
	id := render.CardID("alan.pdf", 1)

	resp := c.postForm("/dashboard/cards/"+id+"/toggle", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/#card-"+id, resp.Header.Get("Location"))

	body := c.page()
	assert.Equal(t, 1, strings.Count(body, `data-expanded="true"`))

	resp = c.postForm(fmt.Sprintf("/dashboard/cards/%s/tabs/%d", id, 5), nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	body = c.page()
	assert.Contains(t, body, `class="tab-button active" aria-selected="true" data-tab-index="5"`)
	assert.Equal(t, 1, strings.Count(body, `class="tab-button active" aria-selected="true" data-tab-index="0"`))

	c.postForm("/dashboard/cards/"+id+"/toggle", nil)
	assert.NotContains(t, c.page(), `data-expanded="true"`)
}

func TestCards_Errors(t *testing.T) {
	c := newTestClient(t, &fakeBackend{fetch: twoCandidates})
	c.fetch("Go engineer")
	id := render.CardID("ada.pdf", 0)

	resp := c.postForm("/dashboard/cards/"+id+"/tabs/6", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.postForm("/dashboard/cards/"+id+"/tabs/first", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.postForm("/dashboard/cards/unknown/toggle", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCards_WithoutSession(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	resp := c.postForm("/dashboard/cards/"+render.CardID("ada.pdf", 0)+"/toggle", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, c.jar, sessionCookieName)
}

func TestEmail_Send(t *testing.T) {
	backend := &fakeBackend{
		fetch: twoCandidates,
		email: func(req models.SendEmailRequest) (*services.EmailResult, error) {
			return &services.EmailResult{Success: true, Message: "Acceptance email sent to " + req.Name}, nil
		},
	}
	c := newTestClient(t, backend)
	c.fetch("Go engineer")
	id := render.CardID("ada.pdf", 0)

	resp := c.postForm("/dashboard/email", url.Values{
		"card_id":         {id},
		"type":            {"accept"},
		"job_description": {"Edited JD"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/#card-"+id, resp.Header.Get("Location"))

	require.Len(t, backend.emailRequests, 1)
	assert.Equal(t, models.SendEmailRequest{
		Email:          "ada@example.com",
		Name:           "Ada",
		JobDescription: "Edited JD",
		Type:           models.EmailAccept,
	}, backend.emailRequests[0])

	body := c.page()
	assert.Contains(t, body, "status-success")
	assert.Contains(t, body, "Acceptance email sent to Ada")
}

func TestEmail_FallsBackToStoredJobDescription(t *testing.T) {
	backend := &fakeBackend{
		fetch: twoCandidates,
		email: func(models.SendEmailRequest) (*services.EmailResult, error) {
			return &services.EmailResult{Success: false, Message: "Missing required fields"}, nil
		},
	}
	c := newTestClient(t, backend)
	c.fetch("Go engineer")

	c.postForm("/dashboard/email", url.Values{"card_id": {render.CardID("alan.pdf", 1)}, "type": {"reject"}})

	require.Len(t, backend.emailRequests, 1)
	assert.Equal(t, "Go engineer", backend.emailRequests[0].JobDescription)
	assert.Equal(t, models.EmailReject, backend.emailRequests[0].Type)

	body := c.page()
	assert.Contains(t, body, "status-error")
	assert.Contains(t, body, "Missing required fields")
}

func TestEmail_Errors(t *testing.T) {
	backend := &fakeBackend{
		fetch: twoCandidates,
		email: func(models.SendEmailRequest) (*services.EmailResult, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	c := newTestClient(t, backend)
	c.fetch("Go engineer")
	id := render.CardID("ada.pdf", 0)

	resp := c.postForm("/dashboard/email", url.Values{"card_id": {id}, "type": {"maybe"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.postForm("/dashboard/email", url.Values{"card_id": {"missing"}, "type": {"accept"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Empty(t, backend.emailRequests)
	assert.Contains(t, c.page(), models.MsgUnknownCandidate)

	resp = c.postForm("/dashboard/email", url.Values{"card_id": {id}, "type": {"accept"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, c.page(), models.MsgEmailTransportFailed)
}

func TestRenderAPI(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", strings.NewReader(
		`{"candidates": [{"filename": "a.pdf", "sections": {"ats_score": 91, "hr_summary": "**Great**"}}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp := c.do(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `class="candidate-card`)
	assert.Contains(t, string(body), "<strong>Great</strong>")
	assert.Contains(t, string(body), "91/100")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/render", strings.NewReader(`{"candidates": [{"name": "x"}]}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, c.do(req).StatusCode)
}

func TestHealthAndStatic(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	resp := c.do(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(httptest.NewRequest(http.MethodGet, "/static/dashboard.js", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
