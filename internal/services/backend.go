package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

var (
	ErrUnauthorized       = errors.New("backend requires authentication")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// BackendService talks to the screening backend that ingests, scores and
// mails candidates.
type BackendService interface {
	FetchResumes(ctx context.Context, req models.FetchResumesRequest, cookies []*http.Cookie) (*FetchResult, error)
	SendEmail(ctx context.Context, req models.SendEmailRequest, cookies []*http.Cookie) (*EmailResult, error)
}

// FetchResult carries either candidates or the backend's explanatory message.
type FetchResult struct {
	Candidates []models.Candidate
	Message    string
	SetCookies []*http.Cookie
}

type EmailResult struct {
	Success    bool
	Message    string
	SetCookies []*http.Cookie
}

type backendService struct {
	baseURL    string
	httpClient *http.Client
	validator  ResponseValidator
}

// NewBackendService creates a client for baseURL. A nil httpClient uses a
// plain client without its own timeout.
func NewBackendService(baseURL string, httpClient *http.Client, validator ResponseValidator) BackendService {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &backendService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		validator:  validator,
	}
}

// FetchResumes implements BackendService.
func (b *backendService) FetchResumes(ctx context.Context, req models.FetchResumesRequest, cookies []*http.Cookie) (*FetchResult, error) {
	status, body, setCookies, err := b.post(ctx, "/fetch_resumes", req, cookies)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		return &FetchResult{SetCookies: setCookies}, ErrUnauthorized
	}

	if err := b.validator.ValidateFetchResponse(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	var resp models.FetchResumesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode fetch response: %v", ErrBackendUnavailable, err)
	}

	result := &FetchResult{SetCookies: setCookies}
	if resp.Message != "" {
		result.Message = resp.Message
		return result, nil
	}

	if status >= http.StatusBadRequest {
		detail := resp.Error
		if detail == "" {
			detail = http.StatusText(status)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrBackendUnavailable, status, detail)
	}

	for i := range resp.Candidates {
		resp.Candidates[i].Normalize()
	}
	result.Candidates = resp.Candidates
	return result, nil
}

// SendEmail implements BackendService. The body is decoded whatever the
// status code, since the backend reports validation failures as
// {success: false, message}.
func (b *backendService) SendEmail(ctx context.Context, req models.SendEmailRequest, cookies []*http.Cookie) (*EmailResult, error) {
	_, body, setCookies, err := b.post(ctx, "/send_email", req, cookies)
	if err != nil {
		return nil, err
	}

	var resp models.SendEmailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode email response: %v", ErrBackendUnavailable, err)
	}

	return &EmailResult{
		Success:    resp.Success,
		Message:    resp.Message,
		SetCookies: setCookies,
	}, nil
}

func (b *backendService) post(ctx context.Context, path string, payload interface{}, cookies []*http.Cookie) (int, []byte, []*http.Cookie, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ Backend %s failed: %v\n", path, err)
		return 0, nil, nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("%w: failed to read response: %v", ErrBackendUnavailable, err)
	}

	return resp.StatusCode, body, resp.Cookies(), nil
}
