package models

// FetchResumesRequest is the body of the backend's POST /fetch_resumes.
type FetchResumesRequest struct {
	JobDescription string `json:"job_description"`
	DaysFilter     int    `json:"days_filter"`
}

// FetchResumesResponse is either a candidate list or an explanatory message.
type FetchResumesResponse struct {
	Candidates []Candidate `json:"candidates,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type EmailType string

const (
	EmailAccept EmailType = "accept"
	EmailReject EmailType = "reject"
)

func (t EmailType) IsValid() bool {
	return t == EmailAccept || t == EmailReject
}

// SendEmailRequest is the body of the backend's POST /send_email.
type SendEmailRequest struct {
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	JobDescription string    `json:"job_description"`
	Type           EmailType `json:"type"`
}

type SendEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RenderRequest is the body of the stateless render endpoint.
type RenderRequest struct {
	Candidates []Candidate `json:"candidates"`
}
