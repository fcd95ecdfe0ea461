package models

type StatusLevel string

const (
	StatusSuccess StatusLevel = "success"
	StatusWarning StatusLevel = "warning"
	StatusError   StatusLevel = "error"
)

// StatusMessage is the transient banner shown above the results.
type StatusMessage struct {
	Level    StatusLevel
	Text     string
	LinkURL  string
	LinkText string
}

const (
	MsgMissingJobDescription = "Please enter a job description to continue."
	MsgAuthRequired          = `Authentication required. Please click "Re-authenticate" to log in with Google.`
	MsgNoCandidates          = "No suitable resumes found or an error occurred during processing."
	MsgBackendUnreachable    = "Error connecting to the backend service. Please check your connection and try again."
	MsgEmailTransportFailed  = "Failed to send email. Please check your network connection and try again."
	MsgUnknownCandidate      = "Candidate not found. Fetch resumes again and retry."
	MsgInvalidEmailType      = "Invalid email type."
)
