package models

// Candidate is one scored resume as returned by the screening backend.
type Candidate struct {
	Filename string            `json:"filename"`
	Name     string            `json:"name,omitempty"`
	Email    string            `json:"email,omitempty"`
	Phone    string            `json:"phone,omitempty"`
	Sender   string            `json:"sender,omitempty"`
	Subject  string            `json:"subject,omitempty"`
	Sections CandidateSections `json:"sections"`
}

// CandidateSections holds the free-text analysis blocks and the two scores.
// Text fields use the bold/bullet/newline markdown subset.
type CandidateSections struct {
	BasicInfo           string `json:"basic_info,omitempty"`
	StrengthsWeaknesses string `json:"strengths_weaknesses,omitempty"`
	HRSummary           string `json:"hr_summary,omitempty"`
	Justification       string `json:"justification,omitempty"`
	Recommendation      string `json:"recommendation,omitempty"`
	InterviewQuestions  string `json:"interview_questions,omitempty"`
	ATSScore            Score  `json:"ats_score"`
	HRScore             Score  `json:"hr_score"`
}

const (
	ATSScoreMax = 100
	HRScoreMax  = 10
)

// Normalize drops scores outside their scale. Upstream promises valid
// ranges; anything else renders as absent.
func (c *Candidate) Normalize() {
	c.Sections.ATSScore = c.Sections.ATSScore.Within(0, ATSScoreMax)
	c.Sections.HRScore = c.Sections.HRScore.Within(0, HRScoreMax)
}
