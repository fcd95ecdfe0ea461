package render

import (
	"strconv"

	"alfredoptarigan/resume-screener/internal/models"
)

type SkillTier string

const (
	TierHigh   SkillTier = "skill-high"
	TierMedium SkillTier = "skill-medium"
	TierLow    SkillTier = "skill-low"
	TierNone   SkillTier = "skill-none"
)

const scorePlaceholder = "-"

// ScoreMeter is the badge and proportional bar for one score.
type ScoreMeter struct {
	Label       string
	Scale       int
	Caption     string
	BadgeClass  string
	Present     bool
	Value       int
	Width       int
	Tier        SkillTier
	Placeholder string
}

// Display is the badge text: the value, or the placeholder when absent.
func (m ScoreMeter) Display() string {
	if !m.Present {
		return m.Placeholder
	}
	return strconv.Itoa(m.Value)
}

// NewATSMeter builds the 0-100 meter. Width equals the score.
func NewATSMeter(s models.Score) ScoreMeter {
	m := ScoreMeter{
		Label:       "ATS Score",
		Scale:       models.ATSScoreMax,
		Caption:     "Measures keyword matching and resume structure",
		BadgeClass:  "ats-score",
		Tier:        TierNone,
		Placeholder: scorePlaceholder,
	}
	if s = s.Within(0, models.ATSScoreMax); !s.Valid {
		return m
	}
	m.Present = true
	m.Value = s.Value
	m.Width = s.Value
	m.Tier = tierFor(s.Value, 80, 60)
	return m
}

// NewHRMeter builds the 0-10 meter. Width is the score times ten.
func NewHRMeter(s models.Score) ScoreMeter {
	m := ScoreMeter{
		Label:       "HR Score",
		Scale:       models.HRScoreMax,
		Caption:     "Measures cultural fit and experience relevance",
		BadgeClass:  "hr-score",
		Tier:        TierNone,
		Placeholder: scorePlaceholder,
	}
	if s = s.Within(0, models.HRScoreMax); !s.Valid {
		return m
	}
	m.Present = true
	m.Value = s.Value
	m.Width = s.Value * 10
	m.Tier = tierFor(s.Value, 8, 6)
	return m
}

func tierFor(v, high, medium int) SkillTier {
	switch {
	case v >= high:
		return TierHigh
	case v >= medium:
		return TierMedium
	default:
		return TierLow
	}
}
