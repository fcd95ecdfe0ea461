package render

import (
	"html/template"
	"strings"
)

const (
	strengthMarker = "- **Strength:**"
	weaknessMarker = "- **Weakness:**"
)

// AssessmentList is one side of the strengths/weaknesses block. It is either
// Structured, carrying the marked items, or unstructured, carrying the whole
// block formatted as a single section.
type AssessmentList struct {
	Structured bool
	Items      []template.HTML
	Fallback   template.HTML
}

type Assessment struct {
	Strengths  AssessmentList
	Weaknesses AssessmentList
}

// ParseAssessment splits the strengths/weaknesses text on its item markers.
// Each side degrades independently to the formatted raw text when its
// marker is missing.
func ParseAssessment(text string) Assessment {
	return Assessment{
		Strengths:  extractMarked(text, strengthMarker, weaknessMarker),
		Weaknesses: extractMarked(text, weaknessMarker, strengthMarker),
	}
}

func extractMarked(text, marker, opposite string) AssessmentList {
	if !strings.Contains(text, marker) {
		return AssessmentList{Fallback: FormatSection(text)}
	}

	chunks := strings.Split(text, marker)[1:]
	items := make([]template.HTML, 0, len(chunks))
	for _, chunk := range chunks {
		item := strings.TrimSpace(strings.SplitN(chunk, opposite, 2)[0])
		items = append(items, FormatSection(item))
	}
	return AssessmentList{Structured: true, Items: items}
}
