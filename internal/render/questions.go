package render

import (
	"html/template"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	matchLevelMarker  = "**Match level:**"
	explanationMarker = "**Explanation:**"
)

// questionSplit matches the "N. " prefix of every question. It is not
// anchored to line starts, so "version 2. of" inside a question also splits.
var questionSplit = regexp.MustCompile(`\d+\.\s`)

// noMatchPattern covers the phrasings the scoring prompt produces for the
// lowest bucket besides the literal "none".
var noMatchPattern = regexp.MustCompile(`none|\bno match\b|\bnot evident\b`)

type MatchClass string

const (
	MatchClear        MatchClass = "clear"
	MatchPartial      MatchClass = "partial"
	MatchNone         MatchClass = "none"
	MatchUnclassified MatchClass = ""
)

// CSSClass is the indicator class for the match level, empty when unclassified.
func (m MatchClass) CSSClass() string {
	if m == MatchUnclassified {
		return ""
	}
	return "match-" + string(m)
}

type ParsedQuestion struct {
	Index       int
	Text        string
	MatchLevel  string
	Explanation string
}

func (q ParsedQuestion) MatchClass() MatchClass {
	return ClassifyMatch(q.MatchLevel)
}

// ParseInterviewQuestions splits a numbered question block into records.
// Indexes are assigned by position; the numbers in the text are discarded.
func ParseInterviewQuestions(text string) []ParsedQuestion {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var questions []ParsedQuestion
	for _, chunk := range questionSplit.Split(text, -1) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		q := ParsedQuestion{Index: len(questions) + 1}

		parts := strings.Split(chunk, matchLevelMarker)
		q.Text = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			matchParts := strings.Split(parts[1], explanationMarker)
			q.MatchLevel = strings.TrimSpace(matchParts[0])
			if len(matchParts) > 1 {
				q.Explanation = strings.TrimSpace(matchParts[1])
			}
		}

		questions = append(questions, q)
	}
	return questions
}

// ClassifyMatch buckets free-text match levels. First keyword wins in the
// order clear, partial, none ("no match" and "not evident" count as none).
func ClassifyMatch(level string) MatchClass {
	l := strings.ToLower(norm.NFKC.String(level))
	switch {
	case strings.Contains(l, "clear"):
		return MatchClear
	case strings.Contains(l, "partial"):
		return MatchPartial
	case noMatchPattern.MatchString(l):
		return MatchNone
	default:
		return MatchUnclassified
	}
}

// RenderInterviewQuestions renders parsed questions as the interview tab body.
func (r *PageRenderer) RenderInterviewQuestions(questions []ParsedQuestion) (template.HTML, error) {
	return r.fragment("questions", questions)
}
