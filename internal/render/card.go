package render

import (
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
)

var ErrTabOutOfRange = errors.New("tab index out of range")

type TabID string

const (
	TabInfo           TabID = "info"
	TabStrengths      TabID = "strengths"
	TabSummary        TabID = "summary"
	TabRecommendation TabID = "recommendation"
	TabScores         TabID = "ats"
	TabInterview      TabID = "interview"
)

type tabSpec struct {
	ID    TabID
	Title string
	Icon  string
}

// Fixed order; index 0 is the default tab.
var cardTabs = []tabSpec{
	{TabInfo, "Basic Info", "user"},
	{TabStrengths, "Strengths & Weaknesses", "chart-bar"},
	{TabSummary, "Summary & Justification", "file-alt"},
	{TabRecommendation, "Recommendation", "star"},
	{TabScores, "Scores", "calculator"},
	{TabInterview, "Interview Qs", "question-circle"},
}

// CardState is the per-card interaction state.
//
//	Collapsed --toggle--> Expanded --toggle--> Collapsed
//	TabActive(i) --select(j)--> TabActive(j)
type CardState struct {
	Expanded  bool
	ActiveTab int
}

func DefaultCardState() CardState {
	return CardState{}
}

func (s CardState) Toggle() CardState {
	s.Expanded = !s.Expanded
	return s
}

func (s CardState) SelectTab(i int) (CardState, error) {
	if i < 0 || i >= len(cardTabs) {
		return s, fmt.Errorf("%w: %d", ErrTabOutOfRange, i)
	}
	s.ActiveTab = i
	return s, nil
}

type Tab struct {
	Index  int
	ID     TabID
	Title  string
	Icon   string
	Active bool
	URL    string
}

// Card is the renderable unit for one candidate.
type Card struct {
	ID        string
	Index     int
	Candidate models.Candidate

	ATS ScoreMeter
	HR  ScoreMeter

	BasicInfo      template.HTML
	Assessment     Assessment
	HRSummary      template.HTML
	Justification  template.HTML
	Recommendation template.HTML
	Questions      []ParsedQuestion

	Tabs  []Tab
	State CardState

	ToggleURL string
	EmailURL  string
}

// AnimationDelay staggers the fade-in of consecutive cards.
func (c *Card) AnimationDelay() string {
	return strconv.FormatFloat(float64(c.Index)*0.1, 'f', 1, 64) + "s"
}

// CardID derives a stable identity from the filename and list position.
func CardID(filename string, index int) string {
	key := fmt.Sprintf("%s#%d", filename, index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

type CardBuilder struct {
	basePath string
}

// NewCardBuilder returns a builder whose action URLs live under basePath,
// e.g. "/dashboard".
func NewCardBuilder(basePath string) *CardBuilder {
	return &CardBuilder{basePath: basePath}
}

// BuildCard composes the formatted sections, meters and tabs for one
// candidate. The card starts in the default state.
func (b *CardBuilder) BuildCard(c models.Candidate, index int) *Card {
	c.Normalize()
	s := c.Sections

	card := &Card{
		ID:             CardID(c.Filename, index),
		Index:          index,
		Candidate:      c,
		ATS:            NewATSMeter(s.ATSScore),
		HR:             NewHRMeter(s.HRScore),
		BasicInfo:      FormatSection(s.BasicInfo),
		Assessment:     ParseAssessment(s.StrengthsWeaknesses),
		HRSummary:      FormatSection(s.HRSummary),
		Justification:  FormatSection(s.Justification),
		Recommendation: FormatSection(s.Recommendation),
		Questions:      ParseInterviewQuestions(s.InterviewQuestions),
		Tabs:           make([]Tab, len(cardTabs)),
	}
	for i, spec := range cardTabs {
		card.Tabs[i] = Tab{Index: i, ID: spec.ID, Title: spec.Title, Icon: spec.Icon}
	}

	b.AttachInteractions(card, DefaultCardState())
	return card
}

// BuildCards builds one card per candidate, in order.
func (b *CardBuilder) BuildCards(candidates []models.Candidate) []*Card {
	cards := make([]*Card, 0, len(candidates))
	for i, c := range candidates {
		cards = append(cards, b.BuildCard(c, i))
	}
	return cards
}

// AttachInteractions applies state to the card and wires the toggle, tab
// and email action targets. An out-of-range tab falls back to tab 0.
func (b *CardBuilder) AttachInteractions(card *Card, state CardState) {
	if state.ActiveTab < 0 || state.ActiveTab >= len(card.Tabs) {
		state.ActiveTab = 0
	}
	card.State = state

	card.ToggleURL = fmt.Sprintf("%s/cards/%s/toggle", b.basePath, card.ID)
	card.EmailURL = b.basePath + "/email"
	for i := range card.Tabs {
		card.Tabs[i].Active = i == state.ActiveTab
		card.Tabs[i].URL = fmt.Sprintf("%s/cards/%s/tabs/%d", b.basePath, card.ID, i)
	}
}
