package repositories

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/render"
)

var ErrCardNotFound = errors.New("card not found")

// SessionRepository keeps per-browser dashboard state in memory.
type SessionRepository interface {
	Touch(sessionID string)
	Snapshot(sessionID string) (candidates []models.Candidate, fetched bool)
	ReplaceSnapshot(sessionID string, candidates []models.Candidate)
	CardState(sessionID, cardID string) render.CardState
	UpdateCardState(sessionID, cardID string, update func(render.CardState) (render.CardState, error)) error
	FindCandidate(sessionID, cardID string) (*models.Candidate, error)
	SetFlash(sessionID string, msg models.StatusMessage)
	PopFlash(sessionID string) *models.StatusMessage
	SetJobDescription(sessionID, jd string, daysFilter int)
	JobDescription(sessionID string) (jd string, daysFilter int)
	DeleteIdle(olderThan time.Time) int
}

type session struct {
	jobDescription string
	daysFilter     int
	fetched        bool
	candidates     []models.Candidate
	cardIDs        []string
	cardStates     map[string]render.CardState
	flash          *models.StatusMessage
	lastSeen       time.Time
}

type sessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// lookup returns the session and marks it seen, or nil when it does not
// exist. Callers hold mu.
func (r *sessionRepository) lookup(id string) *session {
	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = r.now()
	}
	return s
}

// get returns the session, creating it on first use. Callers hold mu.
func (r *sessionRepository) get(id string) *session {
	s, ok := r.sessions[id]
	if !ok {
		s = &session{cardStates: make(map[string]render.CardState)}
		r.sessions[id] = s
	}
	s.lastSeen = r.now()
	return s
}

// Touch registers the session or refreshes its last-seen time.
func (r *sessionRepository) Touch(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(sessionID)
}

// Snapshot returns a copy of the last fetched candidates. fetched is false
// until the first fetch that produced a result.
func (r *sessionRepository) Snapshot(sessionID string) ([]models.Candidate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup(sessionID)
	if s == nil {
		return nil, false
	}
	out := make([]models.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out, s.fetched
}

// ReplaceSnapshot stores a new result set and resets every card to its
// default state.
func (r *sessionRepository) ReplaceSnapshot(sessionID string, candidates []models.Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.get(sessionID)
	s.fetched = true
	s.candidates = make([]models.Candidate, len(candidates))
	copy(s.candidates, candidates)
	s.cardIDs = make([]string, len(candidates))
	for i, c := range candidates {
		s.cardIDs[i] = render.CardID(c.Filename, i)
	}
	s.cardStates = make(map[string]render.CardState)
}

func (r *sessionRepository) CardState(sessionID, cardID string) render.CardState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s := r.lookup(sessionID); s != nil {
		if state, ok := s.cardStates[cardID]; ok {
			return state
		}
	}
	return render.DefaultCardState()
}

// UpdateCardState applies update to the card's current state. The card must
// belong to the current snapshot.
func (r *sessionRepository) UpdateCardState(sessionID, cardID string, update func(render.CardState) (render.CardState, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup(sessionID)
	if s == nil || s.indexOf(cardID) < 0 {
		return fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}

	current, ok := s.cardStates[cardID]
	if !ok {
		current = render.DefaultCardState()
	}
	next, err := update(current)
	if err != nil {
		return err
	}
	s.cardStates[cardID] = next
	return nil
}

func (r *sessionRepository) FindCandidate(sessionID, cardID string) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup(sessionID)
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}
	i := s.indexOf(cardID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}
	c := s.candidates[i]
	return &c, nil
}

func (r *sessionRepository) SetFlash(sessionID string, msg models.StatusMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(sessionID).flash = &msg
}

// PopFlash returns the pending status message once.
func (r *sessionRepository) PopFlash(sessionID string) *models.StatusMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup(sessionID)
	if s == nil {
		return nil
	}
	msg := s.flash
	s.flash = nil
	return msg
}

func (r *sessionRepository) SetJobDescription(sessionID, jd string, daysFilter int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.get(sessionID)
	s.jobDescription = jd
	s.daysFilter = daysFilter
}

func (r *sessionRepository) JobDescription(sessionID string) (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup(sessionID)
	if s == nil {
		return "", 0
	}
	return s.jobDescription, s.daysFilter
}

// DeleteIdle drops sessions not seen since olderThan and reports how many.
func (r *sessionRepository) DeleteIdle(olderThan time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(olderThan) {
			delete(r.sessions, id)
			deleted++
		}
	}
	return deleted
}

func (s *session) indexOf(cardID string) int {
	for i, id := range s.cardIDs {
		if id == cardID {
			return i
		}
	}
	return -1
}
