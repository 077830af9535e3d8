package workflow

import (
	"sync"
	"time"
	"tourneybot/internal/interpreter"
)

// SessionState is the per-user staging area for a team name; it is never persisted.
type SessionState struct {
	TeamName string
	StagedAt time.Time
}

// Sessions maps user id to its staged team name and the language last seen from that user.
type Sessions struct {
	mu     sync.RWMutex
	states map[int64]SessionState
	langs  map[int64]interpreter.Language
}

func NewSessions() *Sessions {
	return &Sessions{
		states: make(map[int64]SessionState),
		langs:  make(map[int64]interpreter.Language),
	}
}

// Stage overwrites any previously staged name.
func (s *Sessions) Stage(userID int64, teamName string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = SessionState{TeamName: teamName, StagedAt: at}
}

func (s *Sessions) Get(userID int64) (SessionState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[userID]
	return state, ok
}

// Clear reports whether there was anything to forget.
func (s *Sessions) Clear(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.states[userID]
	delete(s.states, userID)
	return ok
}

func (s *Sessions) SetLanguage(userID int64, lang interpreter.Language) {
	if lang == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.langs[userID] = lang
}

func (s *Sessions) Language(userID int64, fallback interpreter.Language) interpreter.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if lang, ok := s.langs[userID]; ok {
		return lang
	}
	return fallback
}
