package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/colormatch/internal/model"
)

const (
	// SessionIDAlphabet is the character set for generating session IDs
	SessionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// SessionIDLength is the length of generated session IDs
	SessionIDLength = 12
)

// Manager keeps live sessions in memory and fans their events out to subscribers.
// Grids never leave the process.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[model.SessionID]*Session
	listeners []Listener
	deps      Dependencies
	logger    *slog.Logger
}

// NewManager creates a new session Manager
func NewManager(deps Dependencies) *Manager {
	return &Manager{
		sessions: make(map[model.SessionID]*Session),
		deps:     deps,
		logger:   deps.Logger.With(slog.String("component", "session-manager")),
	}
}

// Create starts a new session for the player in the ready state
func (m *Manager) Create(ctx context.Context, playerID model.PlayerID) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := model.SessionID(m.deps.Random.String(SessionIDLength, SessionIDAlphabet))
	s, err := New(id, playerID, m.deps)
	if err != nil {
		m.logger.Error("failed to create session",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	s.Subscribe(m.dispatch)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.String("player_id", string(playerID)),
	)
	return s, nil
}

// Get returns a live session by ID
func (m *Manager) Get(id model.SessionID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return s, nil
}

// GetForPlayer returns a session only if the player owns it
func (m *Manager) GetForPlayer(id model.SessionID, playerID model.PlayerID) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if s.PlayerID() != playerID {
		return nil, model.ErrSessionNotFound
	}
	return s, nil
}

// ListForPlayer returns the player's sessions, most recently updated first
func (m *Manager) ListForPlayer(playerID model.PlayerID) []*Session {
	m.mu.RLock()
	var result []*Session
	for _, s := range m.sessions {
		if s.PlayerID() == playerID {
			result = append(result, s)
		}
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt().After(result[j].UpdatedAt())
	})
	return result
}

// Remove discards a session
func (m *Manager) Remove(id model.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return model.ErrSessionNotFound
	}
	delete(m.sessions, id)

	m.logger.Info("session removed", slog.String("session_id", string(id)))
	return nil
}

// CleanupIdle discards sessions with no committed mutation within maxAge and
// returns how many were dropped
func (m *Manager) CleanupIdle(maxAge time.Duration) int {
	cutoff := m.deps.Clock.Now().Add(-maxAge)

	m.mu.RLock()
	var idle []model.SessionID
	for id, s := range m.sessions {
		if s.UpdatedAt().Before(cutoff) {
			idle = append(idle, id)
		}
	}
	m.mu.RUnlock()

	if len(idle) == 0 {
		return 0
	}

	m.mu.Lock()
	for _, id := range idle {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	m.logger.Info("idle sessions removed",
		slog.Int("count", len(idle)),
		slog.Duration("max_age", maxAge),
	)
	return len(idle)
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Subscribe registers a listener for the events of every session
func (m *Manager) Subscribe(listener Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

func (m *Manager) dispatch(event model.Event) {
	m.mu.RLock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}
