package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrSessionNotFound = errors.New("session not found")

// Factory builds a fresh session for id.
type Factory func(ctx context.Context, id string) (*Session, error)

// Manager keeps one session per identifier for the lifetime of the process.
type Manager struct {
	factory Factory
	logger  zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(factory Factory, logger zerolog.Logger) *Manager {
	return &Manager{
		factory:  factory,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create builds a session under a new random id.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	return m.GetOrCreate(ctx, uuid.NewString())
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, found := m.sessions[id]
	m.mu.RUnlock()
	if found {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}

	s, err := m.factory(ctx, id)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = s
	m.logger.Info().Str("session", id).Msg("created chat session")
	return s, nil
}

func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
