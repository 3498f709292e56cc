// Package sessions owns per-conversation history: which session ids are
// live, and where their messages are stored (in memory by default, Redis
// when configured).
package sessions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/model"
	logx "github.com/LiamConnell/compass-gcp-ai-starter-pack/pkg/logger"
)

// ErrDuplicateSession is returned when creating a session id that is
// already bound to live history.
var ErrDuplicateSession = errors.New("session already exists")

// Manager tracks live session ids over a conversation repository.
type Manager struct {
	mu   sync.Mutex
	ids  map[string]struct{}
	repo model.ConversationRepository
}

func NewManager(repo model.ConversationRepository) *Manager {
	return &Manager{
		ids:  make(map[string]struct{}),
		repo: repo,
	}
}

// Repository returns the underlying conversation history store.
func (m *Manager) Repository() model.ConversationRepository {
	return m.repo
}

// Create registers a new session with empty history.
func (m *Manager) Create(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.ids[sessionID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSession, sessionID)
	}
	m.ids[sessionID] = struct{}{}
	logx.Debug().Str("session_id", sessionID).Msg("session created")
	return nil
}

// GetOrCreate registers the session if unknown and reports whether it was
// created by this call.
func (m *Manager) GetOrCreate(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.ids[sessionID]; exists {
		return false
	}
	m.ids[sessionID] = struct{}{}
	logx.Debug().Str("session_id", sessionID).Msg("session created")
	return true
}

// Delete removes the session and its history. An unknown id is reported as
// not found (false), not as an error.
func (m *Manager) Delete(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	_, exists := m.ids[sessionID]
	delete(m.ids, sessionID)
	m.mu.Unlock()

	if !exists {
		return false, nil
	}
	if err := m.repo.ClearHistory(ctx, sessionID); err != nil {
		return true, err
	}
	logx.Debug().Str("session_id", sessionID).Msg("session deleted")
	return true, nil
}

// List returns the live session ids in sorted order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ids)
}
