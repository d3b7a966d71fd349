package repo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/autostream-assistant/server/internal/agent/model"
)

type memoryEntry struct {
	state   *model.ConversationState
	touched time.Time
}

// MemorySessionRepository keeps sessions in process. Entries idle for longer
// than ttl are dropped on access.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *MemorySessionRepository) expired(e memoryEntry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.touched) > r.ttl
}

// Load returns a copy so callers cannot mutate the stored state.
func (r *MemorySessionRepository) Load(ctx context.Context, sessionID string) (*model.ConversationState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if r.expired(e, r.now()) {
		delete(r.sessions, sessionID)
		return nil, nil
	}
	return e.state.Clone(), nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, state *model.ConversationState) error {
	if state == nil {
		return errors.New("nil conversation state")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sessions[state.SessionID] = memoryEntry{state: state.Clone(), touched: now}
	r.sweep(now)
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

// Len counts stored sessions, expired ones included.
func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// sweep must be called with mu held.
func (r *MemorySessionRepository) sweep(now time.Time) {
	for id, e := range r.sessions {
		if r.expired(e, now) {
			delete(r.sessions, id)
		}
	}
}

var _ model.SessionStore = (*MemorySessionRepository)(nil)
