package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/autostream-assistant/server/internal/agent/model"
	errx "github.com/autostream-assistant/server/internal/core/error"
	logx "github.com/autostream-assistant/server/pkg/logger"
)

// Processor runs one turn against a conversation state.
type Processor interface {
	Process(ctx context.Context, state *model.ConversationState, message string) (*model.TurnResult, error)
}

// Service owns the per-session state: it loads or creates it, serializes
// turns of the same session and saves the result.
type Service struct {
	store     model.SessionStore
	processor Processor
	now       func() time.Time
	locks     *keyedMutex
}

func NewService(store model.SessionStore, processor Processor) *Service {
	return &Service{
		store:     store,
		processor: processor,
		now:       time.Now,
		locks:     newKeyedMutex(),
	}
}

// HandleMessage processes message for sessionID. On a lead sink failure the
// state is still saved and the result is returned with the error.
func (s *Service) HandleMessage(ctx context.Context, sessionID, message string) (*model.TurnResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errx.InvalidRequest("session id is required")
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if state == nil {
		state = model.NewConversationState(sessionID, s.now())
		logx.Debug().Str("session_id", sessionID).Msg("new session")
	}

	result, procErr := s.processor.Process(ctx, state, message)
	if result == nil {
		return nil, procErr
	}

	if err := s.store.Save(ctx, state); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to save session")
		return nil, errors.Join(fmt.Errorf("save session %s: %w", sessionID, err), procErr)
	}
	return result, procErr
}

// Reset forgets a session.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	return s.store.Delete(ctx, sessionID)
}

// keyedMutex hands out one mutex per key and drops it once nobody holds or
// waits for it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.mu.Lock()
	return func() {
		m.mu.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
