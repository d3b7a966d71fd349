package lead

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/autostream-assistant/server/internal/agent/model"
	logx "github.com/autostream-assistant/server/pkg/logger"
	"github.com/google/uuid"
)

// LogSink acknowledges every lead after logging it. It stands in for a CRM.
type LogSink struct {
	now func() time.Time
}

func NewLogSink() *LogSink {
	return &LogSink{now: time.Now}
}

func (s *LogSink) Submit(ctx context.Context, l model.Lead) (*model.LeadAck, error) {
	ack := &model.LeadAck{Reference: uuid.NewString(), SubmittedAt: s.now().UTC()}
	logx.Info().
		Str("session_id", l.SessionID).
		Str("name", l.Name).
		Str("email", l.Email).
		Str("platform", l.Platform).
		Str("reference", ack.Reference).
		Msg("Lead captured successfully")
	return ack, nil
}

// MultiSink submits to every sink in order and fails on the first failure.
// The returned acknowledgement is the first sink's. Acknowledgements from a
// failed attempt are kept per session, so a retry only reaches the sinks that
// have not accepted the lead yet.
type MultiSink struct {
	sinks []model.LeadSink

	mu    sync.Mutex
	acked map[string][]*model.LeadAck
}

func NewMultiSink(sinks ...model.LeadSink) *MultiSink {
	return &MultiSink{sinks: sinks, acked: make(map[string][]*model.LeadAck)}
}

func (m *MultiSink) Submit(ctx context.Context, l model.Lead) (*model.LeadAck, error) {
	if len(m.sinks) == 0 {
		return nil, errors.New("no lead sinks configured")
	}

	acks := m.pending(l.SessionID)
	for i, s := range m.sinks {
		if acks[i] != nil {
			continue
		}
		ack, err := s.Submit(ctx, l)
		if err != nil {
			m.keep(l.SessionID, acks)
			return nil, fmt.Errorf("sink %d: %w", i, err)
		}
		if ack == nil {
			ack = &model.LeadAck{}
		}
		acks[i] = ack
	}

	m.mu.Lock()
	delete(m.acked, l.SessionID)
	m.mu.Unlock()
	return acks[0], nil
}

// pending returns a copy of the acknowledgements already collected for session.
func (m *MultiSink) pending(session string) []*model.LeadAck {
	acks := make([]*model.LeadAck, len(m.sinks))
	m.mu.Lock()
	copy(acks, m.acked[session])
	m.mu.Unlock()
	return acks
}

func (m *MultiSink) keep(session string, acks []*model.LeadAck) {
	for _, a := range acks {
		if a != nil {
			m.mu.Lock()
			m.acked[session] = acks
			m.mu.Unlock()
			return
		}
	}
}

var (
	_ model.LeadSink = (*LogSink)(nil)
	_ model.LeadSink = (*MultiSink)(nil)
)
