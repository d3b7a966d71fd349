package lead

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/autostream-assistant/server/internal/agent/model"
	logx "github.com/autostream-assistant/server/pkg/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const defaultFlushTimeout = 5 * time.Second

type publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

var _ publisher = (*nats.Conn)(nil)

// LeadEvent is the payload published for each submitted lead.
type LeadEvent struct {
	Reference string     `json:"reference"`
	Lead      model.Lead `json:"lead"`
}

// NATSSink publishes leads to a subject and waits for the server to take them.
type NATSSink struct {
	conn    publisher
	subject string
	now     func() time.Time
}

func NewNATSSink(conn *nats.Conn, subject string) *NATSSink {
	return &NATSSink{conn: conn, subject: subject, now: time.Now}
}

func (s *NATSSink) Submit(ctx context.Context, l model.Lead) (*model.LeadAck, error) {
	event := LeadEvent{Reference: uuid.NewString(), Lead: l}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lead: %w", err)
	}
	if err := s.conn.Publish(s.subject, data); err != nil {
		return nil, fmt.Errorf("failed to publish lead to %s: %w", s.subject, err)
	}
	if _, ok := ctx.Deadline(); !ok {
		// FlushWithContext rejects contexts without a deadline.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultFlushTimeout)
		defer cancel()
	}
	if err := s.conn.FlushWithContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to flush lead to %s: %w", s.subject, err)
	}

	logx.Info().Str("session_id", l.SessionID).Str("subject", s.subject).Str("reference", event.Reference).Msg("lead published")
	return &model.LeadAck{Reference: event.Reference, SubmittedAt: s.now().UTC()}, nil
}

var _ model.LeadSink = (*NATSSink)(nil)
