package lead

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/autostream-assistant/server/internal/agent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	calls int
	err   error
	fails int
	ref   string
}

func (s *recordingSink) Submit(ctx context.Context, l model.Lead) (*model.LeadAck, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.fails > 0 {
		s.fails--
		return nil, errors.New("down")
	}
	return &model.LeadAck{Reference: s.ref}, nil
}

type fakePublisher struct {
	subject  string
	data     []byte
	pubErr   error
	flushErr error
	deadline bool
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.subject = subject
	p.data = data
	return p.pubErr
}

func (p *fakePublisher) FlushWithContext(ctx context.Context) error {
	_, p.deadline = ctx.Deadline()
	return p.flushErr
}

var testLead = model.Lead{SessionID: "s1", Name: "John Doe", Email: "john@example.com", Platform: "YouTube"}

func TestLogSink(t *testing.T) {
	ack, err := NewLogSink().Submit(context.Background(), testLead)
	require.NoError(t, err)
	assert.NotEmpty(t, ack.Reference)
	assert.False(t, ack.SubmittedAt.IsZero())
}

func TestMultiSink(t *testing.T) {
	t.Run("fans out and returns first ack", func(t *testing.T) {
		a, b := &recordingSink{ref: "a"}, &recordingSink{ref: "b"}
		ack, err := NewMultiSink(a, b).Submit(context.Background(), testLead)
		require.NoError(t, err)
		assert.Equal(t, "a", ack.Reference)
		assert.Equal(t, 1, a.calls)
		assert.Equal(t, 1, b.calls)
	})

	t.Run("stops on failure", func(t *testing.T) {
		boom := errors.New("boom")
		a, b := &recordingSink{err: boom}, &recordingSink{ref: "b"}
		_, err := NewMultiSink(a, b).Submit(context.Background(), testLead)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 0, b.calls)
	})

	t.Run("retry skips sinks that already accepted", func(t *testing.T) {
		durable, flaky := &recordingSink{ref: "a"}, &recordingSink{ref: "b", fails: 1}
		m := NewMultiSink(durable, flaky)

		_, err := m.Submit(context.Background(), testLead)
		require.ErrorContains(t, err, "sink 1: down")

		ack, err := m.Submit(context.Background(), testLead)
		require.NoError(t, err)
		assert.Equal(t, "a", ack.Reference)
		assert.Equal(t, 1, durable.calls)
		assert.Equal(t, 2, flaky.calls)

		other := testLead
		other.SessionID = "s2"
		_, err = m.Submit(context.Background(), other)
		require.NoError(t, err)
		assert.Equal(t, 2, durable.calls, "acknowledgements are tracked per session")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewMultiSink().Submit(context.Background(), testLead)
		assert.Error(t, err)
	})
}

func TestNATSSink(t *testing.T) {
	pub := &fakePublisher{}
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	sink := &NATSSink{conn: pub, subject: "assistant.leads", now: func() time.Time { return fixed }}

	ack, err := sink.Submit(context.Background(), testLead)
	require.NoError(t, err)
	assert.Equal(t, "assistant.leads", pub.subject)
	assert.True(t, pub.deadline, "flush always runs with a deadline")
	assert.Equal(t, fixed, ack.SubmittedAt)

	var event LeadEvent
	require.NoError(t, json.Unmarshal(pub.data, &event))
	assert.Equal(t, ack.Reference, event.Reference)
	assert.Equal(t, testLead.Email, event.Lead.Email)

	pub.flushErr = errors.New("timeout")
	_, err = sink.Submit(context.Background(), testLead)
	assert.ErrorContains(t, err, "flush")
}
