package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autostream-assistant/server/internal/agent/model"
	errx "github.com/autostream-assistant/server/internal/core/error"
)

type stubHandler struct {
	result *model.TurnResult
	err    error
	gotID  string
	gotMsg string
}

func (h *stubHandler) HandleMessage(ctx context.Context, sessionID, message string) (*model.TurnResult, error) {
	h.gotID, h.gotMsg = sessionID, message
	return h.result, h.err
}

func newServer(h TurnHandler) *NATSServer {
	return NewNATSServer(nil, &model.NATSConfig{RequestSubject: "assistant.turn", QueueGroup: "assistant"}, h)
}

func TestHandle_OK(t *testing.T) {
	h := &stubHandler{result: &model.TurnResult{
		Reply:     "Hello!",
		Intent:    model.IntentGreeting,
		Phase:     model.PhaseGreet,
		TurnCount: 1,
	}}

	resp := newServer(h).Handle(context.Background(), []byte(`{"session_id":"s1","message":"Hi"}`))

	assert.Equal(t, "s1", h.gotID)
	assert.Equal(t, "Hi", h.gotMsg)
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, "Hello!", resp.Reply)
	assert.Equal(t, model.IntentGreeting, resp.Intent)
	assert.Nil(t, resp.ErrorCode)
}

func TestHandle_MalformedJSON(t *testing.T) {
	h := &stubHandler{}

	resp := newServer(h).Handle(context.Background(), []byte(`{not json`))

	assert.Equal(t, StatusError, resp.Status)
	require.NotNil(t, resp.ErrorCode)
	assert.Equal(t, errx.CodeInvalidRequest, *resp.ErrorCode)
	assert.Empty(t, h.gotID)
}

func TestHandle_MissingSessionID(t *testing.T) {
	resp := newServer(&stubHandler{}).Handle(context.Background(), []byte(`{"message":"Hi"}`))

	assert.Equal(t, StatusError, resp.Status)
	require.NotNil(t, resp.ErrorCode)
	assert.Equal(t, errx.CodeInvalidRequest, *resp.ErrorCode)
	require.NotNil(t, resp.ErrorMessage)
	assert.Equal(t, "session_id is required", *resp.ErrorMessage)
}

func TestHandle_SinkFailureKeepsReply(t *testing.T) {
	h := &stubHandler{
		result: &model.TurnResult{Reply: "sorry", Phase: model.PhaseComplete},
		err:    errx.LeadSinkFailure(errors.New("down")),
	}

	resp := newServer(h).Handle(context.Background(), []byte(`{"session_id":"s1","message":"YouTube"}`))

	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, "sorry", resp.Reply)
	require.NotNil(t, resp.ErrorCode)
	assert.Equal(t, errx.CodeLeadSinkFailure, *resp.ErrorCode)
}

func TestHandle_InternalError(t *testing.T) {
	h := &stubHandler{err: errors.New("redis down")}

	resp := newServer(h).Handle(context.Background(), []byte(`{"session_id":"s1","message":"Hi"}`))

	assert.Equal(t, StatusError, resp.Status)
	require.NotNil(t, resp.ErrorCode)
	assert.Equal(t, errx.CodeInternal, *resp.ErrorCode)
	require.NotNil(t, resp.ErrorMessage)
	assert.Equal(t, errx.SystemErrorMessage, *resp.ErrorMessage)
}
