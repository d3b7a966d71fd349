package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autostream-assistant/server/internal/agent/model"
	"github.com/autostream-assistant/server/internal/agent/repo"
	errx "github.com/autostream-assistant/server/internal/core/error"
)

type echoHandler struct {
	messages []string
	err      error
}

func (h *echoHandler) HandleMessage(ctx context.Context, sessionID, message string) (*model.TurnResult, error) {
	h.messages = append(h.messages, message)
	return &model.TurnResult{
		Reply:     "echo: " + message,
		Intent:    model.IntentUnknown,
		Phase:     model.PhaseAnswer,
		TurnCount: len(h.messages),
	}, h.err
}

func TestRunChat_SkipsEmptyAndQuits(t *testing.T) {
	h := &echoHandler{}
	var out bytes.Buffer

	err := runChat(context.Background(), h, "s1", false, strings.NewReader("hello\n\n   \nQUIT\nignored\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"hello"}, h.messages)
	assert.Contains(t, out.String(), "Assistant: echo: hello")
	assert.Contains(t, out.String(), "Thank you for chatting")
	assert.NotContains(t, out.String(), "[DEBUG]")
}

func TestRunChat_DebugAndEOF(t *testing.T) {
	h := &echoHandler{}
	var out bytes.Buffer

	err := runChat(context.Background(), h, "s1", true, strings.NewReader("hi there"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "[DEBUG] Intent: unknown | Phase: answer | Turn: 1")
}

func TestRunChat_SinkFailureContinues(t *testing.T) {
	h := &echoHandler{err: errx.LeadSinkFailure(errors.New("down"))}
	var out bytes.Buffer

	err := runChat(context.Background(), h, "s1", false, strings.NewReader("a\nb\nq\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, h.messages)
}

func TestPrintLeads(t *testing.T) {
	leads := []repo.StoredLead{{
		Lead:        model.Lead{SessionID: "s1", Name: "John Doe", Email: "john@example.com", Platform: "YouTube"},
		Reference:   "ref-1",
		SubmittedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}

	var table bytes.Buffer
	require.NoError(t, printLeads(&table, leads, false))
	assert.Contains(t, table.String(), "John Doe")
	assert.Contains(t, table.String(), "ref-1")

	var js bytes.Buffer
	require.NoError(t, printLeads(&js, leads, true))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "john@example.com", decoded[0]["email"])
	assert.Equal(t, "ref-1", decoded[0]["reference"])

	var empty bytes.Buffer
	require.NoError(t, printLeads(&empty, nil, false))
	assert.Contains(t, empty.String(), "No leads")
}

func TestRootCommands(t *testing.T) {
	root := NewRootCmd("")
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["chat"])
	assert.True(t, names["serve"])
	assert.True(t, names["leads"])
}
