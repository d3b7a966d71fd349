package nodes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autostream-assistant/server/internal/agent/model"
)

func newTurn(msg string) *model.Turn {
	return &model.Turn{
		State:   model.NewConversationState("s1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		Message: msg,
	}
}

func TestRouteCondition(t *testing.T) {
	route := NewRouteCondition()
	ctx := context.Background()

	cases := []struct {
		name   string
		setup  func(*model.Turn)
		expect string
	}{
		{"greeting", func(t *model.Turn) { t.Intent = model.IntentGreeting }, NodeGreet},
		{"inquiry", func(t *model.Turn) { t.Intent = model.IntentProductInquiry }, NodeAnswer},
		{"unknown", func(t *model.Turn) { t.Intent = model.IntentUnknown }, NodeAnswer},
		{"lead", func(t *model.Turn) { t.Intent = model.IntentHighIntentLead }, NodeCollect},
		{"collecting", func(t *model.Turn) {
			t.State.CollectionStarted = true
			t.Intent = model.IntentGreeting
		}, NodeCollect},
		{"submitted lead", func(t *model.Turn) {
			t.State.LeadSubmitted = true
			t.Intent = model.IntentHighIntentLead
		}, NodeAcknowledge},
		{"submitted greeting", func(t *model.Turn) {
			t.State.LeadSubmitted = true
			t.Intent = model.IntentGreeting
		}, NodeGreet},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			turn := newTurn("x")
			tc.setup(turn)
			next, err := route(ctx, turn)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, next)
		})
	}
}

func TestAskFor(t *testing.T) {
	assert.Contains(t, AskFor(model.FieldName, model.LeadFields{}), "What's your name?")
	assert.Equal(t, "Thanks, John! What's the best email address to reach you?", AskFor(model.FieldEmail, model.LeadFields{Name: "John Doe"}))
	assert.Equal(t, "What's the best email address to reach you?", AskFor(model.FieldEmail, model.LeadFields{}))
	assert.Contains(t, AskFor(model.FieldPlatform, model.LeadFields{}), "YouTube")
}

func TestConfirmationListsFields(t *testing.T) {
	msg := Confirmation(model.LeadFields{Name: "John Doe", Email: "john@example.com", Platform: "YouTube"})
	assert.Contains(t, msg, "Name: John Doe")
	assert.Contains(t, msg, "Email: john@example.com")
	assert.Contains(t, msg, "Platform: YouTube")
}
