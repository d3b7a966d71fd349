package prompts

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIntentMessages(t *testing.T) {
	msgs, err := RenderIntentMessages(context.Background(), NewIntentTemplate(),
		"<conversation_context>\nUserMessage(hi)\n</conversation_context>", "how much is {{pro}}?")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "high_intent_lead")

	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "UserMessage(hi)")
	assert.Contains(t, msgs[1].Content, "how much is {{pro}}?")
}
