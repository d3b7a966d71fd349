package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/intent_prompt.txt
var intentSystemPrompt string

const intentUserTemplate = `{{.Context}}
<current_message_to_classify>
{{.Message}}
</current_message_to_classify>`

// NewIntentTemplate returns the chat template for intent classification. It
// expects the variables Context and Message.
func NewIntentTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(intentSystemPrompt),
		schema.UserMessage(intentUserTemplate),
	)
}

// RenderIntentMessages formats the classification prompt through the Eino
// prompt component so prompt callbacks fire.
func RenderIntentMessages(ctx context.Context, tpl prompt.ChatTemplate, conversationContext, message string) ([]*schema.Message, error) {
	msgs, err := tpl.Format(ctx, map[string]any{
		"Context": conversationContext,
		"Message": message,
	})
	if err != nil {
		return nil, fmt.Errorf("intent prompt render: %w", err)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("intent prompt render: empty result")
	}
	return msgs, nil
}
