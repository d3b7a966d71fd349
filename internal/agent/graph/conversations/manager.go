package conversations

import (
	"strings"

	"github.com/autostream-assistant/server/internal/agent/model"
)

const DefaultHistoryWindow = 6

// MessagesManager decides which part of the history the classifier sees and
// how it is rendered.
type MessagesManager struct {
	window int
}

func NewMessagesManager(config model.ConversationConfig) *MessagesManager {
	window := config.HistoryWindow
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &MessagesManager{window: window}
}

func (cm *MessagesManager) Window() int {
	return cm.window
}

// Recent returns a copy of the trailing history window of state. The message
// being processed must not have been appended yet.
func (cm *MessagesManager) Recent(state *model.ConversationState) []model.Message {
	return trimTail(state.History, cm.window)
}

// BuildClassifierContext renders recent turns in the tagged form the
// classification prompt expects.
func BuildClassifierContext(recent []model.Message) string {
	var contextBuilder strings.Builder
	contextBuilder.WriteString("<conversation_context>\n")

	for _, msg := range recent {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case model.RoleUser:
			contextBuilder.WriteString("UserMessage(" + msg.Content + ")\n")
		case model.RoleAssistant:
			contextBuilder.WriteString("AssistantMessage(" + msg.Content + ")\n")
		}
	}

	contextBuilder.WriteString("</conversation_context>")
	return contextBuilder.String()
}

// ====================== Helper function ======================
func trimTail(messages []model.Message, maxTurns int) []model.Message {
	if len(messages) <= maxTurns {
		result := make([]model.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]model.Message, len(source))
	copy(result, source)
	return result
}
