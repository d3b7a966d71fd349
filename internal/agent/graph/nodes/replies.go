package nodes

import (
	"fmt"
	"strings"

	"github.com/autostream-assistant/server/internal/agent/lead"
	"github.com/autostream-assistant/server/internal/agent/model"
)

const (
	GreetingReply = "Hello! Welcome to AutoStream. I'm here to help you learn about our automated video editing platform for content creators. How can I assist you today?"

	FallbackReply = "I'm sorry, I don't have that information. I can tell you about AutoStream's plans, pricing, refund policy or support. What would you like to know?"

	InvalidEmailReply = "I need a valid email address. Could you please provide your email?"

	AlreadyRegisteredReply = "You're already registered, and our team will reach out to you shortly. Is there anything else you'd like to know about AutoStream?"

	SinkFailureReply = "Thanks, I have all your details, but I couldn't submit them just now. Please send any message and I'll try again."

	answerFollowUp = "Is there anything else you'd like to know?"
)

// AskFor returns the prompt requesting field.
func AskFor(field model.Field, fields model.LeadFields) string {
	switch field {
	case model.FieldName:
		return "Great! I'd love to help you get started with AutoStream. What's your name?"
	case model.FieldEmail:
		if fields.Name != "" {
			return fmt.Sprintf("Thanks, %s! What's the best email address to reach you?", firstName(fields.Name))
		}
		return "What's the best email address to reach you?"
	case model.FieldPlatform:
		return fmt.Sprintf("Which platform do you create content for? (for example %s)", strings.Join(lead.Platforms[:3], ", "))
	}
	return ""
}

// Confirmation lists the captured lead fields.
func Confirmation(fields model.LeadFields) string {
	return fmt.Sprintf("Perfect! I've captured your information:\n- Name: %s\n- Email: %s\n- Platform: %s\n\nOur team will reach out to you shortly to help you get started with AutoStream!",
		fields.Name, fields.Email, fields.Platform)
}

// Answer wraps a knowledge record as a reply.
func Answer(rec *model.KnowledgeRecord) string {
	return rec.Content + "\n\n" + answerFollowUp
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}
