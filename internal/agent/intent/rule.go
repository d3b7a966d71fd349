package intent

import (
	"context"
	"strings"
	"unicode"

	"github.com/autostream-assistant/server/internal/agent/lead"
	"github.com/autostream-assistant/server/internal/agent/model"
)

const StrategyRule = "rule"

// Phrases are matched on whole words after lowercasing and replacing every
// non-alphanumeric run with a single space, so "what's" is written "what s".
var (
	leadPhrases = []string{
		"sign up", "signup", "sign me up", "subscribe", "buy", "purchase",
		"i want the", "i want to try", "i want to buy", "i want to start", "i want to get",
		"i want to subscribe", "i d like to", "i would like to", "get started", "start with",
		"go with the", "interested in", "i m interested", "ready to", "try it", "try the",
		"free trial", "upgrade", "my channel", "my name is", "count me in",
	}

	inquiryPhrases = []string{
		"price", "prices", "pricing", "cost", "costs", "how much", "plan", "plans",
		"basic", "pro", "feature", "features", "include", "includes", "refund", "refunds",
		"policy", "support", "4k", "720p", "resolution", "caption", "captions",
		"video", "videos", "cancel", "autostream", "what is", "what s", "what does",
		"tell me", "do you", "can i", "offer",
	}

	planPhrases = []string{"pro plan", "basic plan", "pro", "basic"}

	questionPhrases = []string{
		"what", "which", "how", "why", "when", "where", "does", "do you", "is there", "are there",
		"can i", "can you", "tell me", "explain", "difference", "compare", "include", "includes",
		"price", "pricing", "cost", "costs", "feature", "features", "refund", "support",
	}

	greetingPhrases = []string{
		"hi", "hello", "hey", "hiya", "howdy", "greetings", "good morning",
		"good afternoon", "good evening", "yo", "sup",
	}
)

// RuleClassifier classifies by fixed keyword and phrase sets. First matching
// category wins in the order high_intent_lead, product_inquiry, greeting.
type RuleClassifier struct {
	extractor *lead.Extractor
}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{extractor: lead.NewExtractor()}
}

func (c *RuleClassifier) Name() string {
	return StrategyRule
}

func (c *RuleClassifier) Classify(_ context.Context, message string, _ []model.Message) (model.Intent, error) {
	norm := normalize(message)
	if norm == "" {
		return model.IntentUnknown, nil
	}

	// Contact details are a commitment signal on their own.
	fields := c.extractor.Extract(message)
	if fields.Email != "" || fields.Platform != "" || containsAny(norm, leadPhrases) {
		return model.IntentHighIntentLead, nil
	}
	// Naming a plan without asking about it ("hi, pro plan please") is a choice.
	if containsAny(norm, planPhrases) && !strings.Contains(message, "?") && !containsAny(norm, questionPhrases) {
		return model.IntentHighIntentLead, nil
	}
	if containsAny(norm, inquiryPhrases) {
		return model.IntentProductInquiry, nil
	}
	if containsAny(norm, greetingPhrases) {
		return model.IntentGreeting, nil
	}
	return model.IntentUnknown, nil
}

// normalize lowercases s and collapses non-alphanumeric runs to one space.
func normalize(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

func containsAny(norm string, phrases []string) bool {
	padded := " " + norm + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}

var _ model.IntentClassifier = (*RuleClassifier)(nil)
