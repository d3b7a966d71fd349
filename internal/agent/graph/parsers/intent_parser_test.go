package parsers

import (
	"strings"
	"testing"

	"github.com/autostream-assistant/server/internal/agent/model"
	"github.com/stretchr/testify/assert"
)

func TestParseIntentLabel(t *testing.T) {
	tests := map[string]model.Intent{
		"greeting":                          model.IntentGreeting,
		"  PRODUCT_INQUIRY\n":               model.IntentProductInquiry,
		"`high_intent_lead`":                model.IntentHighIntentLead,
		"\"unknown\".":                      model.IntentUnknown,
		"Intent: high_intent_lead":          model.IntentHighIntentLead,
		"The label is product_inquiry.":     model.IntentProductInquiry,
		"greeting or product_inquiry":       model.IntentUnknown,
		"I think the user wants to buy":     model.IntentUnknown,
		"":                                  model.IntentUnknown,
		"greetings":                         model.IntentUnknown,
		"greeting, greeting":                model.IntentGreeting,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseIntentLabel(in), "input %q", in)
	}
}

func TestParseIntentLabelTruncatesLongOutput(t *testing.T) {
	long := strings.Repeat("x ", maxContentLen) + "greeting"
	assert.Equal(t, model.IntentUnknown, ParseIntentLabel(long))
}
