package model

import "strings"

// Intent is the closed set of labels a user message is classified into.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentProductInquiry Intent = "product_inquiry"
	IntentHighIntentLead Intent = "high_intent_lead"
	IntentUnknown        Intent = "unknown"
)

// Intents lists every label in routing priority order.
var Intents = []Intent{IntentHighIntentLead, IntentProductInquiry, IntentGreeting, IntentUnknown}

func (i Intent) String() string {
	return string(i)
}

// Valid reports whether i is one of the four known labels.
func (i Intent) Valid() bool {
	switch i {
	case IntentGreeting, IntentProductInquiry, IntentHighIntentLead, IntentUnknown:
		return true
	}
	return false
}

// ParseIntent maps an exact label (case and surrounding space ignored) to an Intent.
func ParseIntent(s string) (Intent, bool) {
	i := Intent(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return IntentUnknown, false
	}
	return i, true
}
