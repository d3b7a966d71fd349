package model

import (
	"context"
)

// SessionStore persists ConversationState between turns, keyed by session id.
type SessionStore interface {
	// Load returns the state for id, or (nil, nil) when none exists or it expired.
	Load(ctx context.Context, sessionID string) (*ConversationState, error)

	// Save stores the state and refreshes its idle expiry.
	Save(ctx context.Context, state *ConversationState) error

	// Delete removes the state for id. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error
}

// IntentClassifier maps a message plus recent history onto an Intent.
type IntentClassifier interface {
	Classify(ctx context.Context, message string, recent []Message) (Intent, error)
}

// KnowledgeBase answers a query with the single best record, or nil when
// nothing is relevant enough.
type KnowledgeBase interface {
	Lookup(ctx context.Context, query string) (*KnowledgeRecord, error)
}

// LeadSink receives completed leads.
type LeadSink interface {
	Submit(ctx context.Context, lead Lead) (*LeadAck, error)
}
