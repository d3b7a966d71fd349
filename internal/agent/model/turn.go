package model

import "time"

// Phase is the controller state a turn ended in.
type Phase string

const (
	PhaseGreet      Phase = "greet"
	PhaseAnswer     Phase = "answer"
	PhaseCollecting Phase = "collecting"
	PhaseComplete   Phase = "complete"
	PhaseDone       Phase = "done"
)

// Degradation kinds recorded on a TurnResult.
const (
	DegradedClassification = "classification"
	DegradedRetrieval      = "retrieval"
	DegradedLeadSink       = "lead_sink"
)

// TurnResult is what one processed message produces for the caller.
type TurnResult struct {
	Reply         string     `json:"reply"`
	Intent        Intent     `json:"intent"`
	Phase         Phase      `json:"phase"`
	Lead          LeadFields `json:"lead"`
	LeadSubmitted bool       `json:"lead_submitted"`
	TurnCount     int        `json:"turn_count"`
	Degraded      []string   `json:"degraded,omitempty"`
}

// Lead is a completed contact record handed to a LeadSink.
type Lead struct {
	SessionID  string    `json:"session_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Platform   string    `json:"platform"`
	CapturedAt time.Time `json:"captured_at"`
}

// LeadAck is a sink's acknowledgement of a submitted lead.
type LeadAck struct {
	Reference   string    `json:"reference"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// KnowledgeRecord is one topic of the product knowledge corpus.
type KnowledgeRecord struct {
	Topic    string   `json:"topic"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords,omitempty"`
}
