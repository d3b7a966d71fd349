package model

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation history.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Field names a lead contact field.
type Field string

const (
	FieldName     Field = "name"
	FieldEmail    Field = "email"
	FieldPlatform Field = "platform"
)

// FieldOrder is the order in which missing fields are requested.
var FieldOrder = []Field{FieldName, FieldEmail, FieldPlatform}

// LeadFields holds the collected contact fields. An empty string means absent.
type LeadFields struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Platform string `json:"platform,omitempty"`
}

func (f LeadFields) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldPlatform:
		return f.Platform
	}
	return ""
}

func (f *LeadFields) Set(field Field, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldPlatform:
		f.Platform = value
	}
}

// Any reports whether at least one field is present.
func (f LeadFields) Any() bool {
	return f.Name != "" || f.Email != "" || f.Platform != ""
}

// ConversationState is the record threaded through every turn of one session.
type ConversationState struct {
	SessionID         string     `json:"session_id"`
	History           []Message  `json:"history"`
	Intent            Intent     `json:"intent"`
	Lead              LeadFields `json:"lead"`
	CollectionStarted bool       `json:"collection_started"`
	TurnCount         int        `json:"turn_count"`
	LeadSubmitted     bool       `json:"lead_submitted"`
	LeadReference     string     `json:"lead_reference,omitempty"`
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewConversationState returns an empty state for a new session.
func NewConversationState(sessionID string, now time.Time) *ConversationState {
	return &ConversationState{
		SessionID: sessionID,
		History:   []Message{},
		Intent:    IntentUnknown,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so a turn can work without touching the caller's state.
func (s *ConversationState) Clone() *ConversationState {
	if s == nil {
		return nil
	}
	c := *s
	c.History = make([]Message, len(s.History))
	copy(c.History, s.History)
	if s.SubmittedAt != nil {
		t := *s.SubmittedAt
		c.SubmittedAt = &t
	}
	return &c
}

// Collecting reports whether lead collection is in progress.
func (s *ConversationState) Collecting() bool {
	return !s.LeadSubmitted && (s.CollectionStarted || s.Lead.Any())
}

// Recent returns at most n trailing history entries. The slice aliases History.
func (s *ConversationState) Recent(n int) []Message {
	if n <= 0 || len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

func (s *ConversationState) Append(role Role, content string, at time.Time) {
	s.History = append(s.History, Message{Role: role, Content: content, Timestamp: at})
}
