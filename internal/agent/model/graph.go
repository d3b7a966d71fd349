package model

// Turn carries one inbound message through the dialogue graph. State is a
// working copy; the controller commits it only when the graph succeeds.
type Turn struct {
	State   *ConversationState
	Message string

	Intent Intent
	Phase  Phase
	Reply  string

	// Expecting is the field the previous reply asked for, if any.
	Expecting Field
	// Merged lists the fields this turn wrote.
	Merged   []Field
	Degraded []string

	// SinkErr is set when a complete lead could not be submitted.
	SinkErr error
}

func (t *Turn) Degrade(kind string) {
	t.Degraded = append(t.Degraded, kind)
}
