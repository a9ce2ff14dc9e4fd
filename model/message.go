package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// MessageState tracks the lifecycle of an agent message. User messages are
// always Resolved.
type MessageState int

const (
	// StateResolved - content holds a finalized report or user instruction
	StateResolved MessageState = iota
	// StatePending - agent placeholder awaiting gateway resolution, no content
	StatePending
	// StateFailed - content holds a human-readable failure description
	StateFailed
)

// Message is one entry in a chat. Role never changes after creation; only
// Content and State mutate (edit, or the pending → resolved/failed
// transition).
type Message struct {
	ID        string
	Role      Role
	Content   string
	State     MessageState
	Timestamp time.Time
}

func (m Message) Pending() bool {
	return m.State == StatePending
}

func (m Message) Failed() bool {
	return m.State == StateFailed
}
