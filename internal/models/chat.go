package models

import "time"

// QARecord is one question/answer exchange as stored server-side.
// Records are immutable once created; deletion is by MessageID.
type QARecord struct {
	MessageID string    `json:"messageId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
	Sources   []string  `json:"sources,omitempty"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is the view-facing projection of a QARecord. Every
// record expands to exactly two messages, user first, assistant
// second, sharing the record's timestamp.
type ChatMessage struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
	Sources   []string // assistant messages only
}

// Answer is the response payload of the ask endpoint.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// DateGroup is one calendar-date bucket of the history view.
type DateGroup struct {
	Date    string
	Records []QARecord
}

// User is the current session identity.
type User struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
