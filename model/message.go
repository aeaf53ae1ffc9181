package model

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleSystem marks local notices. They are never sent to the backend.
	RoleSystem Role = "system"
)

// EntryID is the stable handle of one conversation entry
type EntryID string

// Message represents one entry of the conversation
type Message struct {
	ID        EntryID
	Role      Role
	Content   string
	Rendered  string // Cached markdown rendering of a finished reply, empty while revealing
	Timestamp time.Time
}
