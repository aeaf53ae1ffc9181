package model

import "strings"

// Composer gates submissions: one message in flight at a time, and
// nothing that is only whitespace.
type Composer struct {
	draft    string
	awaiting bool
}

func (c *Composer) SetDraft(text string) {
	c.draft = text
}

func (c *Composer) Draft() string {
	return c.draft
}

// AwaitingReply is true from an accepted submit until Finish
func (c *Composer) AwaitingReply() bool {
	return c.awaiting
}

// CanSubmit reports whether Submit would accept the current draft
func (c *Composer) CanSubmit() bool {
	return !c.awaiting && strings.TrimSpace(c.draft) != ""
}

// Submit accepts the current draft. On acceptance the draft is cleared,
// the composer starts awaiting a reply and the original (untrimmed) text
// is returned.
func (c *Composer) Submit() (string, bool) {
	if !c.CanSubmit() {
		return "", false
	}
	text := c.draft
	c.draft = ""
	c.awaiting = true
	return text, true
}

// Finish clears the awaiting flag once the reply is fully revealed
func (c *Composer) Finish() {
	c.awaiting = false
}
