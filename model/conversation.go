package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrUnknownEntry = errors.New("unknown conversation entry")

// Conversation is the ordered transcript. Entries are only ever appended;
// the one in-place change allowed is replacing an entry's content through
// its handle, which is how replies are revealed.
type Conversation struct {
	entries []Message
	index   map[EntryID]int
	version uint64
	now     func() time.Time
}

func NewConversation() *Conversation {
	return &Conversation{
		index: make(map[EntryID]int),
		now:   time.Now,
	}
}

// Append adds a new entry at the end and returns its handle
func (c *Conversation) Append(role Role, content string) EntryID {
	id := EntryID(uuid.New().String())
	c.index[id] = len(c.entries)
	c.entries = append(c.entries, Message{
		ID:        id,
		Role:      role,
		Content:   content,
		Timestamp: c.now(),
	})
	c.version++
	return id
}

// SetContent replaces the content of the entry behind id. Any cached
// rendering is dropped since it no longer matches.
func (c *Conversation) SetContent(id EntryID, content string) error {
	i, ok := c.index[id]
	if !ok {
		return errors.Wrapf(ErrUnknownEntry, "set content of %s", id)
	}
	c.entries[i].Content = content
	c.entries[i].Rendered = ""
	c.version++
	return nil
}

// SetRendered caches a rendering for the entry. It does not count as a
// mutation of the transcript.
func (c *Conversation) SetRendered(id EntryID, rendered string) error {
	i, ok := c.index[id]
	if !ok {
		return errors.Wrapf(ErrUnknownEntry, "set rendering of %s", id)
	}
	c.entries[i].Rendered = rendered
	return nil
}

func (c *Conversation) Get(id EntryID) (Message, bool) {
	i, ok := c.index[id]
	if !ok {
		return Message{}, false
	}
	return c.entries[i], true
}

// Last returns the newest entry with the given role
func (c *Conversation) Last(role Role) (Message, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].Role == role {
			return c.entries[i], true
		}
	}
	return Message{}, false
}

// Entries returns a copy of the transcript in display order
func (c *Conversation) Entries() []Message {
	out := make([]Message, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Conversation) Len() int {
	return len(c.entries)
}

// Version increases by one on every Append and SetContent
func (c *Conversation) Version() uint64 {
	return c.version
}
