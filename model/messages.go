package model

// ReplyReceivedMsg carries the outcome of one transport call, already
// mapped to the text that will be revealed.
type ReplyReceivedMsg struct {
	Text string
	Err  error
}

// RevealTickMsg asks for the next rune of the reveal targeting Entry
type RevealTickMsg struct {
	Entry EntryID
}

// MarkdownRenderedMsg is stale once the view width differs from Width
type MarkdownRenderedMsg struct {
	Entry    EntryID
	Width    int
	Rendered string
}

type ThemeChangedMsg struct {
	Dark bool
}

type HealthCheckedMsg struct {
	Err error
}

type ClipboardCopiedMsg struct {
	What string
	Err  error
}
