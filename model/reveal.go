package model

// Reveal discloses a reply one rune at a time into the entry it targets.
// It holds the entry handle, not a position, so it stays correct however
// the transcript around it changes.
type Reveal struct {
	Target EntryID
	runes  []rune
	shown  int
}

func NewReveal(target EntryID, full string) *Reveal {
	return &Reveal{
		Target: target,
		runes:  []rune(full),
	}
}

// Done is true once the full text is shown. An empty reply is done
// before the first step.
func (r *Reveal) Done() bool {
	return r.shown >= len(r.runes)
}

// Step shows one more rune and returns the prefix now visible
func (r *Reveal) Step() (string, bool) {
	if !r.Done() {
		r.shown++
	}
	return string(r.runes[:r.shown]), r.Done()
}

func (r *Reveal) Full() string {
	return string(r.runes)
}
