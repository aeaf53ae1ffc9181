package model

// ScrollController decides when the transcript follows new entries and
// when the "jump to latest" control is offered. Distances are in whatever
// unit the view scrolls by (rows for the terminal).
type ScrollController struct {
	Threshold int

	detached bool
}

func NewScrollController(threshold int) *ScrollController {
	return &ScrollController{Threshold: threshold}
}

// OnUserScroll records a scroll the user made. Moving further than
// Threshold from the bottom detaches the view and offers the jump control.
func (s *ScrollController) OnUserScroll(distanceFromBottom int) {
	s.detached = distanceFromBottom > s.Threshold
}

// OnMutation is called after every transcript change and reports whether
// the view should move to the newest entry.
func (s *ScrollController) OnMutation() bool {
	return !s.detached
}

// Jump handles activation of the jump control: back to the bottom, and
// following again.
func (s *ScrollController) Jump() {
	s.detached = false
}

func (s *ScrollController) ShowJump() bool {
	return s.detached
}

func (s *ScrollController) Following() bool {
	return !s.detached
}
