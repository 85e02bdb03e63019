package vanilla

import "github.com/goliatone/go-surveygen/pkg/render/markup"

type sectionState int

const (
	sectionClosed sectionState = iota
	sectionOpen
)

// SectionTracker wraps questions in visual cards. It is a two state machine
// (closed, open), closed initially. The open card is a markup scope, so it
// nests correctly with everything else the writer emits.
type SectionTracker struct {
	w     *markup.Writer
	attrs []markup.Attr
	state sectionState
	scope *markup.Scope
}

// NewSectionTracker creates a tracker writing cards with the given class.
func NewSectionTracker(w *markup.Writer, class string) *SectionTracker {
	return &SectionTracker{
		w:     w,
		attrs: []markup.Attr{markup.A("class", class)},
		state: sectionClosed,
	}
}

// BeginSection opens a card. An already open card is closed first.
func (s *SectionTracker) BeginSection() {
	if s.state == sectionOpen {
		s.EndSection()
	}
	s.scope = s.w.Open("div", s.attrs...)
	s.state = sectionOpen
}

// EndSection closes the open card, if any.
func (s *SectionTracker) EndSection() {
	if s.state != sectionOpen {
		return
	}
	s.scope.Close()
	s.scope = nil
	s.state = sectionClosed
}

// BeginQuestion gives the next question its own card: the open card is
// closed and a new one opened.
func (s *SectionTracker) BeginQuestion() {
	s.EndSection()
	s.BeginSection()
}

// IsOpen reports whether a card is open.
func (s *SectionTracker) IsOpen() bool {
	return s.state == sectionOpen
}
