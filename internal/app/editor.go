package app

import (
	"unicode/utf8"

	"github.com/Faultbox/wordsring/internal/ring"
)

// Editor applies keyboard-style edits to a session: one line is active at a
// time and typed text is appended to it.
type Editor struct {
	s      *Session
	active ring.Line
}

// NewEditor creates an editor with line 1 active.
func NewEditor(s *Session) *Editor {
	return &Editor{s: s, active: ring.Line1}
}

// Active returns the line being edited.
func (e *Editor) Active() ring.Line {
	return e.active
}

// Toggle switches the active line.
func (e *Editor) Toggle() {
	if e.active == ring.Line1 {
		e.active = ring.Line2
	} else {
		e.active = ring.Line1
	}
}

// Type appends text to the active line.
func (e *Editor) Type(text string) {
	if text == "" {
		return
	}
	cur := e.s.Configuration().Text(e.active)
	e.s.SetLine(e.active, cur+text)
}

// Backspace removes the last character of the active line.
func (e *Editor) Backspace() {
	cur := e.s.Configuration().Text(e.active)
	if cur == "" {
		return
	}
	_, n := utf8.DecodeLastRuneInString(cur)
	e.s.SetLine(e.active, cur[:len(cur)-n])
}

// Grow and Shrink step through the size table.
func (e *Editor) Grow() {
	e.s.StepSize(1)
}

func (e *Editor) Shrink() {
	e.s.StepSize(-1)
}

// Clear empties both lines and activates line 1.
func (e *Editor) Clear() {
	e.s.Clear()
	e.active = ring.Line1
}
