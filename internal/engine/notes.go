package engine

import "math/rand/v2"

// NoteEvent is emitted at each completed, audible period boundary.
// Prev carries the pitch of the previous emission; HasPrev is false on
// the first note of a session.
type NoteEvent struct {
	Pitch   int
	Prev    int
	HasPrev bool
}

// noteSelector draws a uniformly random pitch from the active set and
// applies the transpose offset. It remembers only one note back.
type noteSelector struct {
	notes     []int
	transpose int
	rng       *rand.Rand

	prev    int
	hasPrev bool
}

func newNoteSelector(notes []int, transpose int, rng *rand.Rand) *noteSelector {
	return &noteSelector{
		notes:     append([]int(nil), notes...),
		transpose: transpose,
		rng:       rng,
	}
}

// draw picks the next note. With an empty set there is nothing to draw
// and ok is false; the caller reports that as a configuration error.
func (n *noteSelector) draw() (ev NoteEvent, ok bool) {
	if len(n.notes) == 0 {
		return NoteEvent{}, false
	}
	pitch := n.notes[n.rng.IntN(len(n.notes))] + n.transpose
	ev = NoteEvent{Pitch: pitch, Prev: n.prev, HasPrev: n.hasPrev}
	n.prev = pitch
	n.hasPrev = true
	return ev, true
}

// setNotes swaps the active set. The pending period is untouched; the
// new set is only seen at the next boundary draw.
func (n *noteSelector) setNotes(notes []int) {
	n.notes = append([]int(nil), notes...)
}

func (n *noteSelector) setTranspose(t int) {
	n.transpose = t
}
