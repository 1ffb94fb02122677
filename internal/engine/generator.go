package engine

import (
	"math/rand/v2"
	"time"
)

// Step is everything the generator decides about one tick: the period
// state after the transition, phrase audibility, whether the tick is a
// metronome click, and the note drawn if this is an audible boundary.
type Step struct {
	Index       int64
	Subdivision Subdivision
	Duration    int
	Position    int
	Boundary    bool
	Audible     bool
	Click       bool
	Note        *NoteEvent
}

// Generator is the synchronous per-tick core. During live playback the
// engine steps it once per clock tick; offline rendering and tests step
// it directly. The period transition always happens before the phrase,
// note and click decisions, and there is exactly one random draw per
// completed period plus one per audible boundary.
type Generator struct {
	sub      Subdivision
	period   *periodSequencer
	selector *noteSelector
	index    int64
}

// NewGenerator builds a generator for validated settings. A nil rng gets
// a time-seeded source; tests and renders pass a seeded one.
func NewGenerator(s Settings, rng *rand.Rand) (*Generator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>32))
	}
	return &Generator{
		sub:      s.Subdivision,
		period:   newPeriodSequencer(s.MinDuration, s.MaxDuration, rng),
		selector: newNoteSelector(s.NoteSet, s.Transpose, rng),
	}, nil
}

// Next advances the generator by one tick and returns its decisions.
func (g *Generator) Next() Step {
	st := Step{
		Index:       g.index,
		Subdivision: g.sub,
		Boundary:    g.period.advance(),
		Audible:     Audible(g.index, g.sub),
		Click:       IsClick(g.index, g.sub),
	}
	st.Duration = g.period.duration
	st.Position = g.period.position
	if st.Boundary && st.Audible {
		if ev, ok := g.selector.draw(); ok {
			st.Note = &ev
		}
	}
	g.index++
	return st
}

// SetNoteSet swaps the selector's note set without disturbing the
// pending period or the tick index.
func (g *Generator) SetNoteSet(notes []int) {
	g.selector.setNotes(notes)
}

// SetTranspose changes the semitone offset applied to future draws.
func (g *Generator) SetTranspose(t int) {
	g.selector.setTranspose(t)
}
