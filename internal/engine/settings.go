// Package engine generates the endless phrase: a pulse clock drives a
// random-length period state machine, and each completed period in an
// audible phrase picks a new note. A metronome click is derived from the
// same pulse stream so the two never drift apart.
package engine

import (
	"errors"
	"fmt"
)

// Subdivision is the number of pulses per beat.
type Subdivision int

const (
	Quarter   Subdivision = 1
	Eighth    Subdivision = 2
	Sixteenth Subdivision = 4
)

// ParseSubdivision maps a stored pulses-per-beat value to a Subdivision.
func ParseSubdivision(n int) (Subdivision, error) {
	switch Subdivision(n) {
	case Quarter, Eighth, Sixteenth:
		return Subdivision(n), nil
	}
	return 0, fmt.Errorf("invalid subdivision %d (want 1, 2 or 4)", n)
}

func (s Subdivision) String() string {
	switch s {
	case Quarter:
		return "quarter"
	case Eighth:
		return "eighth"
	case Sixteenth:
		return "sixteenth"
	}
	return fmt.Sprintf("Subdivision(%d)", int(s))
}

var (
	ErrInvalidTempo  = errors.New("tempo must be positive")
	ErrInvalidBounds = errors.New("invalid period bounds")
	ErrEmptyNoteSet  = errors.New("note set is empty")
)

// Settings is the full configuration of the generator. It is passed by
// value: the engine keeps its own copy and nothing reads it implicitly.
type Settings struct {
	Tempo       int         // beats per minute
	Subdivision Subdivision // pulses per beat
	MinDuration int         // shortest period, in ticks
	MaxDuration int         // longest period, in ticks
	Transpose   int         // semitone offset applied to every drawn note
	NoteSet     []int       // MIDI note numbers to draw from
}

// DefaultSettings returns the documented startup defaults.
func DefaultSettings() Settings {
	return Settings{
		Tempo:       80,
		Subdivision: Eighth,
		MinDuration: 1,
		MaxDuration: 2*int(Eighth) - 1,
		Transpose:   0,
		NoteSet:     []int{60, 62, 63},
	}
}

// Validate reports the first configuration error, if any. An empty note
// set is an error here because the selector cannot draw from it; callers
// that only rebuild timing may check the other fields individually.
func (s Settings) Validate() error {
	if s.Tempo <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTempo, s.Tempo)
	}
	if _, err := ParseSubdivision(int(s.Subdivision)); err != nil {
		return err
	}
	if s.MinDuration < 1 || s.MinDuration > s.MaxDuration {
		return fmt.Errorf("%w: min=%d max=%d", ErrInvalidBounds, s.MinDuration, s.MaxDuration)
	}
	if len(s.NoteSet) == 0 {
		return ErrEmptyNoteSet
	}
	return nil
}

// clone returns a copy whose NoteSet does not alias the original.
func (s Settings) clone() Settings {
	out := s
	out.NoteSet = append([]int(nil), s.NoteSet...)
	return out
}
