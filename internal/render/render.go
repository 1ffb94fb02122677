// Package render writes an offline run of the generator to a Standard
// MIDI File: one tempo track, one track for the phrase notes and one
// for the metronome clicks.
package render

import (
	"fmt"
	"math/rand/v2"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/mfriel/noodle/internal/engine"
)

const (
	ticksPerQuarterNote = 960 // Standard MIDI resolution
	clickChannel        = 9   // GM percussion channel
	clickNote           = 37  // side stick
	clickLength         = 60  // SMF ticks
)

// Options configures one render.
type Options struct {
	Settings engine.Settings
	Bars     int    // phrase bars to generate (audible and silent)
	Seed     uint64 // 0 means time-seeded
}

// WriteFile steps the generator through Bars bars and writes the result
// to path. A fixed Seed reproduces the same file every time.
func WriteFile(path string, o Options) error {
	if o.Bars <= 0 {
		o.Bars = 8
	}

	var rng *rand.Rand
	if o.Seed != 0 {
		rng = rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))
	}
	gen, err := engine.NewGenerator(o.Settings, rng)
	if err != nil {
		return fmt.Errorf("building generator: %w", err)
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerQuarterNote)

	ticksPerPulse := uint32(ticksPerQuarterNote / int(o.Settings.Subdivision))
	totalPulses := o.Bars * int(o.Settings.Subdivision) * 4
	endTick := uint32(totalPulses) * ticksPerPulse

	// Track 0: tempo track
	var track0 smf.Track
	track0.Add(0, smf.MetaMeter(4, 4))
	track0.Add(0, smf.MetaTempo(float64(o.Settings.Tempo)))
	track0.Close(0)
	if err := sm.Add(track0); err != nil {
		return fmt.Errorf("adding tempo track: %w", err)
	}

	var noteTrack, clickTrack smf.Track
	var lastNote, lastClick uint32

	for i := 0; i < totalPulses; i++ {
		st := gen.Next()
		pos := uint32(i) * ticksPerPulse

		if st.Note != nil && st.Note.Pitch >= 0 && st.Note.Pitch <= 127 {
			pitch := uint8(st.Note.Pitch)
			noteTrack.Add(pos-lastNote, midi.NoteOn(0, pitch, 100))
			noteTrack.Add(ticksPerPulse-1, midi.NoteOff(0, pitch))
			lastNote = pos + ticksPerPulse - 1
		}
		if st.Click {
			clickTrack.Add(pos-lastClick, midi.NoteOn(clickChannel, clickNote, 90))
			clickTrack.Add(clickLength, midi.NoteOff(clickChannel, clickNote))
			lastClick = pos + clickLength
		}
	}

	noteTrack.Close(endTick - lastNote)
	if err := sm.Add(noteTrack); err != nil {
		return fmt.Errorf("adding note track: %w", err)
	}
	clickTrack.Close(endTick - lastClick)
	if err := sm.Add(clickTrack); err != nil {
		return fmt.Errorf("adding click track: %w", err)
	}

	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
