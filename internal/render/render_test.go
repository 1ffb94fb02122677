package render

import (
	"path/filepath"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/mfriel/noodle/internal/engine"
)

func renderSettings() engine.Settings {
	return engine.Settings{
		Tempo:       80,
		Subdivision: engine.Eighth,
		MinDuration: 1,
		MaxDuration: 1,
		Transpose:   0,
		NoteSet:     []int{60, 62, 63},
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phrase.mid")
	opts := Options{Settings: renderSettings(), Bars: 4, Seed: 7}
	if err := WriteFile(path, opts); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	rd, err := smf.ReadFile(path)
	if err != nil {
		t.Fatalf("reading rendered file: %v", err)
	}

	tempoChanges := rd.TempoChanges()
	if len(tempoChanges) == 0 {
		t.Fatal("no tempo change in rendered file")
	}
	if bpm := int(tempoChanges[0].BPM); bpm != 80 {
		t.Errorf("tempo = %d, want 80", bpm)
	}

	if len(rd.Tracks) != 3 {
		t.Fatalf("got %d tracks, want 3 (tempo, notes, clicks)", len(rd.Tracks))
	}

	// With minDuration == maxDuration == 1 every tick is a boundary, so
	// the audible bars (0 and 2) contribute 8 notes each.
	allowed := map[uint8]bool{60: true, 62: true, 63: true}
	noteOns := 0
	for _, msg := range rd.Tracks[1] {
		var ch, key, vel uint8
		if msg.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
			noteOns++
			if ch != 0 {
				t.Errorf("note on channel %d, want 0", ch)
			}
			if !allowed[key] {
				t.Errorf("rendered pitch %d outside note set", key)
			}
		}
	}
	if noteOns != 16 {
		t.Errorf("got %d note-ons, want 16 (two audible bars of eighths)", noteOns)
	}

	// Clicks land once per beat through silent bars too: 4 bars x 4.
	clicks := 0
	for _, msg := range rd.Tracks[2] {
		var ch, key, vel uint8
		if msg.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
			clicks++
			if ch != clickChannel {
				t.Errorf("click on channel %d, want %d", ch, clickChannel)
			}
			if key != clickNote {
				t.Errorf("click note %d, want %d", key, clickNote)
			}
		}
	}
	if clicks != 16 {
		t.Errorf("got %d clicks, want 16", clicks)
	}
}

func TestWriteFileDeterministicWithSeed(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mid")
	b := filepath.Join(dir, "b.mid")

	opts := Options{Settings: renderSettings(), Bars: 2, Seed: 42}
	if err := WriteFile(a, opts); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(b, opts); err != nil {
		t.Fatal(err)
	}

	pa, pb := notePitches(t, a), notePitches(t, b)
	if len(pa) == 0 {
		t.Fatal("no notes rendered")
	}
	if len(pa) != len(pb) {
		t.Fatalf("note counts differ: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("note %d differs: %d vs %d", i, pa[i], pb[i])
		}
	}
}

func TestWriteFileRejectsInvalidSettings(t *testing.T) {
	s := renderSettings()
	s.NoteSet = nil
	err := WriteFile(filepath.Join(t.TempDir(), "bad.mid"), Options{Settings: s, Bars: 1})
	if err == nil {
		t.Fatal("WriteFile accepted an empty note set")
	}
}

func notePitches(t *testing.T, path string) []uint8 {
	t.Helper()
	rd, err := smf.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var pitches []uint8
	for _, msg := range rd.Tracks[1] {
		var ch, key, vel uint8
		if msg.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
			pitches = append(pitches, key)
		}
	}
	return pitches
}
