package engine

import (
	"testing"
)

func testSettings() Settings {
	return Settings{
		Tempo:       80,
		Subdivision: Eighth,
		MinDuration: 1,
		MaxDuration: 2,
		Transpose:   0,
		NoteSet:     []int{60, 62, 63},
	}
}

func TestNewGeneratorRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero tempo", func(s *Settings) { s.Tempo = 0 }},
		{"bad subdivision", func(s *Settings) { s.Subdivision = 3 }},
		{"min over max", func(s *Settings) { s.MinDuration = 5; s.MaxDuration = 2 }},
		{"zero min", func(s *Settings) { s.MinDuration = 0 }},
		{"empty note set", func(s *Settings) { s.NoteSet = nil }},
	}
	for _, tt := range tests {
		s := testSettings()
		tt.mutate(&s)
		if _, err := NewGenerator(s, testRand()); err == nil {
			t.Errorf("%s: NewGenerator accepted invalid settings", tt.name)
		}
	}
}

func TestEveryTickBoundaryScenario(t *testing.T) {
	// minDuration == maxDuration == 1: every tick completes a period.
	// Phrase length at eighths is 8 ticks, so ticks 0-7 sound, 8-15
	// rest, 16-23 sound again.
	s := testSettings()
	s.MaxDuration = 1
	g, err := NewGenerator(s, testRand())
	if err != nil {
		t.Fatal(err)
	}

	allowed := map[int]bool{60: true, 62: true, 63: true}
	for i := 0; i < 48; i++ {
		st := g.Next()
		if st.Index != int64(i) {
			t.Fatalf("tick %d: index %d", i, st.Index)
		}
		if !st.Boundary {
			t.Fatalf("tick %d: expected boundary with fixed period 1", i)
		}

		audible := (i/8)%2 == 0
		if audible && st.Note == nil {
			t.Errorf("tick %d: audible boundary produced no note", i)
		}
		if !audible && st.Note != nil {
			t.Errorf("tick %d: silent boundary produced a note", i)
		}
		if st.Note != nil && !allowed[st.Note.Pitch] {
			t.Errorf("tick %d: pitch %d outside note set", i, st.Note.Pitch)
		}
	}
}

func TestNotePrevChaining(t *testing.T) {
	s := testSettings()
	s.MaxDuration = 1
	g, err := NewGenerator(s, testRand())
	if err != nil {
		t.Fatal(err)
	}

	var events []NoteEvent
	for i := 0; i < 64; i++ {
		if st := g.Next(); st.Note != nil {
			events = append(events, *st.Note)
		}
	}
	if len(events) < 2 {
		t.Fatalf("only %d note events", len(events))
	}

	if events[0].HasPrev {
		t.Error("first emission claims a previous pitch")
	}
	for i := 1; i < len(events); i++ {
		if !events[i].HasPrev {
			t.Errorf("emission %d: HasPrev = false", i)
		}
		if events[i].Prev != events[i-1].Pitch {
			t.Errorf("emission %d: prev = %d, want %d", i, events[i].Prev, events[i-1].Pitch)
		}
	}
}

func TestTransposeApplied(t *testing.T) {
	s := testSettings()
	s.MaxDuration = 1
	s.NoteSet = []int{60}
	s.Transpose = 7
	g, err := NewGenerator(s, testRand())
	if err != nil {
		t.Fatal(err)
	}

	st := g.Next()
	if st.Note == nil {
		t.Fatal("no note on first audible boundary")
	}
	if st.Note.Pitch != 67 {
		t.Errorf("pitch = %d, want 67", st.Note.Pitch)
	}
}

func TestNoteSetSwapMidPeriodLeavesPeriodAlone(t *testing.T) {
	s := testSettings()
	s.MinDuration, s.MaxDuration = 4, 4
	g, err := NewGenerator(s, testRand())
	if err != nil {
		t.Fatal(err)
	}

	// Tick 0 is a boundary; walk two ticks into the fixed 4-tick period.
	first := g.Next()
	if !first.Boundary || first.Duration != 4 {
		t.Fatalf("unexpected first step: %+v", first)
	}
	mid := g.Next()

	g.SetNoteSet([]int{72})

	// The pending period must be untouched and no extra note may fire.
	st := g.Next()
	if st.Boundary {
		t.Fatal("note set change caused a spurious boundary")
	}
	if st.Duration != mid.Duration || st.Position != mid.Position+1 {
		t.Fatalf("note set change disturbed the period: %+v after %+v", st, mid)
	}
	if st.Note != nil {
		t.Fatal("note set change fired an extra note event")
	}

	// The next boundary draws from the new set only.
	g.Next() // tick 3, last of the pending period
	st = g.Next()
	if !st.Boundary {
		t.Fatalf("expected boundary at tick 4, got %+v", st)
	}
	if st.Note == nil || st.Note.Pitch != 72 {
		t.Fatalf("boundary after swap drew %+v, want pitch 72", st.Note)
	}
}

func TestOneDrawPerBoundary(t *testing.T) {
	// With a single-note set the pitch is forced, so any draw count
	// mismatch shows up as a wrong number of note events.
	s := testSettings()
	s.MinDuration, s.MaxDuration = 2, 2
	s.NoteSet = []int{64}
	g, err := NewGenerator(s, testRand())
	if err != nil {
		t.Fatal(err)
	}

	notes := 0
	for i := 0; i < 16; i++ {
		if st := g.Next(); st.Note != nil {
			notes++
		}
	}
	// Ticks 0-7 audible with boundaries at 0,2,4,6; ticks 8-15 silent.
	if notes != 4 {
		t.Errorf("got %d note events in one audible phrase, want 4", notes)
	}
}
