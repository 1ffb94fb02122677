package engine

import "testing"

func TestAudibilityAlternatesByPhrase(t *testing.T) {
	for _, sub := range []Subdivision{Quarter, Eighth, Sixteenth} {
		phraseLen := int64(sub) * PhraseBeats
		period := 2 * phraseLen

		if !Audible(0, sub) {
			t.Errorf("sub=%s: tick 0 must be audible", sub)
		}

		for i := int64(0); i < 10*period; i++ {
			want := (i % period) < phraseLen
			if got := Audible(i, sub); got != want {
				t.Fatalf("sub=%s: Audible(%d) = %v, want %v", sub, i, got, want)
			}
			// Periodicity: same answer one full cycle later.
			if Audible(i, sub) != Audible(i+period, sub) {
				t.Fatalf("sub=%s: audibility not periodic at %d", sub, i)
			}
		}
	}
}

func TestClickIndependentOfPhrase(t *testing.T) {
	// At eighths, clicks land on every even tick, through both the
	// audible and the silent phrase.
	for i := int64(0); i < 64; i++ {
		want := i%2 == 0
		if got := IsClick(i, Eighth); got != want {
			t.Errorf("IsClick(%d, eighth) = %v, want %v", i, got, want)
		}
	}

	// Silent phrase (ticks 8..15) still clicks.
	for _, i := range []int64{8, 10, 12, 14} {
		if Audible(i, Eighth) {
			t.Fatalf("tick %d expected silent", i)
		}
		if !IsClick(i, Eighth) {
			t.Errorf("tick %d: silent phrase must still click", i)
		}
	}
}

func TestClickOncePerBeat(t *testing.T) {
	tests := []struct {
		sub   Subdivision
		ticks int64
		want  int
	}{
		{Quarter, 16, 16},
		{Eighth, 16, 8},
		{Sixteenth, 16, 4},
	}
	for _, tt := range tests {
		got := 0
		for i := int64(0); i < tt.ticks; i++ {
			if IsClick(i, tt.sub) {
				got++
			}
		}
		if got != tt.want {
			t.Errorf("sub=%s: %d clicks in %d ticks, want %d", tt.sub, got, tt.ticks, tt.want)
		}
	}
}
