package tui

import (
	"reflect"
	"testing"
)

func TestToggle(t *testing.T) {
	tests := []struct {
		name  string
		set   []int
		pitch int
		want  []int
	}{
		{"add to empty", nil, 60, []int{60}},
		{"add in middle", []int{60, 63}, 62, []int{60, 62, 63}},
		{"add at end", []int{60, 62}, 63, []int{60, 62, 63}},
		{"add at front", []int{62, 63}, 60, []int{60, 62, 63}},
		{"remove", []int{60, 62, 63}, 62, []int{60, 63}},
		{"remove last", []int{60}, 60, []int{}},
	}
	for _, tt := range tests {
		if got := toggle(tt.set, tt.pitch); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: toggle(%v, %d) = %v, want %v", tt.name, tt.set, tt.pitch, got, tt.want)
		}
	}
}

func TestNoteName(t *testing.T) {
	tests := []struct {
		pitch int
		want  string
	}{
		{60, "C4"},
		{62, "D4"},
		{63, "D#4"},
		{69, "A4"},
		{48, "C3"},
		{84, "C6"},
	}
	for _, tt := range tests {
		if got := noteName(tt.pitch); got != tt.want {
			t.Errorf("noteName(%d) = %q, want %q", tt.pitch, got, tt.want)
		}
	}
}
