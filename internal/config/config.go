// Package config persists generator settings as JSON in the user's
// config directory. Missing or invalid fields fall back to the engine
// defaults one field at a time; loading never fails hard.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mfriel/noodle/internal/debug"
	"github.com/mfriel/noodle/internal/engine"
)

// Dir returns the config directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "noodle"), nil
}

// Path returns the full path to settings.json.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.json"), nil
}

// fileSettings mirrors engine.Settings with pointer fields so an absent
// key can be told apart from a zero value.
type fileSettings struct {
	Tempo       *int  `json:"tempo,omitempty"`
	Subdivision *int  `json:"subdivision,omitempty"`
	MinDuration *int  `json:"minDuration,omitempty"`
	MaxDuration *int  `json:"maxDuration,omitempty"`
	Transpose   *int  `json:"transpose,omitempty"`
	NoteSet     []int `json:"noteSet,omitempty"`
}

// Load reads settings from path. A missing file, unreadable JSON or any
// out-of-range field is replaced by the documented default for that
// field; the result always validates.
func Load(path string) engine.Settings {
	s := engine.DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			debug.Log("config", "read %s: %v", path, err)
		}
		return s
	}

	var fs fileSettings
	if err := json.Unmarshal(data, &fs); err != nil {
		debug.Log("config", "parse %s: %v", path, err)
		return s
	}
	return merge(s, fs)
}

func merge(s engine.Settings, fs fileSettings) engine.Settings {
	if fs.Tempo != nil && *fs.Tempo > 0 {
		s.Tempo = *fs.Tempo
	}
	if fs.Subdivision != nil {
		if sub, err := engine.ParseSubdivision(*fs.Subdivision); err == nil {
			s.Subdivision = sub
		}
	}
	// The default max depends on the effective subdivision.
	s.MaxDuration = 2*int(s.Subdivision) - 1

	min, max := s.MinDuration, s.MaxDuration
	if fs.MinDuration != nil && *fs.MinDuration >= 1 {
		min = *fs.MinDuration
	}
	if fs.MaxDuration != nil && *fs.MaxDuration >= 1 {
		max = *fs.MaxDuration
	}
	if min <= max {
		s.MinDuration, s.MaxDuration = min, max
	} else {
		debug.Log("config", "ignoring bounds min=%d max=%d", min, max)
	}

	if fs.Transpose != nil {
		s.Transpose = *fs.Transpose
	}
	if len(fs.NoteSet) > 0 {
		s.NoteSet = append([]int(nil), fs.NoteSet...)
	}
	return s
}

// Save writes the full settings to path, creating the directory if
// needed. Called once per field mutation.
func Save(path string, s engine.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	fs := fileSettings{
		Tempo:       &s.Tempo,
		MinDuration: &s.MinDuration,
		MaxDuration: &s.MaxDuration,
		Transpose:   &s.Transpose,
		NoteSet:     s.NoteSet,
	}
	sub := int(s.Subdivision)
	fs.Subdivision = &sub

	data, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
