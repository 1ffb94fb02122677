// Package tui is the control surface for live playback: start/stop,
// tempo, subdivision, period bounds, transpose and note-set editing,
// with a running display of the generated phrase.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mfriel/noodle/internal/config"
	"github.com/mfriel/noodle/internal/engine"
)

// Note-set editing range: C3..C6.
const (
	lowestPitch  = 48
	highestPitch = 84
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	playingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	silentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#7D56F4")).
			Foreground(lipgloss.Color("#FAFAFA"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// StepMsg delivers one generator step to the display. The playback
// callbacks send it from outside the bubbletea loop.
type StepMsg engine.Step

// Options wires the model to its collaborators.
type Options struct {
	Engine     *engine.Engine
	ConfigPath string
	AudioErr   error  // non-nil when the audio backend is unavailable
	MIDIName   string // virtual MIDI port name, if any
}

// Model is the bubbletea model for the play command.
type Model struct {
	eng      *engine.Engine
	cfgPath  string
	audioErr string
	midiName string

	cursor   int // pitch under the note-set cursor
	lastStep *engine.Step
	lastNote *engine.NoteEvent
	message  string
	width    int
	height   int
}

// New creates the play model.
func New(o Options) Model {
	m := Model{
		eng:      o.Engine,
		cfgPath:  o.ConfigPath,
		midiName: o.MIDIName,
		cursor:   60,
	}
	if o.AudioErr != nil {
		m.audioErr = o.AudioErr.Error()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StepMsg:
		st := engine.Step(msg)
		m.lastStep = &st
		if st.Note != nil {
			m.lastNote = st.Note
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.eng.Settings()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case " ":
		if m.eng.Playing() {
			m.eng.Stop()
			m.message = "stopped"
		} else if err := m.eng.Start(); err != nil {
			m.message = fmt.Sprintf("cannot start: %v", err)
		} else {
			m.message = "playing"
		}

	case "+", "=":
		m.apply(m.eng.SetTempo(s.Tempo + 5))
	case "-", "_":
		m.apply(m.eng.SetTempo(s.Tempo - 5))

	case "d":
		m.apply(m.eng.SetSubdivision(nextSubdivision(s.Subdivision)))

	case "[":
		m.apply(m.eng.SetDurationBounds(s.MinDuration-1, s.MaxDuration))
	case "]":
		m.apply(m.eng.SetDurationBounds(s.MinDuration+1, s.MaxDuration))
	case "{":
		m.apply(m.eng.SetDurationBounds(s.MinDuration, s.MaxDuration-1))
	case "}":
		m.apply(m.eng.SetDurationBounds(s.MinDuration, s.MaxDuration+1))

	case "t":
		m.eng.SetTranspose(s.Transpose - 1)
		m.apply(nil)
	case "T":
		m.eng.SetTranspose(s.Transpose + 1)
		m.apply(nil)

	case "left", "h":
		if m.cursor > lowestPitch {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < highestPitch {
			m.cursor++
		}
	case "enter":
		m.apply(m.eng.SetNoteSet(toggle(s.NoteSet, m.cursor)))
	}

	return m, nil
}

// apply records a setter result and persists the settings on success.
func (m *Model) apply(err error) {
	if err != nil {
		m.message = err.Error()
		return
	}
	m.message = ""
	if m.cfgPath == "" {
		return
	}
	if err := config.Save(m.cfgPath, m.eng.Settings()); err != nil {
		m.message = fmt.Sprintf("settings not saved: %v", err)
	}
}

func nextSubdivision(s engine.Subdivision) engine.Subdivision {
	switch s {
	case engine.Quarter:
		return engine.Eighth
	case engine.Eighth:
		return engine.Sixteenth
	default:
		return engine.Quarter
	}
}

// toggle flips membership of pitch in the set, keeping it sorted.
func toggle(set []int, pitch int) []int {
	out := make([]int, 0, len(set)+1)
	found := false
	for _, n := range set {
		if n == pitch {
			found = true
			continue
		}
		out = append(out, n)
	}
	if !found {
		inserted := false
		for i, n := range out {
			if pitch < n {
				out = append(out[:i], append([]int{pitch}, out[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			out = append(out, pitch)
		}
	}
	return out
}

func (m Model) View() string {
	s := m.eng.Settings()

	var b strings.Builder
	b.WriteString(titleStyle.Render("noodle") + "\n\n")

	// Transport line
	if m.eng.Playing() {
		b.WriteString(playingStyle.Render("▶ playing"))
	} else {
		b.WriteString(silentStyle.Render("■ stopped"))
	}
	if m.lastStep != nil && m.eng.Playing() {
		if m.lastStep.Audible {
			b.WriteString("   " + playingStyle.Render("phrase: music"))
		} else {
			b.WriteString("   " + silentStyle.Render("phrase: rest"))
		}
		if m.lastStep.Click {
			b.WriteString("   " + valueStyle.Render("●"))
		}
	}
	b.WriteString("\n\n")

	// Settings
	b.WriteString(labelStyle.Render("tempo       ") + valueStyle.Render(fmt.Sprintf("%d bpm", s.Tempo)) + "\n")
	b.WriteString(labelStyle.Render("subdivision ") + valueStyle.Render(s.Subdivision.String()) + "\n")
	b.WriteString(labelStyle.Render("period      ") + valueStyle.Render(fmt.Sprintf("%d–%d ticks", s.MinDuration, s.MaxDuration)) + "\n")
	b.WriteString(labelStyle.Render("transpose   ") + valueStyle.Render(fmt.Sprintf("%+d st", s.Transpose)) + "\n")

	// Last note
	b.WriteString("\n")
	if m.lastNote != nil {
		b.WriteString(labelStyle.Render("note        ") + noteStyle.Render(noteName(m.lastNote.Pitch)))
		if m.lastNote.HasPrev {
			b.WriteString(labelStyle.Render("  (from " + noteName(m.lastNote.Prev) + ")"))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(labelStyle.Render("note        ") + silentStyle.Render("—") + "\n")
	}

	// Note set editor
	b.WriteString("\n" + labelStyle.Render("note set:") + "\n")
	b.WriteString(m.renderNoteRow(s.NoteSet) + "\n")

	// Backend status
	if m.audioErr != "" {
		b.WriteString("\n" + errorStyle.Render("audio unavailable: "+m.audioErr) + "\n")
	}
	if m.midiName != "" {
		b.WriteString("\n" + labelStyle.Render("midi out    ") + valueStyle.Render(m.midiName) + "\n")
	}

	if m.message != "" {
		b.WriteString("\n" + errorStyle.Render(m.message) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("space: play/stop • +/-: tempo • d: subdivision • [ ] { }: period bounds"))
	b.WriteString("\n" + helpStyle.Render("t/T: transpose • ←/→: note cursor • enter: toggle note • q: quit"))
	return b.String()
}

// renderNoteRow draws the C3..C6 range with set membership and cursor.
func (m Model) renderNoteRow(set []int) string {
	member := make(map[int]bool, len(set))
	for _, n := range set {
		member[n] = true
	}

	var b strings.Builder
	for pitch := lowestPitch; pitch <= highestPitch; pitch++ {
		cell := "·"
		if member[pitch] {
			cell = "●"
		}
		switch {
		case pitch == m.cursor:
			b.WriteString(cursorStyle.Render(cell))
		case member[pitch]:
			b.WriteString(noteStyle.Render(cell))
		default:
			b.WriteString(silentStyle.Render(cell))
		}
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%*s", m.cursor-lowestPitch+1, "^") + " " + noteName(m.cursor)))
	return b.String()
}

func noteName(pitch int) string {
	names := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	octave := (pitch / 12) - 1
	return fmt.Sprintf("%s%d", names[((pitch%12)+12)%12], octave)
}
