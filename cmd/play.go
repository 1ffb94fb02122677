package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/mfriel/noodle/internal/audio"
	"github.com/mfriel/noodle/internal/config"
	"github.com/mfriel/noodle/internal/debug"
	"github.com/mfriel/noodle/internal/engine"
	"github.com/mfriel/noodle/internal/tui"
)

var midiPortName string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the endless phrase with an interactive control surface",
	Long: `Play the generated phrase through the system audio output, with a TUI
for changing tempo, subdivision, period bounds, transpose and the note
set while the phrase keeps running.

With --midi, a virtual MIDI output port is created as well, so the
phrase and metronome can drive other music software.

Example:
  noodle play --midi "Noodle Out"
`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&midiPortName, "midi", "", "also expose a virtual MIDI output port with this name")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfgPath, err := config.Path()
	if err != nil {
		cfgPath = ""
	}
	settings := config.Load(cfgPath)

	eng, err := engine.New(settings)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	// Audio failure is non-fatal: the generator keeps running and the
	// control surface shows the error.
	player, audioErr := audio.NewPlayer()
	if audioErr != nil {
		debug.Log("audio", "init failed: %v", audioErr)
	}

	var (
		drv      *rtmididrv.Driver
		midiOut  drivers.Out
		midiSend func(gomidi.Message) error
	)
	if midiPortName != "" {
		drv, midiOut, midiSend, err = openVirtualOut(midiPortName)
		if err != nil {
			return err
		}
	}

	m := tui.New(tui.Options{
		Engine:     eng,
		ConfigPath: cfgPath,
		AudioErr:   audioErr,
		MIDIName:   midiPortName,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	eng.OnStep(func(st engine.Step) {
		p.Send(tui.StepMsg(st))
	})
	eng.OnClick(func(st engine.Step) {
		if player != nil {
			player.Click()
		}
		if midiSend != nil {
			sendShortNote(midiSend, 9, 37, 90)
		}
	})
	eng.OnNote(func(ev engine.NoteEvent) {
		if player != nil {
			player.PlayNote(audio.Frequency(ev.Pitch))
		}
		if midiSend != nil && ev.Pitch >= 0 && ev.Pitch <= 127 {
			sendShortNote(midiSend, 0, uint8(ev.Pitch), 100)
		}
	})

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		p.Send(tea.Quit())
	}()

	_, runErr := p.Run()

	eng.Stop()
	if player != nil {
		player.Close()
	}
	if midiOut != nil {
		midiOut.Close()
	}
	if drv != nil {
		drv.Close()
	}

	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

func openVirtualOut(name string) (*rtmididrv.Driver, drivers.Out, func(gomidi.Message) error, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing MIDI driver: %w", err)
	}
	out, err := drv.OpenVirtualOut(name)
	if err != nil {
		drv.Close()
		return nil, nil, nil, fmt.Errorf("creating virtual MIDI port: %w", err)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		out.Close()
		drv.Close()
		return nil, nil, nil, fmt.Errorf("opening MIDI port %s: %w", name, err)
	}
	return drv, out, send, nil
}

// sendShortNote sends a note-on and schedules the note-off; the
// generator itself has no concept of note length.
func sendShortNote(send func(gomidi.Message) error, ch, note, velocity uint8) {
	_ = send(gomidi.NoteOn(ch, note, velocity))
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = send(gomidi.NoteOff(ch, note))
	}()
}
