// Package audio renders the generated events: a sine tone with a fixed
// attack/release envelope per note, and a short percussive burst for
// the metronome click.
package audio

import (
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 44100
	channelCount = 2 // stereo
	bitDepth     = 2 // 16-bit
)

// Envelope timing in samples. Notes hold briefly and then release on
// their own; the generator never sends note-offs.
const (
	attackSamples = sampleRate / 200 // 5ms
	holdSamples   = sampleRate / 6
	clickSamples  = sampleRate / 40 // 25ms burst
)

// voice is one sounding note or click.
type voice struct {
	frequency float64
	phase     float64
	envelope  float64
	age       int
	click     bool
	active    bool
}

// Player streams mixed voices to the system audio output.
type Player struct {
	mu           sync.Mutex
	otoCtx       *oto.Context
	player       *oto.Player
	voices       []*voice
	maxVoices    int
	masterVolume float64
}

// NewPlayer opens the audio device and starts the stream.
func NewPlayer() (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	p := &Player{
		otoCtx:       otoCtx,
		maxVoices:    16,
		masterVolume: 0.4,
	}
	p.player = otoCtx.NewPlayer(&playerReader{p: p})
	p.player.Play()
	return p, nil
}

// PlayNote triggers a tone at the given frequency. Release tails from
// the previous note may overlap the new one.
func (p *Player) PlayNote(freq float64) {
	p.addVoice(&voice{frequency: freq, active: true})
}

// Click triggers the metronome sound.
func (p *Player) Click() {
	p.addVoice(&voice{frequency: 2200, click: true, active: true})
}

func (p *Player) addVoice(v *voice) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, old := range p.voices {
		if !old.active {
			*old = *v
			return
		}
	}
	if len(p.voices) < p.maxVoices {
		p.voices = append(p.voices, v)
		return
	}
	// Steal the oldest voice
	*p.voices[0] = *v
}

// Close silences the player.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, v := range p.voices {
		v.active = false
	}
	// oto players are cleaned up on garbage collection; nothing else to do.
	return nil
}

// playerReader implements io.Reader for continuous audio generation.
type playerReader struct {
	p *Player
}

func (r *playerReader) Read(buf []byte) (int, error) {
	p := r.p
	p.mu.Lock()
	defer p.mu.Unlock()

	numSamples := len(buf) / (channelCount * bitDepth)

	for i := 0; i < numSamples; i++ {
		var sample float64

		for _, v := range p.voices {
			if !v.active {
				continue
			}
			sample += v.next()
		}

		sample *= p.masterVolume
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}

		s := int16(sample * 32767)
		idx := i * channelCount * bitDepth
		buf[idx] = byte(s)
		buf[idx+1] = byte(s >> 8)
		buf[idx+2] = byte(s)
		buf[idx+3] = byte(s >> 8)
	}

	return len(buf), nil
}

// next produces one sample for the voice and advances its envelope.
func (v *voice) next() float64 {
	var out float64
	if v.click {
		// Square burst with a hard quadratic decay.
		osc := 0.6
		if v.phase >= 0.5 {
			osc = -0.6
		}
		decay := 1.0 - float64(v.age)/clickSamples
		if decay <= 0 {
			v.active = false
			return 0
		}
		out = osc * decay * decay
	} else {
		out = math.Sin(2*math.Pi*v.phase) * v.envelope * 0.5

		switch {
		case v.age < attackSamples:
			v.envelope = float64(v.age) / attackSamples
		case v.age < holdSamples:
			v.envelope = 1.0
		default:
			v.envelope *= 0.9995
			if v.envelope < 0.001 {
				v.active = false
			}
		}
	}

	v.phase += v.frequency / sampleRate
	if v.phase >= 1.0 {
		v.phase -= 1.0
	}
	v.age++
	return out
}

// Frequency converts a MIDI pitch number to Hz. A4 (69) is 440Hz.
func Frequency(pitch int) float64 {
	return 440.0 * math.Pow(2.0, (float64(pitch)-69.0)/12.0)
}
