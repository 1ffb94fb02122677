package engine

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/mfriel/noodle/internal/debug"
)

// Engine owns the current settings and the live clock+generator
// pipeline. Timing changes (tempo, subdivision, period bounds) tear the
// pipeline down and rebuild it from tick 0; note-set and transpose
// changes mutate the selector in place so playback never glitches.
//
// There is one dispatch loop per pipeline. It steps the generator and
// then fans the result out to the step, click and note callbacks, so
// every observer sees the identical tick sequence in the same order.
type Engine struct {
	mu       sync.Mutex
	settings Settings
	rng      *rand.Rand // non-nil only when injected for determinism

	running  bool
	clock    *Clock
	gen      *Generator
	loopDone chan struct{}

	onStep  func(Step)
	onNote  func(NoteEvent)
	onClick func(Step)
}

// New creates a stopped engine. The settings must be fully valid,
// including a non-empty note set.
func New(s Settings) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Engine{settings: s.clone()}, nil
}

// SetRand injects a deterministic random source. Call before Start.
func (e *Engine) SetRand(rng *rand.Rand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rng = rng
}

// OnStep registers a callback fired once per tick, after the period
// transition. Useful for display; audio wants OnNote and OnClick.
func (e *Engine) OnStep(fn func(Step)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStep = fn
}

// OnNote registers a callback fired at each audible period boundary.
func (e *Engine) OnNote(fn func(NoteEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onNote = fn
}

// OnClick registers a callback fired once per beat, through silent
// phrases too.
func (e *Engine) OnClick(fn func(Step)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onClick = fn
}

// Settings returns a copy of the current configuration.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings.clone()
}

// Playing reports whether a pipeline is live.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Start builds and launches the timing pipeline from tick 0. Starting a
// running engine is a no-op.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil
	}
	return e.startLocked()
}

func (e *Engine) startLocked() error {
	gen, err := NewGenerator(e.settings, e.rng)
	if err != nil {
		return err
	}
	clock := NewClock(e.settings.Tempo, e.settings.Subdivision)
	done := make(chan struct{})

	e.gen = gen
	e.clock = clock
	e.loopDone = done
	e.running = true

	go e.loop(clock, gen, done)
	clock.Start()
	debug.Log("engine", "pipeline started: tempo=%d sub=%s interval=%s",
		e.settings.Tempo, e.settings.Subdivision, clock.Interval())
	return nil
}

// Stop cancels the live pipeline. When it returns, no further callback
// will fire until the next Start.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	clock, done := e.clock, e.loopDone
	e.clock, e.gen, e.loopDone = nil, nil, nil
	e.running = false
	e.mu.Unlock()

	clock.Stop()
	<-done
	debug.Log("engine", "pipeline stopped")
}

// rebuild replaces the live pipeline with one built from s. The old
// clock is fully stopped and its dispatch loop drained before the new
// clock starts, so two clocks are never alive at once and no tick from
// the old pipeline fires after the swap.
func (e *Engine) rebuild(s Settings) error {
	e.mu.Lock()
	if !e.running {
		e.settings = s
		e.mu.Unlock()
		return nil
	}
	clock, done := e.clock, e.loopDone
	// Detach the old generator first: a tick already in flight sees the
	// mismatch in the dispatch loop and is dropped.
	e.clock, e.gen, e.loopDone = nil, nil, nil
	e.running = false
	e.settings = s
	e.mu.Unlock()

	clock.Stop()
	<-done

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil
	}
	debug.Log("engine", "pipeline rebuilt")
	return e.startLocked()
}

// SetTempo changes the tempo and restarts the pipeline from tick 0.
func (e *Engine) SetTempo(bpm int) error {
	if bpm <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTempo, bpm)
	}
	e.mu.Lock()
	s := e.settings.clone()
	e.mu.Unlock()
	s.Tempo = bpm
	return e.rebuild(s)
}

// SetSubdivision changes the pulses per beat and restarts the pipeline
// from tick 0, since tick spacing and phrase arithmetic both depend on it.
func (e *Engine) SetSubdivision(sub Subdivision) error {
	if _, err := ParseSubdivision(int(sub)); err != nil {
		return err
	}
	e.mu.Lock()
	s := e.settings.clone()
	e.mu.Unlock()
	s.Subdivision = sub
	return e.rebuild(s)
}

// SetDurationBounds changes the period length bounds. Invalid bounds are
// rejected and the last valid ones kept. The new bounds take effect at
// the next drawn period; the whole pipeline restarts so no partially
// stale period state survives.
func (e *Engine) SetDurationBounds(min, max int) error {
	if min < 1 || min > max {
		return fmt.Errorf("%w: min=%d max=%d", ErrInvalidBounds, min, max)
	}
	e.mu.Lock()
	s := e.settings.clone()
	e.mu.Unlock()
	s.MinDuration, s.MaxDuration = min, max
	return e.rebuild(s)
}

// SetNoteSet swaps the note set without restarting the pipeline. The
// pending period keeps its duration and position; the new set is first
// seen at the next boundary draw. An empty set is rejected and the last
// valid set kept.
func (e *Engine) SetNoteSet(notes []int) error {
	if len(notes) == 0 {
		return ErrEmptyNoteSet
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.NoteSet = append([]int(nil), notes...)
	if e.gen != nil {
		e.gen.SetNoteSet(notes)
	}
	return nil
}

// SetTranspose changes the semitone offset without restarting.
func (e *Engine) SetTranspose(t int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.Transpose = t
	if e.gen != nil {
		e.gen.SetTranspose(t)
	}
}

func (e *Engine) loop(clock *Clock, gen *Generator, done chan struct{}) {
	defer close(done)
	for range clock.C {
		e.mu.Lock()
		if e.gen != gen {
			// Pipeline was swapped while this tick was in flight.
			e.mu.Unlock()
			return
		}
		st := gen.Next()
		onStep, onClick, onNote := e.onStep, e.onClick, e.onNote
		e.mu.Unlock()

		if onStep != nil {
			onStep(st)
		}
		if st.Click && onClick != nil {
			onClick(st)
		}
		if st.Note != nil && onNote != nil {
			onNote(*st.Note)
		}
	}
}
