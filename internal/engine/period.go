package engine

import "math/rand/v2"

// periodSequencer holds the running random-length period. Starting with
// duration 0 means the very first tick trivially completes a zero-length
// period, so a real duration is drawn immediately.
type periodSequencer struct {
	min, max int
	rng      *rand.Rand

	duration int
	position int
}

func newPeriodSequencer(min, max int, rng *rand.Rand) *periodSequencer {
	return &periodSequencer{min: min, max: max, rng: rng}
}

// advance consumes one tick. On a completed period it draws a fresh
// duration uniformly from [min,max], resets position and reports a
// boundary; otherwise it just moves one tick further into the period.
func (p *periodSequencer) advance() (boundary bool) {
	if p.position+1 >= p.duration {
		p.duration = p.min + p.rng.IntN(p.max-p.min+1)
		p.position = 0
		return true
	}
	p.position++
	return false
}
