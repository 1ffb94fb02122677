package engine

import "time"

// Tick is one pulse-clock event. Index starts at 0 and increments forever;
// Subdivision is the value in effect when the clock was built. Ticks are
// consumed immediately downstream and never retained.
type Tick struct {
	Index       int64
	Subdivision Subdivision
}

// Clock emits Ticks at the pulse interval for a tempo and subdivision.
// A Clock never changes rate: the engine builds a fresh one (index 0)
// whenever tempo or subdivision changes.
type Clock struct {
	C <-chan Tick

	interval time.Duration
	sub      Subdivision
	out      chan Tick
	stop     chan struct{}
	done     chan struct{}
}

// NewClock creates a stopped clock ticking every 60000/tempo/sub
// milliseconds. Call Start to begin emitting.
func NewClock(tempo int, sub Subdivision) *Clock {
	c := &Clock{
		interval: time.Minute / time.Duration(tempo*int(sub)),
		sub:      sub,
		out:      make(chan Tick),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	c.C = c.out
	return c
}

// Interval returns the spacing between ticks.
func (c *Clock) Interval() time.Duration { return c.interval }

// Start launches the tick loop.
func (c *Clock) Start() {
	go c.run()
}

func (c *Clock) run() {
	defer close(c.done)
	defer close(c.out)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	var index int64
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			select {
			case c.out <- Tick{Index: index, Subdivision: c.sub}:
				index++
			case <-c.stop:
				return
			}
		}
	}
}

// Stop cancels all future ticks and waits for the tick loop to exit.
// After Stop returns, C is closed and nothing more is sent on it.
func (c *Clock) Stop() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	<-c.done
}
