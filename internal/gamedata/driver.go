package gamedata

import (
	"math"
	"time"
)

// TickRequest asks the caller to invoke Tick once after Delay. A nil request
// ends the timer chain.
type TickRequest struct {
	Delay time.Duration
}

// Scheduler runs fn once after d, on the same goroutine that dispatches the
// controller's other events.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Driver connects a Controller to a Scheduler.
type Driver struct {
	ctrl  *Controller
	sched Scheduler
}

func NewDriver(c *Controller, s Scheduler) *Driver {
	return &Driver{ctrl: c, sched: s}
}

// Abandon drops a running round. A tick still queued on the scheduler
// finds the round stopped and does nothing.
func (d *Driver) Abandon() {
	d.ctrl.Abandon()
}

func (d *Driver) Start() {
	d.arm(d.ctrl.Start())
}

func (d *Driver) Click(x, y int) {
	d.ctrl.OnClick(x, y)
}

func (d *Driver) arm(req *TickRequest) {
	if req == nil {
		return
	}
	d.sched.After(req.Delay, d.tick)
}

func (d *Driver) tick() {
	d.arm(d.ctrl.Tick())
}

type scheduled struct {
	at uint64
	fn func()
}

// FrameScheduler fires callbacks by counting frames rather than reading the
// wall clock. Advance must be called once per frame.
type FrameScheduler struct {
	tps     int
	frame   uint64
	pending []scheduled
}

func NewFrameScheduler(tps int) *FrameScheduler {
	if tps <= 0 {
		tps = 60
	}
	return &FrameScheduler{tps: tps}
}

func (s *FrameScheduler) After(d time.Duration, fn func()) {
	frames := uint64(math.Ceil(d.Seconds() * float64(s.tps)))
	s.pending = append(s.pending, scheduled{at: s.frame + frames, fn: fn})
}

// Advance moves to the next frame and runs everything that has come due.
// Callbacks scheduled while running wait at least until the next frame.
func (s *FrameScheduler) Advance() {
	s.frame++
	var due []func()
	kept := s.pending[:0]
	for _, p := range s.pending {
		if p.at <= s.frame {
			due = append(due, p.fn)
		} else {
			kept = append(kept, p)
		}
	}
	s.pending = kept
	for _, fn := range due {
		fn()
	}
}

func (s *FrameScheduler) Pending() int {
	return len(s.pending)
}
