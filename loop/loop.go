// Package loop drives a per-frame step function from an injectable clock and
// frame scheduler.
package loop

import (
	"context"
)

// Clock is a monotonic time source in seconds.
type Clock interface {
	Now() float64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() float64

func (f ClockFunc) Now() float64 { return f() }

// Scheduler waits for the next display refresh. It returns false when the
// host will not deliver more frames.
type Scheduler interface {
	NextFrame() bool
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func() bool

func (f SchedulerFunc) NextFrame() bool { return f() }

// Frame is what a step sees on each invocation.
type Frame struct {
	Elapsed float64 // seconds since the first invocation, never decreasing
	Delta   float64 // seconds since the previous invocation
	Count   uint64  // zero-based invocation number
}

// StepFunc does one frame of work.
type StepFunc func(Frame) error

// Loop calls a step once per frame. It never overlaps with itself: each step
// returns before the scheduler is asked for the next frame.
type Loop struct {
	clock Clock
	sched Scheduler
	step  StepFunc

	started bool
	start   float64
	last    float64
	count   uint64
}

func New(clock Clock, sched Scheduler, step StepFunc) *Loop {
	return &Loop{clock: clock, sched: sched, step: step}
}

// Running reports whether the first frame has been issued.
func (l *Loop) Running() bool { return l.started }

// Elapsed returns the elapsed time handed to the most recent step.
func (l *Loop) Elapsed() float64 { return l.last }

// Frames returns how many steps have run.
func (l *Loop) Frames() uint64 { return l.count }

// Tick runs one step without waiting for the scheduler. The clock starts on the
// first call, which always sees Elapsed == 0.
func (l *Loop) Tick() error {
	now := l.clock.Now()
	if !l.started {
		l.started = true
		l.start = now
	}
	elapsed := now - l.start
	if elapsed < l.last {
		elapsed = l.last
	}
	f := Frame{Elapsed: elapsed, Delta: elapsed - l.last, Count: l.count}
	l.last = elapsed
	l.count++
	return l.step(f)
}

// Run ticks once, then once per scheduled frame until ctx is cancelled, the
// scheduler stops, or a step fails.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := l.Tick(); err != nil {
			return err
		}
		if !l.sched.NextFrame() {
			return nil
		}
	}
}

// FixedStep is a Clock and Scheduler that advances exactly 1/FPS seconds per
// frame and stops after Frames frames. It drives offline rendering.
type FixedStep struct {
	FPS    int
	Frames int

	frame int
}

func (f *FixedStep) Now() float64 {
	if f.FPS <= 0 {
		return 0
	}
	return float64(f.frame) / float64(f.FPS)
}

func (f *FixedStep) NextFrame() bool {
	f.frame++
	return f.frame < f.Frames
}

// Frame returns the index of the current frame.
func (f *FixedStep) Frame() int { return f.frame }
