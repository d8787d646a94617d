package sim

import (
	"context"
	"time"
)

// Phase is where the driver is within one frame.
type Phase int

const (
	Idle Phase = iota
	Stepping
	Syncing
	Rendering
	Scheduled
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Stepping:
		return "stepping"
	case Syncing:
		return "syncing"
	case Rendering:
		return "rendering"
	case Scheduled:
		return "scheduled"
	}
	return "unknown"
}

type Stepper interface {
	Step() error
}

// Syncer commits body positions for a frame. render.Bridge satisfies it.
type Syncer interface {
	Sync(frame uint64) error
}

type Renderer interface {
	Render(frame uint64) error
}

// Scheduler blocks until the next frame is due. It returns false when the
// host is closing.
type Scheduler interface {
	Next(ctx context.Context) bool
}

type RendererFunc func(frame uint64) error

func (f RendererFunc) Render(frame uint64) error { return f(frame) }

type SchedulerFunc func(ctx context.Context) bool

func (f SchedulerFunc) Next(ctx context.Context) bool { return f(ctx) }

// Headless draws nothing.
var Headless Renderer = RendererFunc(func(uint64) error { return nil })

// Frames lets exactly n frames run, without waiting.
func Frames(n int) Scheduler {
	left := n
	return SchedulerFunc(func(ctx context.Context) bool {
		left--
		return left > 0 && ctx.Err() == nil
	})
}

// Ticker paces frames at the given rate until ctx ends.
func Ticker(fps int) Scheduler {
	if fps <= 0 {
		fps = 60
	}
	var t *time.Ticker
	return SchedulerFunc(func(ctx context.Context) bool {
		if t == nil {
			t = time.NewTicker(time.Second / time.Duration(fps))
		}
		select {
		case <-ctx.Done():
			t.Stop()
			return false
		case <-t.C:
			return true
		}
	})
}
