package sim

import (
	"context"

	"github.com/san-kum/spherelab/internal/dynamo"
)

// Driver runs the frame loop: step, sync, render, wait. It is not safe for
// concurrent use and must run on the thread that owns the render context.
type Driver struct {
	scene     *Scene
	stepper   Stepper
	syncer    Syncer
	renderer  Renderer
	scheduler Scheduler

	metrics   []dynamo.Metric
	observers []dynamo.Observer
	trace     func(frame uint64, p Phase)

	keepEvery int
	phase     Phase
	frame     uint64
}

func NewDriver(sc *Scene, syncer Syncer, renderer Renderer, scheduler Scheduler) *Driver {
	if renderer == nil {
		renderer = Headless
	}
	return &Driver{
		scene:     sc,
		stepper:   sc,
		syncer:    syncer,
		renderer:  renderer,
		scheduler: scheduler,
	}
}

func (d *Driver) AddMetric(m dynamo.Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o dynamo.Observer) { d.observers = append(d.observers, o) }

// SetStepper replaces the physics phase. The default is the scene itself.
func (d *Driver) SetStepper(s Stepper) { d.stepper = s }

// Trace registers fn to be called on every phase change.
func (d *Driver) Trace(fn func(frame uint64, p Phase)) { d.trace = fn }

// KeepEvery stores every n-th snapshot in the run result. Zero keeps none.
func (d *Driver) KeepEvery(n int) { d.keepEvery = n }

func (d *Driver) Phase() Phase   { return d.phase }
func (d *Driver) Frames() uint64 { return d.frame }
func (d *Driver) Scene() *Scene  { return d.scene }

func (d *Driver) enter(p Phase) {
	d.phase = p
	if d.trace != nil {
		d.trace(d.frame, p)
	}
}

func (d *Driver) fail(err error) error {
	return &dynamo.SimulationError{Frame: d.frame, Phase: d.phase.String(), Wrapped: err}
}

// Frame runs one full phase sequence and reports whether the scheduler
// wants another. The committed snapshot is handed to observers after sync.
func (d *Driver) Frame(ctx context.Context) (bool, dynamo.Snapshot, error) {
	d.frame++

	d.enter(Stepping)
	if err := d.stepper.Step(); err != nil {
		return false, dynamo.Snapshot{}, d.fail(err)
	}

	d.enter(Syncing)
	if err := d.syncer.Sync(d.frame); err != nil {
		return false, dynamo.Snapshot{}, d.fail(err)
	}
	snap := d.scene.Snapshot(d.frame)
	for _, m := range d.metrics {
		m.Observe(snap)
	}
	for _, o := range d.observers {
		o.OnFrame(snap)
	}

	d.enter(Rendering)
	if err := d.renderer.Render(d.frame); err != nil {
		return false, snap, d.fail(err)
	}

	d.enter(Scheduled)
	more := d.scheduler.Next(ctx)

	d.enter(Idle)
	return more, snap, nil
}

// Run loops until the scheduler reports the host closing or ctx ends.
// Cancellation is a normal stop; a phase error aborts the loop and is
// returned as a *dynamo.SimulationError.
func (d *Driver) Run(ctx context.Context) (*dynamo.Result, error) {
	for _, m := range d.metrics {
		m.Reset()
	}
	result := &dynamo.Result{Metrics: make(map[string]float64)}

	for ctx.Err() == nil {
		more, snap, err := d.Frame(ctx)
		if err != nil {
			result.Errors = append(result.Errors, err)
			d.collect(result)
			return result, err
		}
		result.Frames++
		if d.keepEvery > 0 && snap.Frame%uint64(d.keepEvery) == 0 {
			result.Snapshots = append(result.Snapshots, snap)
		}
		if !more {
			break
		}
	}

	d.collect(result)
	return result, nil
}

func (d *Driver) collect(r *dynamo.Result) {
	for _, m := range d.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}
