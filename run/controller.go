package run

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"evah-sdk/history"
	"evah-sdk/models"
	"evah-sdk/params"
	"evah-sdk/render"
	"evah-sdk/services"
)

// Runner issues one model request
type Runner interface {
	Run(ctx context.Context, p models.ParameterSet, requestID string) (*services.RunResult, error)
}

// Renderer consumes a successful dataset
type Renderer interface {
	Render(ds *models.ResultDataset) error
}

// Recorder stores a finished run
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Hooks are the UI effects of a submission. Nil hooks are skipped.
type Hooks struct {
	SetBusy           func(busy bool)
	SetTriggerEnabled func(enabled bool)
}

// Options configures a Controller
type Options struct {
	Hooks    Hooks
	Renderer Renderer
	// Stats receives the summary of every successful run
	Stats    func(render.Stats)
	Recorder Recorder
	Logf     func(format string, args ...interface{})
}

// Outcome describes one finished submission
type Outcome struct {
	RunID     string
	State     State
	Params    models.ParameterSet
	Dataset   *models.ResultDataset
	Stats     *render.Stats
	Err       error
	RenderErr error
	StartedAt time.Time
	Duration  time.Duration
}

// FailureKind classifies Err as "transport", "decode" or "application"
func (o Outcome) FailureKind() string {
	var de *services.DecodeError
	var ae *services.ApplicationError
	switch {
	case o.Err == nil:
		return ""
	case errors.As(o.Err, &ae):
		return "application"
	case errors.As(o.Err, &de):
		return "decode"
	default:
		return "transport"
	}
}

// Controller runs single-flight submissions of a parameter store
type Controller struct {
	store  *params.Store
	runner Runner
	opts   Options

	// inFlight is the run trigger: set while a submission owns it
	inFlight atomic.Bool

	mu      sync.Mutex
	state   State
	dataset *models.ResultDataset
}

// NewController creates a controller in the Idle state
func NewController(store *params.Store, runner Runner, opts Options) *Controller {
	return &Controller{
		store:  store,
		runner: runner,
		opts:   opts,
		state:  Idle,
	}
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dataset returns the dataset of the last successful run, or nil
func (c *Controller) Dataset() *models.ResultDataset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dataset
}

// CanSubmit reports whether a trigger would start a submission now
func (c *Controller) CanSubmit() bool {
	return !c.inFlight.Load() && c.store.IsSubmittable()
}

// Submit runs one submission and blocks until it has finished. It is inert
// and returns false when the parameters are invalid or another submission is
// in flight.
func (c *Controller) Submit(ctx context.Context) (Outcome, bool) {
	if !c.acquire() {
		return Outcome{}, false
	}
	return c.execute(ctx), true
}

// SubmitAsync starts a submission in a goroutine and returns a channel that
// receives its outcome. It returns nil when the trigger is inert.
func (c *Controller) SubmitAsync(ctx context.Context) <-chan Outcome {
	if !c.acquire() {
		return nil
	}
	ch := make(chan Outcome, 1)
	go func() {
		ch <- c.execute(ctx)
		close(ch)
	}()
	return ch
}

func (c *Controller) acquire() bool {
	if !c.store.IsSubmittable() {
		return false
	}
	return c.inFlight.CompareAndSwap(false, true)
}

func (c *Controller) execute(ctx context.Context) (out Outcome) {
	out = Outcome{
		RunID:     uuid.NewString(),
		Params:    c.store.Snapshot(),
		StartedAt: time.Now(),
	}
	c.transition(Idle, Submitting)

	// Release runs on every path, including a panicking runner
	defer func() {
		if r := recover(); r != nil {
			c.logf("run %s: recovered panic: %v", out.RunID, r)
			if !IsTerminal(c.State()) {
				out.State = Failed
				out.Err = fmt.Errorf("run panicked: %v", r)
				c.transition(Submitting, Failed)
				c.setBusy(false)
			}
		}
		c.release(ctx, out)
	}()

	c.setTriggerEnabled(false)
	c.setBusy(true)

	c.logf("run %s: submitting %+v", out.RunID, out.Params)

	res, err := c.runner.Run(ctx, out.Params, out.RunID)
	out.Duration = time.Since(out.StartedAt)

	if err != nil {
		out.State = Failed
		out.Err = err
		c.transition(Submitting, Failed)
		c.setBusy(false)
		c.logf("run %s: %s failure after %s: %v", out.RunID, out.FailureKind(), out.Duration, err)
		return out
	}

	out.State = Succeeded
	out.Dataset = res.Dataset
	c.mu.Lock()
	c.dataset = res.Dataset
	c.mu.Unlock()
	c.transition(Submitting, Succeeded)
	c.setBusy(false)
	c.logf("run %s: succeeded after %s (%s)", out.RunID, out.Duration, res.Message)

	if err := c.render(res.Dataset); err != nil {
		out.RenderErr = err
		c.logf("run %s: render failed: %v", out.RunID, err)
	}
	stats, err := c.summarize(res.Dataset)
	if err != nil {
		c.logf("run %s: stats failed: %v", out.RunID, err)
		if out.RenderErr == nil {
			out.RenderErr = err
		}
	} else {
		out.Stats = &stats
	}
	return out
}

// release records the run and returns the controller to Idle
func (c *Controller) release(ctx context.Context, out Outcome) {
	c.record(ctx, out)
	c.transition(c.State(), Idle)
	c.inFlight.Store(false)
	c.setTriggerEnabled(true)
}

// render turns a panicking sink into an error
func (c *Controller) render(ds *models.ResultDataset) (err error) {
	if c.opts.Renderer == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panicked: %v", r)
		}
	}()
	return c.opts.Renderer.Render(ds)
}

// summarize computes stats and publishes them to the Stats hook
func (c *Controller) summarize(ds *models.ResultDataset) (stats render.Stats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stats panicked: %v", r)
		}
	}()
	stats, err = render.Summarize(ds)
	if err != nil {
		return stats, err
	}
	if c.opts.Stats != nil {
		c.opts.Stats(stats)
	}
	return stats, nil
}

func (c *Controller) record(ctx context.Context, out Outcome) {
	if c.opts.Recorder == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logf("run %s: history recorder panicked: %v", out.RunID, r)
		}
	}()
	e := history.Entry{
		RunID:       out.RunID,
		StartedAt:   out.StartedAt,
		Duration:    out.Duration,
		Variant:     c.store.Variant().String(),
		Params:      out.Params,
		Outcome:     history.OutcomeSucceeded,
		FailureKind: out.FailureKind(),
	}
	if out.Err != nil {
		e.Outcome = history.OutcomeFailed
		e.Message = out.Err.Error()
	}
	if err := c.opts.Recorder.Record(ctx, e); err != nil {
		c.logf("run %s: failed to record history: %v", out.RunID, err)
	}
}

// transition panics on a rejected transition; the controller is the only
// writer of state so a rejection is a programming error.
func (c *Controller) transition(from, to State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := Transition(&c.state, from, to); err != nil {
		panic(fmt.Sprintf("run controller: %v", err))
	}
}

func (c *Controller) setBusy(busy bool) {
	c.hook("SetBusy", func() {
		if c.opts.Hooks.SetBusy != nil {
			c.opts.Hooks.SetBusy(busy)
		}
	})
}

func (c *Controller) setTriggerEnabled(enabled bool) {
	c.hook("SetTriggerEnabled", func() {
		if c.opts.Hooks.SetTriggerEnabled != nil {
			c.opts.Hooks.SetTriggerEnabled(enabled)
		}
	})
}

// hook calls a UI hook; a panicking hook is logged and ignored
func (c *Controller) hook(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logf("%s hook panicked: %v", name, r)
		}
	}()
	fn()
}

func (c *Controller) logf(format string, args ...interface{}) {
	if c.opts.Logf != nil {
		c.opts.Logf(format, args...)
	}
}
