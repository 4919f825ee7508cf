package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/nhle/missionboard/internal/engine"
)

// RunState represents the current state of the reset job.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StateError
)

func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Status holds the observable state of the reset job.
type Status struct {
	State      RunState
	Started    bool
	LastRun    time.Time
	LastResult engine.ResetResult
	LastErr    error
	NextRun    time.Time
}

// RunResult is sent on the results channel after every run.
type RunResult struct {
	At     time.Time
	Result engine.ResetResult
	Err    error
}

// Resetter performs one focus-list reset.
type Resetter interface {
	ResetSelected(ctx context.Context) (engine.ResetResult, error)
}

// Config controls when the job fires.
type Config struct {
	// Hour and Minute are the UTC wall-clock time of the daily run.
	Hour   int
	Minute int

	// Timeout bounds a single run. Zero means one minute.
	Timeout time.Duration

	// Now and After replace the wall clock in tests.
	Now   func() time.Time
	After func(time.Duration) <-chan time.Time
}

// Daily runs a Resetter once a day at a fixed UTC time. A failed run is
// logged and skipped; the next attempt is the following day's slot.
type Daily struct {
	reset    Resetter
	cfg      Config
	resultCh chan RunResult
	stopCh   chan struct{}
	doneCh   chan struct{}
	runMu    sync.Mutex
	mu       sync.Mutex
	status   Status
	stopped  bool
}

// New creates a Daily job for r. Call Start to begin scheduling.
func New(r Resetter, cfg Config) *Daily {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.After == nil {
		cfg.After = time.After
	}
	return &Daily{
		reset:    r,
		cfg:      cfg,
		resultCh: make(chan RunResult, 16),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// NextRun returns the first hour:minute UTC strictly after now.
func NextRun(now time.Time, hour, minute int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Start launches the scheduling goroutine. Calling it twice, or after Stop,
// is a no-op.
func (d *Daily) Start() {
	d.mu.Lock()
	if d.status.Started || d.stopped {
		d.mu.Unlock()
		return
	}
	d.status.Started = true
	d.mu.Unlock()

	go d.loop()
}

// Stop halts the scheduling goroutine and waits for it to exit. A run in
// progress finishes first.
func (d *Daily) Stop() {
	d.mu.Lock()
	if !d.status.Started {
		d.mu.Unlock()
		return
	}
	d.status.Started = false
	d.stopped = true
	d.mu.Unlock()

	close(d.stopCh)
	<-d.doneCh
}

// RunNow performs a reset immediately and records it like a scheduled run.
func (d *Daily) RunNow(ctx context.Context) (engine.ResetResult, error) {
	return d.run(ctx)
}

// Status returns a snapshot of the job state.
func (d *Daily) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Results returns the channel every run's outcome is sent on. Sends never
// block; results are dropped when nobody is reading.
func (d *Daily) Results() <-chan RunResult {
	return d.resultCh
}

func (d *Daily) loop() {
	defer close(d.doneCh)

	next := NextRun(d.cfg.Now(), d.cfg.Hour, d.cfg.Minute)
	for {
		d.mu.Lock()
		d.status.NextRun = next
		d.mu.Unlock()

		select {
		case <-d.stopCh:
			return
		case <-d.cfg.After(next.Sub(d.cfg.Now())):
			d.run(context.Background())
		}

		// Step from the slot that fired so a wall clock set back cannot
		// repeat it. Slots missed while the clock jumped ahead are skipped.
		following := next.AddDate(0, 0, 1)
		if now := d.cfg.Now(); !following.After(now) {
			following = NextRun(now, d.cfg.Hour, d.cfg.Minute)
		}
		next = following
	}
}

// run performs a single reset bounded by the configured timeout.
func (d *Daily) run(parent context.Context) (engine.ResetResult, error) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.setState(StateRunning, nil)

	ctx, cancel := context.WithTimeout(parent, d.cfg.Timeout)
	defer cancel()

	res, err := d.reset.ResetSelected(ctx)
	at := d.cfg.Now().UTC()

	d.mu.Lock()
	d.status.LastRun = at
	if err != nil {
		d.status.State = StateError
		d.status.LastErr = err
	} else {
		d.status.State = StateIdle
		d.status.LastErr = nil
		d.status.LastResult = res
	}
	d.mu.Unlock()

	if err != nil {
		log.Printf("daily reset failed, skipping until next run: %v", err)
	} else {
		log.Printf("daily reset: %d tasks reopened, %d missions reopened", res.Tasks, res.Missions)
	}

	d.sendResult(RunResult{At: at, Result: res, Err: err})
	return res, err
}

func (d *Daily) setState(state RunState, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.State = state
	d.status.LastErr = err
}

// sendResult sends a RunResult without blocking.
func (d *Daily) sendResult(r RunResult) {
	select {
	case d.resultCh <- r:
	default:
	}
}
