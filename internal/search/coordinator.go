package search

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/star/snwatch/internal/metrics"
)

// ErrNoResult is returned by Wait when no task is running or queued.
var ErrNoResult = eris.New("no search task to wait for")

// Kind tells the coordinator how to treat a trigger that arrives while a
// task is already running.
type Kind int

const (
	// KindSearch is queued behind the running task; the latest one wins.
	KindSearch Kind = iota
	// KindRefresh is dropped while a task is running.
	KindRefresh
)

// Disposition describes what Trigger did with a request.
type Disposition string

const (
	Started Disposition = "started"
	Queued  Disposition = "queued"
	Ignored Disposition = "ignored"
)

// State is the coordinator's externally visible state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// RunFunc is the background work for one task.
type RunFunc func(ctx context.Context, req Request) (*Outcome, error)

// Result is the completion of one task.
type Result struct {
	TaskID   string
	Request  Request
	Outcome  *Outcome
	Err      error
	Started  time.Time
	Finished time.Time
}

// State reports StateDone or StateFailed.
func (r Result) State() State {
	if r.Err != nil {
		return StateFailed
	}
	return StateDone
}

// Status is a point-in-time view of the coordinator.
type Status struct {
	State     State
	TaskID    string  // running task, or the last completed one when idle
	PendingID string  // queued task, if any
	Last      *Result // last delivered result, retained for display
}

type task struct {
	id      string
	req     Request
	started time.Time
	done    chan Result // buffered, receives exactly one value
}

// Coordinator runs at most one task at a time in the background. Results
// are picked up by polling.
type Coordinator struct {
	run    RunFunc
	poll   time.Duration
	ctx    context.Context
	logger *zap.Logger

	mu         sync.Mutex
	current    *task
	pending    *Request
	pendingID  string
	last       *Result
	lastTaskID string
}

// NewCoordinator creates a Coordinator. Tasks run with a context derived from
// ctx that is never cancelled, so a started task always runs to completion.
func NewCoordinator(ctx context.Context, run RunFunc, poll time.Duration, logger *zap.Logger) *Coordinator {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	return &Coordinator{
		run:    run,
		poll:   poll,
		ctx:    context.WithoutCancel(ctx),
		logger: logger.Named("coordinator"),
	}
}

// Trigger starts req if idle. While a task is running, a KindRefresh trigger
// is ignored and a KindSearch trigger replaces any queued request. The
// returned id names the task that will carry req, or the running task when
// ignored.
func (c *Coordinator) Trigger(req Request, kind Kind) (string, Disposition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		id := uuid.NewString()
		c.startLocked(id, req)
		metrics.IncSearchTrigger(string(Started))
		return id, Started
	}

	if kind == KindRefresh {
		c.logger.Debug("refresh ignored while a search is running", zap.String("running", c.current.id))
		metrics.IncSearchTrigger(string(Ignored))
		return c.current.id, Ignored
	}

	if c.pending != nil {
		c.logger.Debug("replacing queued search", zap.String("task", c.pendingID))
	} else {
		c.pendingID = uuid.NewString()
	}
	r := req
	c.pending = &r
	metrics.IncSearchTrigger(string(Queued))
	return c.pendingID, Queued
}

func (c *Coordinator) startLocked(id string, req Request) {
	t := &task{id: id, req: req, started: time.Now(), done: make(chan Result, 1)}
	c.current = t
	metrics.SetSearchInFlight(true)
	c.logger.Info("search started", zap.String("task", id), zap.String("site", req.Site))

	go func() {
		res := Result{TaskID: t.id, Request: t.req, Started: t.started}
		defer func() {
			if p := recover(); p != nil {
				res.Outcome = nil
				res.Err = eris.Errorf("search task panicked: %v", p)
			}
			res.Finished = time.Now()
			t.done <- res
		}()
		res.Outcome, res.Err = c.run(c.ctx, t.req)
	}()
}

// Poll returns the result of the running task if it has finished. Each
// result is returned by exactly one Poll call. When a result is collected
// and a request is queued, the queued request is started.
func (c *Coordinator) Poll() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Result{}, false
	}

	select {
	case res := <-c.current.done:
		c.current = nil
		c.last = &res
		c.lastTaskID = res.TaskID
		metrics.SetSearchInFlight(false)

		if res.Err != nil {
			c.logger.Warn("search failed", zap.String("task", res.TaskID), zap.Error(res.Err))
		} else {
			c.logger.Info("search finished",
				zap.String("task", res.TaskID),
				zap.Int("candidates", len(res.Outcome.Candidates)),
				zap.Duration("elapsed", res.Finished.Sub(res.Started)),
			)
		}

		if c.pending != nil {
			req, id := *c.pending, c.pendingID
			c.pending, c.pendingID = nil, ""
			c.startLocked(id, req)
		}
		return res, true
	default:
		return Result{}, false
	}
}

// Status returns the current state without collecting results.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{State: StateIdle, TaskID: c.lastTaskID, PendingID: c.pendingID, Last: c.last}
	if c.current != nil {
		st.State = StateRunning
		st.TaskID = c.current.id
	} else if c.last != nil {
		st.State = c.last.State()
	}
	return st
}

// Wait polls at the configured interval until a result is collected or ctx
// ends. It returns ErrNoResult when nothing is running or queued.
func (c *Coordinator) Wait(ctx context.Context) (Result, error) {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		if res, ok := c.Poll(); ok {
			return res, nil
		}
		if !c.busy() {
			return Result{}, ErrNoResult
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Watch polls until ctx ends and hands every collected result to fn.
func (c *Coordinator) Watch(ctx context.Context, fn func(Result)) {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if res, ok := c.Poll(); ok && fn != nil {
				fn(res)
			}
		}
	}
}

func (c *Coordinator) busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil || c.pending != nil
}
