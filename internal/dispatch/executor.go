package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// Func is a unit of work executed against the live Application handle.
// It runs on the worker thread; anything it returns must be owned Go data
// with no reference back into the COM object graph.
type Func func(app comauto.Object) (interface{}, error)

// Sentinel errors surfaced by the executor itself. They normalize to the
// matching comerr kinds.
var (
	// ErrNotRunning is returned when Submit is called outside the Running
	// state (before Start or after Shutdown has begun).
	ErrNotRunning = comerr.New(comerr.KindExecutorNotRunning, "executor is not running")
	// ErrShuttingDown is delivered to requests still queued when a
	// non-draining shutdown begins.
	ErrShuttingDown = comerr.New(comerr.KindExecutorNotRunning, "executor is shutting down")
	// ErrAlreadyStarted is returned by Start on anything but NotStarted.
	ErrAlreadyStarted = fmt.Errorf("executor already started")
)

type result struct {
	val interface{}
	err error
}

// call is one queued request. done is buffered so the worker can always
// deliver exactly one result without blocking, even when the caller has
// already given up on a deadline.
type call struct {
	id       string
	fn       Func
	enqueued time.Time
	done     chan result
}

func (c *call) finish(val interface{}, err error) {
	c.done <- result{val: val, err: err}
}

// Options configures the Executor.
type Options struct {
	// DefaultCallTimeout bounds each caller's wait when its context has no
	// deadline. Zero means wait forever. The timeout bounds only the
	// caller's wait: the worker cannot abort an in-flight COM call.
	DefaultCallTimeout time.Duration
	// StallCeiling is the hard limit on a single in-flight call before the
	// supervisor recycles the worker and abandons the handle. Zero
	// disables the supervisor.
	StallCeiling time.Duration
	// StallCheckInterval is how often the supervisor looks. Defaults to a
	// quarter of the ceiling.
	StallCheckInterval time.Duration
	Logger             *zap.Logger
}

// Executor confines every call against the Application handle to one
// dedicated OS thread and serializes concurrent callers FIFO against it.
// It is the only component allowed to touch the Manager's handle.
type Executor struct {
	mgr  *Manager
	opts Options
	log  *zap.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	state    ExecState
	drain    bool
	pending  []*call
	gen      uint64
	inflight time.Time // zero when idle; guarded by mu
	stopped  chan struct{}
	watcher  chan struct{}
}

// NewExecutor creates an executor bound to the given lifecycle manager.
func NewExecutor(mgr *Manager, opts Options) *Executor {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.StallCeiling > 0 && opts.StallCheckInterval <= 0 {
		opts.StallCheckInterval = opts.StallCeiling / 4
	}
	e := &Executor{
		mgr:  mgr,
		opts: opts,
		log:  opts.Logger,
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// State returns a snapshot of the executor lifecycle state.
func (e *Executor) State() ExecState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Health returns a snapshot of the connection state.
func (e *Executor) Health() ConnectionState {
	return e.mgr.State()
}

// Start spins up the single worker thread. Fails if already started.
func (e *Executor) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != NotStarted {
		return ErrAlreadyStarted
	}
	e.state = Running
	e.gen = 1
	e.stopped = make(chan struct{})
	go e.worker(e.gen)
	if e.opts.StallCeiling > 0 {
		e.watcher = make(chan struct{})
		go e.supervise(e.watcher)
	}
	e.log.Info("executor started")
	return nil
}

// Submit enqueues fn and blocks until it completes or the caller's
// deadline expires. Requests are served strictly in submission order.
// On deadline expiry the caller gets a Timeout error immediately, but the
// worker stays occupied until the underlying COM call returns; the
// interface offers no preemption.
func (e *Executor) Submit(ctx context.Context, fn Func) (interface{}, error) {
	c := &call{
		id:       uuid.NewString(),
		fn:       fn,
		enqueued: time.Now(),
		done:     make(chan result, 1),
	}

	e.mu.Lock()
	if e.state != Running {
		state := e.state
		e.mu.Unlock()
		if state == Draining {
			return nil, ErrShuttingDown
		}
		return nil, ErrNotRunning
	}
	e.pending = append(e.pending, c)
	e.cond.Signal()
	e.mu.Unlock()

	var timeout <-chan time.Time
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && e.opts.DefaultCallTimeout > 0 {
		t := time.NewTimer(e.opts.DefaultCallTimeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case r := <-c.done:
		return r.val, r.err
	case <-ctx.Done():
		e.log.Warn("caller abandoned request", zap.String("call_id", c.id), zap.Error(ctx.Err()))
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, comerr.New(comerr.KindTimeout, "request abandoned: %v", ctx.Err())
		}
		return nil, comerr.New(comerr.KindUnknown,
			"request canceled by caller (the call may still complete inside PowerPoint)")
	case <-timeout:
		e.log.Warn("caller deadline exceeded, worker still occupied",
			zap.String("call_id", c.id),
			zap.Duration("timeout", e.opts.DefaultCallTimeout))
		return nil, comerr.New(comerr.KindTimeout,
			"no response within %s (the call may still complete inside PowerPoint)",
			e.opts.DefaultCallTimeout)
	}
}

// Shutdown stops the executor. With drain=true all queued requests
// complete first; with drain=false only the in-flight request completes
// and queued requests fail with ErrShuttingDown. The handle is released
// afterwards. Blocks until the worker has exited. Idempotent.
func (e *Executor) Shutdown(drain bool) {
	e.mu.Lock()
	switch e.state {
	case NotStarted:
		e.state = Stopped
		e.mu.Unlock()
		return
	case Stopped:
		e.mu.Unlock()
		return
	case Draining:
		stopped := e.stopped
		e.mu.Unlock()
		<-stopped
		return
	}
	e.state = Draining
	e.drain = drain
	stopped := e.stopped
	watcher := e.watcher
	e.watcher = nil
	e.cond.Broadcast()
	e.mu.Unlock()

	if watcher != nil {
		close(watcher)
	}
	<-stopped
	e.log.Info("executor stopped", zap.Bool("drained", drain))
}

// worker is the single thread permitted to touch the handle. gen guards
// against abandoned workers (recycled by the supervisor) touching shared
// state after replacement.
func (e *Executor) worker(gen uint64) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	initErr := e.mgr.connector.InitThread()
	if initErr == nil {
		defer e.mgr.connector.UninitThread()
	} else {
		e.log.Error("worker thread init failed", zap.Error(initErr))
	}

	for {
		e.mu.Lock()
		for len(e.pending) == 0 && e.state == Running && e.gen == gen {
			e.cond.Wait()
		}
		if e.gen != gen {
			// Recycled while idle or after a stuck call returned; the
			// replacement worker owns the queue and the handle now.
			e.mu.Unlock()
			return
		}
		if e.state == Draining && (!e.drain || len(e.pending) == 0) {
			rest := e.pending
			e.pending = nil
			e.mu.Unlock()
			for _, c := range rest {
				c.finish(nil, ErrShuttingDown)
			}
			e.finishWorker(gen)
			return
		}
		c := e.pending[0]
		e.pending = e.pending[1:]
		e.inflight = time.Now()
		e.mu.Unlock()

		if initErr != nil {
			c.finish(nil, comerr.New(comerr.KindConnectionLost,
				"worker thread initialization failed: %v", initErr))
		} else {
			val, err := e.execute(c, gen)
			c.finish(val, err)
		}

		e.mu.Lock()
		stale := e.gen != gen
		if !stale {
			e.inflight = time.Time{}
		}
		e.mu.Unlock()
		if stale {
			return
		}
	}
}

// execute runs one request: ensure a live handle, invoke the callable, and
// on a lost connection reconnect once and retry the originating request
// once. Every failure crosses back as a *comerr.Error value. gen is the
// worker's generation: once the supervisor has recycled past it, this
// thread no longer owns the Manager and must not reconnect or retry,
// otherwise two threads end up holding handles and running callables
// concurrently.
func (e *Executor) execute(c *call, gen uint64) (interface{}, error) {
	queued := time.Since(c.enqueued)

	app, err := e.mgr.Ensure()
	if err != nil {
		e.log.Error("no live handle for request", zap.String("call_id", c.id), zap.Error(err))
		return nil, comerr.Normalize(err)
	}

	val, err := invoke(c.fn, app)
	if err != nil && comerr.IsConnectionLost(err) {
		if !e.currentGen(gen) {
			e.log.Warn("connection lost on abandoned worker, skipping retry",
				zap.String("call_id", c.id), zap.Error(err))
			return nil, comerr.Normalize(err)
		}
		e.log.Warn("connection lost mid-call, reconnecting once",
			zap.String("call_id", c.id), zap.Error(err))
		e.mgr.Invalidate()

		app, rerr := e.mgr.Ensure()
		if rerr != nil {
			return nil, withRetryOutcome(err, rerr)
		}
		rval, retryErr := invoke(c.fn, app)
		if retryErr != nil {
			return nil, withRetryOutcome(err, retryErr)
		}
		val, err = rval, nil
	}

	if err != nil {
		norm := comerr.Normalize(err)
		e.log.Debug("request failed",
			zap.String("call_id", c.id),
			zap.String("kind", string(norm.Kind)),
			zap.Duration("queued", queued))
		return nil, norm
	}
	e.log.Debug("request completed",
		zap.String("call_id", c.id),
		zap.Duration("queued", queued),
		zap.Duration("took", time.Since(c.enqueued)-queued))
	return val, nil
}

func (e *Executor) currentGen(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen == gen
}

// withRetryOutcome surfaces the original ConnectionLost with the failure
// of the single automatic retry attached.
func withRetryOutcome(original, retry error) *comerr.Error {
	norm := comerr.Normalize(original)
	out := *norm // copy; Normalize may return a shared value
	out.Kind = comerr.KindConnectionLost
	out.Retry = comerr.Normalize(retry)
	return &out
}

// invoke runs the callable, converting panics into errors so a misbehaving
// handler can never kill the worker thread.
func invoke(fn Func, app comauto.Object) (val interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return fn(app)
}

// finishWorker releases the handle and completes the state machine:
// Draining → Stopped.
func (e *Executor) finishWorker(gen uint64) {
	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		return
	}
	e.state = Stopped
	stopped := e.stopped
	e.mu.Unlock()

	e.mgr.Release()
	close(stopped)
}

// supervise watches for a call exceeding the hard stall ceiling. COM
// offers no way to abort a call blocked inside PowerPoint (a modal dialog,
// for instance), so past the ceiling the worker and the handle are
// abandoned and replaced, and requests queued behind the stuck one fail
// with ConnectionLost.
func (e *Executor) supervise(stop <-chan struct{}) {
	ticker := time.NewTicker(e.opts.StallCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.checkStall()
		}
	}
}

func (e *Executor) checkStall() {
	e.mu.Lock()
	if e.state != Running || e.inflight.IsZero() || time.Since(e.inflight) < e.opts.StallCeiling {
		e.mu.Unlock()
		return
	}

	stalled := time.Since(e.inflight)
	rest := e.pending
	e.pending = nil
	e.gen++
	gen := e.gen
	e.inflight = time.Time{}
	go e.worker(gen)
	e.mu.Unlock()

	e.log.Error("worker stalled past hard ceiling, recycling",
		zap.Duration("stalled", stalled),
		zap.Duration("ceiling", e.opts.StallCeiling),
		zap.Int("abandoned_queue", len(rest)))

	// The stuck worker may still hold the old handle inside a blocked
	// call; abandon the reference rather than releasing it from here.
	e.mgr.Invalidate()

	for _, c := range rest {
		c.finish(nil, comerr.New(comerr.KindConnectionLost,
			"worker recycled while request was queued behind a stalled call"))
	}
}
