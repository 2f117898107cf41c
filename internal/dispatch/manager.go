package dispatch

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// DefaultProgID is the COM program identifier for PowerPoint.
const DefaultProgID = "PowerPoint.Application"

// Manager owns the acquisition, liveness probing and release of the single
// Application handle. All methods except State and Invalidate are called
// exclusively from the executor's worker thread; Invalidate may be called
// by the stall supervisor when it abandons a stuck worker.
type Manager struct {
	connector comauto.Connector
	progID    string
	visible   *bool // nil = keep current state, default visible on fresh launch
	retries   int
	backoff   time.Duration
	log       *zap.Logger

	mu     sync.Mutex
	handle comauto.Object
	state  atomic.Int32
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	ProgID string
	// Visible controls window visibility applied on connect. Nil keeps the
	// current state, except that a freshly launched hidden instance is made
	// visible (matching interactive expectations).
	Visible *bool
	// ConnectRetries is the number of extra attach+launch cycles after the
	// first one fails. Default 1; the retry is bounded, never infinite.
	ConnectRetries int
	// ConnectBackoff is the pause between cycles.
	ConnectBackoff time.Duration
	Logger         *zap.Logger
}

// NewManager creates a Manager. The connector is the platform COM layer or
// a test fake.
func NewManager(connector comauto.Connector, opts ManagerOptions) *Manager {
	if opts.ProgID == "" {
		opts.ProgID = DefaultProgID
	}
	if opts.ConnectRetries < 0 {
		opts.ConnectRetries = 0
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		connector: connector,
		progID:    opts.ProgID,
		visible:   opts.Visible,
		retries:   opts.ConnectRetries,
		backoff:   opts.ConnectBackoff,
		log:       opts.Logger,
	}
}

// State returns a snapshot of the connection state.
func (m *Manager) State() ConnectionState {
	return ConnectionState(m.state.Load())
}

func (m *Manager) setState(s ConnectionState) {
	m.state.Store(int32(s))
}

// Ensure returns a live handle, probing the current one and acquiring a
// fresh one when the probe fails. Worker thread only.
func (m *Manager) Ensure() (comauto.Object, error) {
	m.mu.Lock()
	handle := m.handle
	m.mu.Unlock()

	if handle != nil {
		if m.Probe(handle) {
			m.setState(Connected)
			return handle, nil
		}
		m.setState(Degraded)
		m.log.Warn("stale handle detected, reconnecting", zap.String("prog_id", m.progID))
		// The old proxy points at a dead or hung process; abandon the
		// reference rather than risk a blocking Release on it.
		m.drop()
	}
	return m.Acquire()
}

// Probe issues the cheapest read-only call against the handle to check
// liveness. It never returns an error; any failure means "not live".
func (m *Manager) Probe(handle comauto.Object) bool {
	if handle == nil {
		return false
	}
	_, err := handle.Get("Name")
	return err == nil
}

// Acquire attaches to a running instance or launches a new one, with a
// bounded number of retry cycles. Worker thread only.
func (m *Manager) Acquire() (comauto.Object, error) {
	m.setState(Connecting)

	var lastErr error
	attempts := 1 + m.retries
	for i := 0; i < attempts; i++ {
		if i > 0 && m.backoff > 0 {
			time.Sleep(m.backoff)
		}

		handle, attached, err := m.connect()
		if err != nil {
			lastErr = err
			m.log.Warn("connect attempt failed",
				zap.Int("attempt", i+1),
				zap.Int("max_attempts", attempts),
				zap.Error(err))
			continue
		}

		if err := m.applyVisibility(handle, attached); err != nil {
			m.log.Warn("failed to apply window visibility", zap.Error(err))
		}

		m.mu.Lock()
		m.handle = handle
		m.mu.Unlock()
		m.setState(Connected)
		if attached {
			m.log.Info("attached to running instance", zap.String("prog_id", m.progID))
		} else {
			m.log.Info("launched new instance", zap.String("prog_id", m.progID))
		}
		return handle, nil
	}

	m.setState(Disconnected)
	norm := comerr.Normalize(lastErr)
	return nil, &comerr.Error{
		Kind:           comerr.KindConnectionLost,
		Message:        "failed to connect to " + m.progID + ": " + norm.Message,
		RawCode:        norm.RawCode,
		RawSource:      norm.RawSource,
		RawDescription: norm.RawDescription,
	}
}

// connect tries attach first (cheap, non-destructive), then launch.
func (m *Manager) connect() (handle comauto.Object, attached bool, err error) {
	handle, err = m.connector.Attach(m.progID)
	if err == nil {
		return handle, true, nil
	}
	handle, err = m.connector.Launch(m.progID)
	if err == nil {
		return handle, false, nil
	}
	return nil, false, err
}

// applyVisibility mirrors the connect-time visibility policy: an explicit
// setting always wins; otherwise a hidden instance is only made visible
// when we launched it ourselves.
func (m *Manager) applyVisibility(handle comauto.Object, attached bool) error {
	if m.visible != nil {
		return handle.Put("Visible", *m.visible)
	}
	if attached {
		return nil
	}
	cur, err := handle.Get("Visible")
	if err != nil {
		return err
	}
	if !cur.Bool() {
		return handle.Put("Visible", true)
	}
	return nil
}

// Release drops ownership of the handle and releases the COM reference.
// It never quits PowerPoint: the application may be shared with a human
// user. Idempotent.
func (m *Manager) Release() {
	m.mu.Lock()
	handle := m.handle
	m.handle = nil
	m.mu.Unlock()

	if handle != nil {
		handle.Release()
		m.log.Info("handle released")
	}
	m.setState(Disconnected)
}

// Invalidate abandons the current handle without releasing it. Used when
// the handle is presumed stuck or dead and a Release could block.
func (m *Manager) Invalidate() {
	m.drop()
	m.setState(Disconnected)
}

func (m *Manager) drop() {
	m.mu.Lock()
	m.handle = nil
	m.mu.Unlock()
}
