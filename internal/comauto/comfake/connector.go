// Package comfake provides in-memory implementations of comauto.Connector
// and comauto.Object for tests. The typed model in app.go mimics the slice
// of the PowerPoint object hierarchy the tool handlers touch; the Stub in
// stub.go is a fully scriptable object for targeted failure injection.
package comfake

import (
	"sync"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// Connector is a scriptable comauto.Connector. The zero value behaves like
// a machine with no running PowerPoint: Attach misses with MK_E_UNAVAILABLE
// and Launch yields a fresh Application.
type Connector struct {
	mu sync.Mutex

	// InitErr, when set, is returned by InitThread.
	InitErr error
	// AttachFn overrides the default attach-miss behavior.
	AttachFn func(progID string) (comauto.Object, error)
	// LaunchFn overrides the default launch-new-application behavior.
	LaunchFn func(progID string) (comauto.Object, error)

	initCalls   int
	uninitCalls int
	attachCalls int
	launchCalls int

	launched []*Application
}

func NewConnector() *Connector {
	return &Connector{}
}

func (c *Connector) InitThread() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initCalls++
	return c.InitErr
}

func (c *Connector) UninitThread() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uninitCalls++
}

func (c *Connector) Attach(progID string) (comauto.Object, error) {
	c.mu.Lock()
	c.attachCalls++
	fn := c.AttachFn
	c.mu.Unlock()
	if fn != nil {
		return fn(progID)
	}
	return nil, &comerr.RawError{
		HResult: 0x800401E3,
		Message: "Operation unavailable",
	}
}

func (c *Connector) Launch(progID string) (comauto.Object, error) {
	c.mu.Lock()
	c.launchCalls++
	fn := c.LaunchFn
	c.mu.Unlock()
	if fn != nil {
		return fn(progID)
	}
	app := NewApplication()
	c.mu.Lock()
	c.launched = append(c.launched, app)
	c.mu.Unlock()
	return app, nil
}

func (c *Connector) InitCalls() int   { c.mu.Lock(); defer c.mu.Unlock(); return c.initCalls }
func (c *Connector) UninitCalls() int { c.mu.Lock(); defer c.mu.Unlock(); return c.uninitCalls }
func (c *Connector) AttachCalls() int { c.mu.Lock(); defer c.mu.Unlock(); return c.attachCalls }
func (c *Connector) LaunchCalls() int { c.mu.Lock(); defer c.mu.Unlock(); return c.launchCalls }

// Launched returns every Application the default Launch produced, in order.
func (c *Connector) Launched() []*Application {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Application, len(c.launched))
	copy(out, c.launched)
	return out
}
