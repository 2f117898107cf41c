// Package comauto abstracts the synchronous, thread-affine COM automation
// interface that PowerPoint exposes. The real implementation (Windows,
// go-ole) and the test fakes both satisfy Object and Connector, so the
// dispatcher and tool handlers are platform-independent.
//
// Objects are thread-affine: every Object, including sub-objects returned
// from Get and Call, must only be used on the dispatcher's worker thread.
// Handlers convert anything they return to owned Go data before it crosses
// back to the caller.
package comauto

// Object is a dynamic IDispatch-style automation object.
type Object interface {
	// Get reads a property, optionally with index arguments
	// (e.g. Presentations.Item(2) is Get("Item", 2)).
	Get(name string, args ...interface{}) (Variant, error)
	// Put writes a property.
	Put(name string, value interface{}) error
	// Call invokes a method.
	Call(name string, args ...interface{}) (Variant, error)
	// Release drops the underlying COM reference. Idempotent.
	Release()
}

// Connector produces Application objects and owns per-thread COM setup.
// InitThread must be called exactly once on the worker thread before any
// Attach or Launch, and UninitThread once after the last Release.
type Connector interface {
	InitThread() error
	UninitThread()
	// Attach binds to an already-running instance registered under progID.
	Attach(progID string) (Object, error)
	// Launch starts a new instance (or, for single-instance servers like
	// PowerPoint, transparently yields the running one).
	Launch(progID string) (Object, error)
}
