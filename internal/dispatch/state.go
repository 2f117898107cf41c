package dispatch

// ConnectionState describes the health of the PowerPoint handle. It is
// written only on the worker thread (and by the stall supervisor when it
// abandons a stuck handle); outside readers get a best-effort snapshot.
type ConnectionState int32

const (
	// Disconnected means no handle is held.
	Disconnected ConnectionState = iota
	// Connecting means an attach/launch cycle is in progress.
	Connecting
	// Connected means the handle passed its last liveness probe.
	Connected
	// Degraded means a handle is held but its last probe failed.
	Degraded
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Degraded:
		return "degraded"
	}
	return "unknown"
}

// ExecState is the executor lifecycle state machine:
// NotStarted → Running → Draining → Stopped.
type ExecState int32

const (
	NotStarted ExecState = iota
	Running
	Draining
	Stopped
)

func (s ExecState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}
