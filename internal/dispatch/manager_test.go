package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comauto/comfake"
	"pptmcp/internal/comerr"
)

func TestManagerAttachesToRunningInstance(t *testing.T) {
	app := comfake.NewApplication()
	conn := comfake.NewConnector()
	conn.AttachFn = func(progID string) (comauto.Object, error) {
		return app, nil
	}
	mgr := NewManager(conn, ManagerOptions{})

	handle, err := mgr.Acquire()
	require.NoError(t, err)
	require.NotNil(t, handle)

	assert.Equal(t, 1, conn.AttachCalls())
	assert.Equal(t, 0, conn.LaunchCalls())
	assert.Equal(t, Connected, mgr.State())
}

func TestManagerLaunchesWhenAttachMisses(t *testing.T) {
	conn := comfake.NewConnector()
	mgr := NewManager(conn, ManagerOptions{})

	handle, err := mgr.Acquire()
	require.NoError(t, err)
	require.NotNil(t, handle)

	assert.Equal(t, 1, conn.AttachCalls())
	assert.Equal(t, 1, conn.LaunchCalls())

	// A freshly launched hidden instance is made visible.
	launched := conn.Launched()
	require.Len(t, launched, 1)
	vis, err := launched[0].Get("Visible")
	require.NoError(t, err)
	assert.True(t, vis.Bool())
}

func TestManagerExplicitVisibilityWins(t *testing.T) {
	app := comfake.NewApplication()
	require.NoError(t, app.Put("Visible", true))

	conn := comfake.NewConnector()
	conn.AttachFn = func(progID string) (comauto.Object, error) {
		return app, nil
	}
	hidden := false
	mgr := NewManager(conn, ManagerOptions{Visible: &hidden})

	_, err := mgr.Acquire()
	require.NoError(t, err)

	vis, err := app.Get("Visible")
	require.NoError(t, err)
	assert.False(t, vis.Bool())
}

func TestManagerAttachKeepsCurrentVisibility(t *testing.T) {
	app := comfake.NewApplication() // hidden
	conn := comfake.NewConnector()
	conn.AttachFn = func(progID string) (comauto.Object, error) {
		return app, nil
	}
	mgr := NewManager(conn, ManagerOptions{})

	_, err := mgr.Acquire()
	require.NoError(t, err)

	vis, err := app.Get("Visible")
	require.NoError(t, err)
	assert.False(t, vis.Bool(), "attached instance keeps its window state")
}

func TestManagerBoundedRetryThenFail(t *testing.T) {
	conn := comfake.NewConnector()
	attachErr := &comerr.RawError{HResult: 0x800401E3, Message: "Operation unavailable"}
	launchErr := &comerr.RawError{HResult: 0x80080005, Message: "Server execution failed"}
	conn.AttachFn = func(progID string) (comauto.Object, error) { return nil, attachErr }
	conn.LaunchFn = func(progID string) (comauto.Object, error) { return nil, launchErr }

	mgr := NewManager(conn, ManagerOptions{ConnectRetries: 1})

	_, err := mgr.Acquire()
	require.Error(t, err)

	// One initial cycle plus exactly one retry cycle.
	assert.Equal(t, 2, conn.AttachCalls())
	assert.Equal(t, 2, conn.LaunchCalls())
	assert.Equal(t, Disconnected, mgr.State())

	var norm *comerr.Error
	require.True(t, errors.As(err, &norm))
	assert.Equal(t, comerr.KindConnectionLost, norm.Kind)
	assert.Equal(t, uint32(0x80080005), norm.RawCode)
}

func TestManagerEnsureReusesLiveHandle(t *testing.T) {
	conn := comfake.NewConnector()
	mgr := NewManager(conn, ManagerOptions{})

	h1, err := mgr.Ensure()
	require.NoError(t, err)
	h2, err := mgr.Ensure()
	require.NoError(t, err)

	assert.Same(t, h1, h2)
	assert.Equal(t, 1, conn.LaunchCalls())
}

func TestManagerEnsureReconnectsAfterFailedProbe(t *testing.T) {
	conn := comfake.NewConnector()
	mgr := NewManager(conn, ManagerOptions{})

	h1, err := mgr.Ensure()
	require.NoError(t, err)

	conn.Launched()[0].Kill()
	assert.False(t, mgr.Probe(h1))

	h2, err := mgr.Ensure()
	require.NoError(t, err)
	assert.NotSame(t, h1, h2)
	assert.Equal(t, 2, conn.LaunchCalls())
	assert.Equal(t, Connected, mgr.State())

	// The dead handle is abandoned, never released.
	assert.Equal(t, 0, conn.Launched()[0].Releases())
}

func TestManagerReleaseIsIdempotentAndNeverQuits(t *testing.T) {
	conn := comfake.NewConnector()
	mgr := NewManager(conn, ManagerOptions{})

	_, err := mgr.Ensure()
	require.NoError(t, err)
	app := conn.Launched()[0]

	mgr.Release()
	mgr.Release()

	assert.Equal(t, 1, app.Releases())
	assert.Equal(t, 0, app.QuitCalls())
	assert.Equal(t, Disconnected, mgr.State())
}

func TestManagerInvalidateAbandonsWithoutRelease(t *testing.T) {
	conn := comfake.NewConnector()
	mgr := NewManager(conn, ManagerOptions{})

	_, err := mgr.Ensure()
	require.NoError(t, err)
	app := conn.Launched()[0]

	mgr.Invalidate()

	assert.Equal(t, 0, app.Releases())
	assert.Equal(t, Disconnected, mgr.State())
}
