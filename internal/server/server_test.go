package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"pptmcp/internal/comauto/comfake"
	"pptmcp/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewWithConnectorStartsAndStops(t *testing.T) {
	conn := comfake.NewConnector()
	s, shutdown, err := NewWithConnector(config.DefaultConfig(), nil, conn)
	require.NoError(t, err)
	require.NotNil(t, s)

	shutdown()
	// Shutdown is idempotent.
	shutdown()
	assert.Zero(t, conn.LaunchCalls(), "no COM work happens before the first tool call")
}

func TestServeRejectsUnknownTransport(t *testing.T) {
	conn := comfake.NewConnector()
	s, shutdown, err := NewWithConnector(config.DefaultConfig(), nil, conn)
	require.NoError(t, err)
	defer shutdown()

	cfg := config.DefaultConfig()
	cfg.Server.Transport = "pigeon"
	assert.Error(t, Serve(s, cfg))
}
