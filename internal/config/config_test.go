package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "pptmcp" {
		t.Errorf("expected Name=pptmcp, got %s", cfg.Name)
	}
	if cfg.PowerPoint.ProgID != "PowerPoint.Application" {
		t.Errorf("expected ProgID=PowerPoint.Application, got %s", cfg.PowerPoint.ProgID)
	}
	if cfg.PowerPoint.ConnectRetries != 1 {
		t.Errorf("expected ConnectRetries=1, got %d", cfg.PowerPoint.ConnectRetries)
	}
	if cfg.Server.Transport != "stdio" {
		t.Errorf("expected Transport=stdio, got %s", cfg.Server.Transport)
	}
	if got := cfg.GetCallTimeout(); got != 30*time.Second {
		t.Errorf("expected CallTimeout=30s, got %v", got)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Executor.CallTimeout = "45s"
	visible := true
	cfg.PowerPoint.Visible = &visible

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Executor.CallTimeout != "45s" {
		t.Errorf("expected CallTimeout=45s, got %s", loaded.Executor.CallTimeout)
	}
	if loaded.GetCallTimeout() != 45*time.Second {
		t.Errorf("expected parsed CallTimeout=45s, got %v", loaded.GetCallTimeout())
	}
	if loaded.PowerPoint.Visible == nil || !*loaded.PowerPoint.Visible {
		t.Error("expected Visible=true to survive the round trip")
	}
}

func TestConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PowerPoint.ProgID != "PowerPoint.Application" {
		t.Errorf("expected default ProgID, got %s", cfg.PowerPoint.ProgID)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	os.Setenv("PPTMCP_TRANSPORT", "http")
	os.Setenv("PPTMCP_HTTP_ADDR", "localhost:9999")
	os.Setenv("PPTMCP_LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("PPTMCP_TRANSPORT")
		os.Unsetenv("PPTMCP_HTTP_ADDR")
		os.Unsetenv("PPTMCP_LOG_LEVEL")
	}()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Transport != "http" {
		t.Errorf("expected Transport=http, got %s", cfg.Server.Transport)
	}
	if cfg.Server.HTTPAddr != "localhost:9999" {
		t.Errorf("expected HTTPAddr=localhost:9999, got %s", cfg.Server.HTTPAddr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Logging.Level)
	}
}

func TestConfig_RejectsUnknownTransport(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Transport = "carrier-pigeon"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected Load to reject the transport")
	}
}

func TestConfig_BadDurationFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Executor.StallCeiling = "soon"
	if got := cfg.GetStallCeiling(); got != 5*time.Minute {
		t.Errorf("expected fallback 5m, got %v", got)
	}
}
