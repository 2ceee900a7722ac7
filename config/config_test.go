package config

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/okvee/rpctoast/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.SocketPath == "" {
		t.Error("default socket path must be set")
	}
	if cfg.Deadline.Std() != 30*time.Second {
		t.Errorf("default deadline = %v, want 30s", cfg.Deadline.Std())
	}
	if len(cfg.Backends) != 1 || cfg.Backends[0].Type != types.BackendCLI {
		t.Errorf("default backends = %+v, want the cli backend only", cfg.Backends)
	}
	if !cfg.Journal.Enabled {
		t.Error("journal must be enabled by default")
	}
	if !cfg.ClipboardCopy {
		t.Error("clipboard copy must be enabled by default")
	}
}

func TestSaveAndRead(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	saved := Default()
	saved.SocketPath = "/tmp/custom.sock"
	saved.Deadline = Duration(5 * time.Second)
	saved.Backends = []Backend{
		{Type: types.BackendCLI},
		{Type: types.BackendTelegram, MinSeverity: types.SeverityWarning},
	}

	if err := SaveToDefaultLoc(saved); err != nil {
		t.Fatalf("SaveToDefaultLoc() error = %v", err)
	}

	got, err := ReadFromDefaultLoc()
	if err != nil {
		t.Fatalf("ReadFromDefaultLoc() error = %v", err)
	}

	if got.SocketPath != "/tmp/custom.sock" {
		t.Errorf("SocketPath = %q", got.SocketPath)
	}
	if got.Deadline.Std() != 5*time.Second {
		t.Errorf("Deadline = %v, want the yaml duration string round-tripped", got.Deadline.Std())
	}
	if len(got.Backends) != 2 || got.Backends[1].MinSeverity != types.SeverityWarning {
		t.Errorf("Backends = %+v", got.Backends)
	}
}

func TestLoad_CreatesDefaultOnFirstRun(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	os.Unsetenv("RPCTOAST_SOCKET")
	os.Unsetenv("RPCTOAST_METRICS_ADDR")
	os.Unsetenv("RPCTOAST_LOG_LEVEL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SocketPath != Default().SocketPath {
		t.Errorf("SocketPath = %q, want default", cfg.SocketPath)
	}

	if _, err := os.Stat(path.Join(configHome, "rpctoast", "config.yaml")); err != nil {
		t.Errorf("first run must persist the default config: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("RPCTOAST_SOCKET", "/tmp/override.sock")
	t.Setenv("RPCTOAST_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SocketPath != "/tmp/override.sock" {
		t.Errorf("SocketPath = %q, env override must win", cfg.SocketPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, env override must win", cfg.LogLevel)
	}
}
