package server

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/okvee/rpctoast/config"
	"github.com/okvee/rpctoast/metrics"
	"github.com/okvee/rpctoast/rpc"
)

func startTestServer(t *testing.T) (*rpc.Client, context.CancelFunc) {
	t.Helper()

	cfg := config.Default()
	cfg.SocketPath = path.Join(t.TempDir(), "rpc.sock")

	srv := NewServer(cfg, zap.NewNop(), metrics.NewMetrics())
	srv.Handle("ping", func(ctx context.Context, args map[string]any) (any, error) {
		return "pong", nil
	})
	srv.Handle("echo", func(ctx context.Context, args map[string]any) (any, error) {
		return args["message"], nil
	})
	srv.Handle("fail", func(ctx context.Context, args map[string]any) (any, error) {
		return nil, fmt.Errorf("boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	go srv.Serve(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(cfg.SocketPath); err == nil {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("gateway socket never appeared")
		}
		time.Sleep(5 * time.Millisecond)
	}

	client, err := rpc.NewClient(cfg.SocketPath)
	if err != nil {
		cancel()
		t.Fatalf("NewClient() error = %v", err)
	}
	return client, cancel
}

func TestServer_InvokeRoundtrip(t *testing.T) {
	client, cancel := startTestServer(t)
	defer cancel()
	ctx := context.Background()

	result, err := client.Invoke(ctx, "ping", nil)
	if err != nil {
		t.Fatalf("Invoke(ping) error = %v", err)
	}
	if string(result) != `"pong"` {
		t.Errorf("Invoke(ping) = %s, want %q", result, `"pong"`)
	}

	result, err = client.Invoke(ctx, "echo", map[string]any{"message": "hello"})
	if err != nil {
		t.Fatalf("Invoke(echo) error = %v", err)
	}
	if string(result) != `"hello"` {
		t.Errorf("Invoke(echo) = %s, want %q", result, `"hello"`)
	}
}

func TestServer_HandlerError(t *testing.T) {
	client, cancel := startTestServer(t)
	defer cancel()

	_, err := client.Invoke(context.Background(), "fail", nil)
	if err == nil {
		t.Fatal("Invoke(fail) expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Invoke(fail) error = %v, want the handler message preserved", err)
	}
}

func TestServer_UnknownCommand(t *testing.T) {
	client, cancel := startTestServer(t)
	defer cancel()

	_, err := client.Invoke(context.Background(), "nope", nil)
	if err == nil {
		t.Fatal("Invoke(nope) expected error")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("Invoke(nope) error = %v", err)
	}
}

func TestServer_DuplicateHandlerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("duplicate handler registration must panic")
		}
	}()

	srv := NewServer(config.Default(), zap.NewNop(), metrics.NewMetrics())
	noop := func(ctx context.Context, args map[string]any) (any, error) { return nil, nil }
	srv.Handle("ping", noop)
	srv.Handle("ping", noop)
}
