package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/okvee/rpctoast/common"
	"github.com/okvee/rpctoast/config"
	"github.com/okvee/rpctoast/metrics"
	rpcserver "github.com/okvee/rpctoast/rpc/server"
)

func registerBuiltins(srv *rpcserver.Server) {
	srv.Handle("ping", func(ctx context.Context, args map[string]any) (any, error) {
		return "pong", nil
	})

	srv.Handle("echo", func(ctx context.Context, args map[string]any) (any, error) {
		message, ok := args["message"]
		if !ok {
			return nil, fmt.Errorf("echo requires a 'message' argument")
		}
		return message, nil
	})

	srv.Handle("time", func(ctx context.Context, args map[string]any) (any, error) {
		return time.Now().Format(time.RFC3339), nil
	})

	srv.Handle("sleep", func(ctx context.Context, args map[string]any) (any, error) {
		raw, ok := args["duration"].(string)
		if !ok {
			return nil, fmt.Errorf("sleep requires a 'duration' argument")
		}
		dur, err := time.ParseDuration(raw)
		if err != nil {
			return nil, err
		}

		timer := time.NewTimer(dur)
		defer timer.Stop()
		select {
		case <-timer.C:
			return map[string]any{"slept": dur.String()}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := common.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	m := metrics.NewMetrics()
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error("metrics endpoint failed", zap.Error(err))
			}
		}()
	}

	server := rpcserver.NewServer(cfg, log, m)
	registerBuiltins(server)

	return server.Serve(ctx)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := cobra.Command{
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
