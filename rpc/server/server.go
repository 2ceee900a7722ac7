package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/okvee/rpctoast/config"
	"github.com/okvee/rpctoast/metrics"
	rpctypes "github.com/okvee/rpctoast/rpc/types"
)

// HandlerFunc executes one named command. The returned value is marshaled
// into the response envelope as-is.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// Server hosts the command gateway on a unix socket. Commands are
// registered before Serve is called; the set is static for the lifetime of
// the process.
type Server struct {
	config   *config.Config
	log      *zap.Logger
	metrics  *metrics.Metrics
	handlers map[string]HandlerFunc
}

func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	m *metrics.Metrics,
) *Server {
	return &Server{
		config:   cfg,
		log:      log,
		metrics:  m,
		handlers: make(map[string]HandlerFunc),
	}
}

func (s *Server) Handle(name string, fn HandlerFunc) {
	if _, exists := s.handlers[name]; exists {
		panic(fmt.Errorf("duplicate handler registration for %s", name))
	}
	s.handlers[name] = fn
}

func (s *Server) Serve(ctx context.Context) error {
	if _, err := os.Stat(s.config.SocketPath); err == nil {
		os.Remove(s.config.SocketPath)
	}

	var listenCfg net.ListenConfig
	listener, err := listenCfg.Listen(ctx, "unix", s.config.SocketPath)
	if err != nil {
		return err
	}
	defer listener.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/invoke", s.handleInvoke)

	srv := &http.Server{Handler: mux}

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(listener)
	}()

	s.log.Info("gateway listening", zap.String("socket", s.config.SocketPath))

	select {
	case err := <-done:
		s.log.Error("gateway finalized", zap.Error(err))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}

func (s *Server) handleInvoke(rw http.ResponseWriter, r *http.Request) {
	var req rpctypes.InvokeRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErr(rw, rpctypes.CodeBadRequest, err)
		return
	}

	handler, ok := s.handlers[req.Name]
	if !ok {
		s.metrics.UnknownCommandsTotal.Inc()
		s.writeErr(rw, rpctypes.CodeUnknownCommand, fmt.Errorf("unknown command '%s'", req.Name))
		return
	}

	args := req.Args
	if args == nil {
		args = map[string]any{}
	}

	s.metrics.InvocationsTotal.WithLabelValues(req.Name).Inc()
	started := time.Now()
	result, err := handler(r.Context(), args)
	s.metrics.InvocationDurationSecs.Observe(time.Since(started).Seconds())

	if err != nil {
		s.metrics.InvocationErrorsTotal.WithLabelValues(req.Name).Inc()
		s.log.Warn("command failed",
			zap.String("command", req.Name),
			zap.Error(err),
		)
		s.writeErr(rw, rpctypes.CodeInternal, err)
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		s.writeErr(rw, rpctypes.CodeInternal, err)
		return
	}

	s.log.Info("command handled",
		zap.String("command", req.Name),
		zap.Duration("took", time.Since(started)),
	)
	s.writeOK(rw, rpctypes.InvokeResponse{Result: raw})
}

func (s *Server) writeOK(rw http.ResponseWriter, res rpctypes.InvokeResponse) {
	var rpcResponse rpctypes.Response[rpctypes.InvokeResponse]
	rpcResponse.Data = res
	rw.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(rw).Encode(&rpcResponse); err != nil {
		s.log.Error("response encoding failed", zap.Error(err))
	}
}

func (s *Server) writeErr(rw http.ResponseWriter, code int, err error) {
	var rpcResponse rpctypes.Response[any]
	rpcResponse.Error = rpctypes.ErrResponse{
		Code:    code,
		Message: err.Error(),
	}
	rw.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(rw).Encode(&rpcResponse); err != nil {
		s.log.Error("response encoding failed", zap.Error(err))
	}
}
