package utils

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	DEFAULT_READ_TIMEOUT     = 60 * time.Second
	DEFAULT_WRITE_TIMEOUT    = DEFAULT_READ_TIMEOUT
	DEFAULT_SHUTDOWN_TIMEOUT = 30 * time.Second
)

// ShutdownHook releases a resource once the HTTP server stopped accepting requests.
type ShutdownHook func(ctx context.Context) error

// Server wraps http.Server with signal driven graceful shutdown.
type Server struct {
	*http.Server

	hooks      []ShutdownHook
	signalChan chan os.Signal
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			ReadHeaderTimeout: 10 * time.Second,
		},
		signalChan: make(chan os.Signal, 1),
	}
}

// OnShutdown registers hooks run in registration order after the listener closed.
func (srv *Server) OnShutdown(hooks ...ShutdownHook) {
	srv.hooks = append(srv.hooks, hooks...)
}

// ListenAndServe serves until SIGINT/SIGTERM, then drains in-flight requests and runs the hooks.
func (srv *Server) ListenAndServe() error {
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return srv.Serve(ln)
}

// Serve runs the server on an existing listener.
func (srv *Server) Serve(ln net.Listener) error {
	signal.Notify(srv.signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(srv.signalChan)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Server.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-srv.signalChan:
		Sugar.Infof("received %s, graceful shutting down HTTP server", sig)
	}
	return srv.shutdown()
}

func (srv *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), DEFAULT_SHUTDOWN_TIMEOUT)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
		errs = append(errs, err)
	} else {
		Sugar.Info("HTTP server shutdown success")
	}
	// Shutdown does not track hijacked (websocket) connections; hooks close those.
	for _, hook := range srv.hooks {
		if err := hook(ctx); err != nil {
			Sugar.Errorf("shutdown hook failed: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GraceServer starts an HTTP server with graceful shutdown and the given hooks.
func GraceServer(addr string, handler http.Handler, hooks ...ShutdownHook) error {
	srv := NewServer(addr, handler, DEFAULT_READ_TIMEOUT, DEFAULT_WRITE_TIMEOUT)
	srv.OnShutdown(hooks...)
	return srv.ListenAndServe()
}
