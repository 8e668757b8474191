package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/recording-manager/internal/config"
	"github.com/openkcm/recording-manager/internal/recording"
)

// createHTTPServer creates the recordings API server using the given config
func createHTTPServer(_ context.Context, cfg *config.Config, registry *recording.Registry) *http.Server {
	handler := newRecordingsServer(registry).routes(newTraceMiddleware(cfg))

	return &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: handler,
	}
}

// StartHTTPServer serves the recordings API until ctx is cancelled.
func StartHTTPServer(ctx context.Context, cfg *config.Config, registry *recording.Registry) error {
	if err := initMeters(ctx, cfg); err != nil {
		return err
	}

	server := createHTTPServer(ctx, cfg, registry)

	slogctx.Info(ctx, "Starting a listener", "address", server.Addr)

	// Addresses of the form network://address select the network, e.g. a unix socket.
	network := "tcp"
	if idx := strings.Index(server.Addr, "://"); idx > 0 {
		network = server.Addr[:idx]
		server.Addr = server.Addr[idx+3:]
	}

	listener, err := new(net.ListenConfig).Listen(ctx, network, server.Addr)
	if err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed to create a listener")
	}

	slogctx.Info(ctx, "A listener started", "address", listener.Addr().String())

	serveErr := make(chan error, 1)
	go func() {
		slogctx.Info(ctx, "Serving an HTTP server", "address", listener.Addr().String())
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogctx.Error(ctx, "Failed to serve an HTTP server", "error", err)
			serveErr <- err
		}
		close(serveErr)

		slogctx.Info(ctx, "Stopped an HTTP server")
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			return oops.In("HTTP Server").
				WithContext(ctx).
				Wrapf(err, "Failed serving HTTP")
		}
	}

	shutdownCtx, shutdownRelease := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
	defer shutdownRelease()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed shutting down HTTP server")
	}

	slogctx.Info(ctx, "Completed graceful shutdown of HTTP server")

	return nil
}
