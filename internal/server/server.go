package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/janpfeifer/TriMatch/internal/config"
	"github.com/janpfeifer/TriMatch/internal/deck"
	"github.com/janpfeifer/TriMatch/internal/viewer"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// Run starts the preview server for cfg and blocks until the context is
// canceled. If addr is empty it listens on an automatic port on localhost.
// Once listening, the state (with its Address) is sent to started, if not nil.
func Run(ctx context.Context, cfg *config.Config, addr string, started chan<- *ServerState) error {
	// Global viewer state for server-side prerendering.
	viewer.InitState()

	serverState, err := NewServerState(cfg)
	if err != nil {
		return fmt.Errorf("failed to build initial deck: %w", err)
	}

	// Register go-app routes so the server knows how to prerender them
	app.Route("/", func() app.Composer { return &viewer.Gallery{} })
	app.Route("/deck", func() app.Composer { return &viewer.Gallery{} })

	h := newAppHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", serverState.HandleWS)
	mux.HandleFunc("GET /pages/{page}/{side}", serverState.HandlePage)
	mux.HandleFunc("GET /solution.tsv", serverState.HandleSolution)
	mux.Handle("/web/", http.StripPrefix("/web/", http.FileServer(http.Dir("web/"))))
	mux.Handle("/", h)

	if addr == "" {
		addr = "127.0.0.1:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	serverState.Address = listener.Addr().String()

	srv := &http.Server{Handler: mux}
	serveErr := make(chan error, 1)
	go func() {
		klog.Infof("Server started on %s", serverState.Address)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	if started != nil {
		started <- serverState
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with 5 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	klog.Infof("Shutting down server...")
	return srv.Shutdown(shutdownCtx)
}

// newAppHandler serves the viewer. Its version changes with deck.Version, which
// makes open viewers reload the WASM.
func newAppHandler() *app.Handler {
	return &app.Handler{
		Name:        "TriMatch",
		Description: "Matching cards for table mixers",
		Version:     deck.Version,
		Styles: []string{
			"/web/css/pico.min.css",
			"/web/css/main.css",
		},
	}
}
