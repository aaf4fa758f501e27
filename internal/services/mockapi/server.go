// Package mockapi serves a local stand-in for the support backend. It
// answers the same endpoint surface the dashboard client consumes, backed by
// SQLite, with canned AI output instead of a real pipeline.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/helpdeck-io/helpdeck/internal/platform/timeouts"
	"github.com/helpdeck-io/helpdeck/internal/services/mockapi/store"
)

// Config defines the inputs for the mock support API server.
type Config struct {
	HTTPAddr string
	DBPath   string
	// SeedPath points at a YAML fixture. Empty selects the embedded default.
	// Seeding only runs against an empty store.
	SeedPath string
}

// Server hosts the mock support API.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *store.Store
}

// NewServer builds a configured mock API server and seeds an empty store.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}

	st, err := store.Open(strings.TrimSpace(config.DBPath))
	if err != nil {
		return nil, fmt.Errorf("open support store: %w", err)
	}
	if err := seedIfEmpty(ctx, st, config.SeedPath); err != nil {
		_ = st.Close()
		return nil, err
	}

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           NewHandler(st),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: st,
	}, nil
}

func seedIfEmpty(ctx context.Context, st *store.Store, seedPath string) error {
	empty, err := st.Empty(ctx)
	if err != nil {
		return fmt.Errorf("check store: %w", err)
	}
	if !empty {
		return nil
	}
	fixture, err := store.LoadSeedFixture(seedPath)
	if err != nil {
		return fmt.Errorf("load seed fixture: %w", err)
	}
	if err := st.Seed(ctx, fixture); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	log.Printf("seeded support store with %d tickets", len(fixture.Tickets))
	return nil
}

// NewHandler assembles the mock API HTTP handler.
func NewHandler(st *store.Store) http.Handler {
	mux := http.NewServeMux()
	h := handlers{store: st}
	mux.HandleFunc(http.MethodGet+" /api/v1/tickets", h.handleListTickets)
	mux.HandleFunc(http.MethodGet+" /api/v1/tickets/{ticketID}", h.handleGetTicket)
	mux.HandleFunc(http.MethodPost+" /api/v1/tickets/process-query", h.handleProcessQuery)
	mux.HandleFunc(http.MethodPost+" /api/v1/tickets/{ticketID}/approve", h.handleApprove)
	mux.HandleFunc(http.MethodGet+" /api/v1/analytics/dashboard", h.handleDashboardMetrics)
	mux.HandleFunc(http.MethodGet+" /api/v1/analytics/ai-performance", h.handleAIPerformance)
	mux.HandleFunc(http.MethodGet+" /health", h.handleHealth)
	return mux
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("mock api server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("mock support api listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases resources held by the server.
func (s *Server) Close() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close support store: %v", err)
	}
}
