// Package server serves the chart dashboard: a tile grid over the published
// spreadsheet with search, rating, score and sort controls.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/dashboard"
)

// Loader returns the current spreadsheet rows.
type Loader func(ctx context.Context) ([]dashboard.Row, error)

type Server struct {
	load Loader

	mu       sync.RWMutex
	rows     []dashboard.Row
	loadErr  error
	loadedAt time.Time
}

func New(load Loader) *Server {
	return &Server{load: load}
}

// Refresh reloads the rows. On failure the previous rows are dropped and the
// error is kept for display until the next successful load. A load cut short
// by ctx leaves the current snapshot untouched.
func (s *Server) Refresh(ctx context.Context) error {
	rows, err := s.load(ctx)
	if err != nil && ctx.Err() != nil {
		utils.Log.Warnf("Spreadsheet reload interrupted: %v", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadedAt = time.Now()
	if err != nil {
		s.rows = nil
		s.loadErr = err
		utils.Log.Errorf("Failed to load spreadsheet: %v", err)
		return err
	}
	s.rows = rows
	s.loadErr = nil
	return nil
}

// snapshot returns the current rows and load error. The slice is shared and
// must not be modified.
func (s *Server) snapshot() ([]dashboard.Row, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows, s.loadedAt, s.loadErr
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /grid", s.handleGrid)
	mux.HandleFunc("POST /refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/charts", s.handleCharts)
	return mux
}

// RefreshEvery reloads the rows on every tick until ctx is done.
func (s *Server) RefreshEvery(ctx context.Context, interval time.Duration) {
	utils.Log.Infof("Refreshing spreadsheet every %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err == nil {
				utils.Log.Debugf("Spreadsheet refreshed")
			}
		}
	}
}

// Start loads the spreadsheet once and serves until ctx is done or the
// listener fails. A failed initial load is not fatal; the page shows the
// error instead. interval <= 0 disables the background refresh.
func (s *Server) Start(ctx context.Context, addr string, interval time.Duration) error {
	_ = s.Refresh(ctx)
	if interval > 0 {
		go s.RefreshEvery(ctx, interval)
	}

	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errc := make(chan error, 1)
	go func() {
		utils.Log.Infof("Starting dashboard on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	utils.Log.Infof("Shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
