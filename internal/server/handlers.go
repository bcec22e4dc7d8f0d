package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	g "maragu.dev/gomponents"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/dashboard"
)

type view struct {
	Filter   dashboard.Filter
	Sort     dashboard.Sort
	Rows     []dashboard.Row
	Ratings  []float64
	Total    int
	LoadedAt time.Time
	LoadErr  error
}

func (s *Server) currentView(r *http.Request) view {
	rows, loadedAt, loadErr := s.snapshot()
	// Form carries the query for GET and the body for htmx POSTs.
	_ = r.ParseForm()
	f, srt := dashboard.FromQuery(r.Form)
	return view{
		Filter:   f,
		Sort:     srt,
		Rows:     dashboard.Apply(rows, f, srt),
		Ratings:  dashboard.Ratings(rows),
		Total:    len(rows),
		LoadedAt: loadedAt,
		LoadErr:  loadErr,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v := s.currentView(r)
	if r.Header.Get("HX-Request") == "true" {
		render(w, gridContent(v))
		return
	}
	render(w, PageLayout("tierscope", dashboardContent(v)))
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	render(w, gridContent(s.currentView(r)))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// The reload replaces the shared snapshot, so it must not die with this request.
	_ = s.Refresh(context.WithoutCancel(r.Context()))
	if r.Header.Get("HX-Request") == "true" {
		render(w, gridContent(s.currentView(r)))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	v := s.currentView(r)
	if v.LoadErr != nil {
		http.Error(w, v.LoadErr.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v.Rows); err != nil {
		utils.Log.Warnf("Failed to encode charts: %v", err)
	}
}

func render(w http.ResponseWriter, n g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := n.Render(w); err != nil {
		utils.Log.Warnf("Failed to render page: %v", err)
	}
}
