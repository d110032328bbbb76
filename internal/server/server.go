package server

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/model"

	"github.com/go-chi/chi/v5"
)

//go:embed index.html
var pageFS embed.FS

// Server serves the dashboard page and the chart-data API.
type Server struct {
	analyzer *analyzer.Service
	cfg      *config.Config
	page     *template.Template
}

// New creates a Server around an analyzer service.
func New(svc *analyzer.Service, cfg *config.Config) *Server {
	return &Server{
		analyzer: svc,
		cfg:      cfg,
		page:     template.Must(template.ParseFS(pageFS, "index.html")),
	}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/api/analyze", s.handleAnalyze)
	r.Get("/api/health", s.handleHealth)

	return r
}

// HTTPServer wraps the router in an http.Server with sane timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s (%s)", r.Method, r.URL.Path, time.Since(started).Round(time.Millisecond))
	})
}

type pageData struct {
	ShortWindow int
	LongWindow  int
	TrendWindow int
	Start       string
	End         string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	data := pageData{
		ShortWindow: s.cfg.Defaults.ShortWindow,
		LongWindow:  s.cfg.Defaults.LongWindow,
		TrendWindow: s.cfg.Defaults.TrendWindow,
		Start:       now.AddDate(0, 0, -s.cfg.Defaults.RangeDays).Format(model.DateFormat),
		End:         now.Format(model.DateFormat),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		log.Printf("[ERROR] render page: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		// Analyze only fails on invalid input; everything else is per-ticker.
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// parseRequest maps query parameters onto an analyzer request, filling gaps
// with configured defaults. Validation proper happens in the analyzer.
func (s *Server) parseRequest(r *http.Request) (analyzer.Request, error) {
	q := r.URL.Query()
	now := time.Now()

	req := analyzer.Request{
		Tickers:     strings.Split(q.Get("tickers"), ","),
		Start:       now.AddDate(0, 0, -s.cfg.Defaults.RangeDays),
		End:         now,
		ShortWindow: s.cfg.Defaults.ShortWindow,
		LongWindow:  s.cfg.Defaults.LongWindow,
		TrendWindow: s.cfg.Defaults.TrendWindow,
		WithReturns: q.Get("returns") == "true",
		WithTrend:   q.Get("trend") == "true",
	}

	var err error
	if v := q.Get("start"); v != "" {
		if req.Start, err = time.Parse(model.DateFormat, v); err != nil {
			return req, err
		}
	}
	if v := q.Get("end"); v != "" {
		if req.End, err = time.Parse(model.DateFormat, v); err != nil {
			return req, err
		}
	}
	if v := q.Get("short"); v != "" {
		if req.ShortWindow, err = strconv.Atoi(v); err != nil {
			return req, err
		}
	}
	if v := q.Get("long"); v != "" {
		if req.LongWindow, err = strconv.Atoi(v); err != nil {
			return req, err
		}
	}
	if v := q.Get("trend_window"); v != "" {
		if req.TrendWindow, err = strconv.Atoi(v); err != nil {
			return req, err
		}
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

// Shutdown drains the given http.Server within the timeout.
func Shutdown(srv *http.Server, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[WARN] server shutdown: %v", err)
	}
}
