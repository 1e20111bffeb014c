package daemon

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ferrors "git.home.luguber.info/inful/themesync/internal/foundation/errors"
	"git.home.luguber.info/inful/themesync/internal/logfields"
	"git.home.luguber.info/inful/themesync/internal/state"
	"git.home.luguber.info/inful/themesync/internal/syncer"
	"git.home.luguber.info/inful/themesync/internal/theme"
)

// HTTPServer exposes the synchronizer over HTTP: the shell and frame
// pages, a small mode API, health, and Prometheus metrics.
type HTTPServer struct {
	server       *http.Server
	store        *state.Store
	sync         *syncer.Syncer
	pages        *Pages
	overrides    theme.Overrides
	registry     *prometheus.Registry
	errorAdapter *ferrors.HTTPErrorAdapter
	startTime    time.Time
}

// NewHTTPServer creates the server; Start binds it.
func NewHTTPServer(addr string, store *state.Store, sync *syncer.Syncer, pages *Pages, overrides theme.Overrides, registry *prometheus.Registry) *HTTPServer {
	s := &HTTPServer{
		store:        store,
		sync:         sync,
		pages:        pages,
		overrides:    overrides,
		registry:     registry,
		errorAdapter: ferrors.NewHTTPErrorAdapter(slog.Default()),
		startTime:    time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/mode", s.handleGetMode)
	mux.HandleFunc("POST /api/mode", s.handleSetMode)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /frame", s.handleFrame)
	mux.HandleFunc("GET /{$}", s.handleShell)
	if registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving in the background. ctx becomes the base context
// of every request, so in-flight handlers observe daemon shutdown; the
// owner stops the listener itself via Stop.
func (s *HTTPServer) Start(ctx context.Context) {
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }

	go func() {
		slog.Info("HTTP server listening", slog.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", logfields.Error(err))
		}
	}()
}

// Stop shuts the server down gracefully.
func (s *HTTPServer) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Handler returns the server's handler, used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

type modeResponse struct {
	Mode  string      `json:"mode"`
	Dark  bool        `json:"dark"`
	Theme theme.Value `json:"theme,omitempty"`
}

func (s *HTTPServer) handleGetMode(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Load(r.Context(), s.overrides)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, modeResponse{
		Mode:  string(rec.Current),
		Dark:  rec.Current.IsDark(),
		Theme: rec.ActiveTheme(rec.Current),
	})
}

type setModeRequest struct {
	Mode   string `json:"mode,omitempty"`
	Toggle bool   `json:"toggle,omitempty"`
}

func (s *HTTPServer) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req setModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorAdapter.WriteErrorResponse(w, r,
			ferrors.ValidationError("invalid request body").UserAction().Build())
		return
	}

	var explicit *theme.Mode
	if !req.Toggle {
		mode, err := theme.ParseMode(req.Mode)
		if err != nil {
			s.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		explicit = &mode
	}

	if err := s.sync.UpdateMode(r.Context(), explicit); err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	rec, err := s.store.Load(r.Context(), s.overrides)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, modeResponse{
		Mode:  string(rec.Current),
		Dark:  rec.Current.IsDark(),
		Theme: rec.ActiveTheme(rec.Current),
	})
}

func (s *HTTPServer) handleRender(w http.ResponseWriter, r *http.Request) {
	if err := s.sync.RenderTheme(r.Context()); err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "rendered"})
}

func (s *HTTPServer) handleShell(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, s.pages.ShellHTML)
}

func (s *HTTPServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, s.pages.FrameHTML)
}

func (s *HTTPServer) servePage(w http.ResponseWriter, r *http.Request, render func() ([]byte, error)) {
	body, err := render()
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("failed to encode JSON response", logfields.Error(err))
	}
}
