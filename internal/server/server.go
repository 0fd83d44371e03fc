// Package server exposes sentiment scoring over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tsawler/insight"
	"github.com/tsawler/insight/internal/config"
)

// Router picks the Analyzer for a text. *insight.Multilingual implements it.
type Router interface {
	Detect(text string) insight.Language
	Analyzer(lang insight.Language) (*insight.Analyzer, error)
	Languages() []insight.Language
	Reload() error
}

// Handler serves the HTTP API.
type Handler struct {
	router       Router
	log          *slog.Logger
	version      string
	maxBodyBytes int64
	mux          *http.ServeMux
	chain        http.Handler
}

// NewHandler creates a Handler. maxBodyBytes <= 0 means 1 MiB.
func NewHandler(router Router, logger *slog.Logger, version string, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	h := &Handler{
		router:       router,
		log:          logger.With("handler", "sentiment"),
		version:      version,
		maxBodyBytes: maxBodyBytes,
		mux:          http.NewServeMux(),
	}
	h.mux.HandleFunc("POST /v1/score", h.Score)
	h.mux.HandleFunc("POST /v1/analyze", h.Analyze)
	h.mux.HandleFunc("POST /v1/reload", h.Reload)
	h.mux.HandleFunc("GET /healthz", h.Health)
	h.chain = requestID(accessLog(h.log)(h.mux))
	return h
}

// ServeHTTP runs the request through the request-id and access-log
// middleware.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.chain.ServeHTTP(w, r)
}

// ScoreRequest is the body of /v1/score and /v1/analyze. Language is a code
// such as "en"; empty or "auto" detects it.
type ScoreRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	Segment  *bool  `json:"segment,omitempty"`
}

// ScoreResponse is the body returned by /v1/score.
type ScoreResponse struct {
	Language insight.Language `json:"language"`
	Category insight.Class    `json:"category"`
	Scores   insight.Scores   `json:"scores"`
}

// HealthResponse is the body returned by /healthz.
type HealthResponse struct {
	Status    string             `json:"status"`
	Version   string             `json:"version"`
	Languages []insight.Language `json:"languages"`
	Timestamp time.Time          `json:"timestamp"`
}

// Score classifies one text.
// POST /v1/score {"text": "..."}
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	lang, analyzer, ok := h.pick(w, req)
	if !ok {
		return
	}

	scores := analyzer.Score(req.Text)
	writeJSON(w, http.StatusOK, ScoreResponse{
		Language: lang,
		Category: scores.Category(),
		Scores:   scores,
	})
}

// Analyze scores a text as a whole and sentence by sentence.
// POST /v1/analyze {"text": "...", "segment": true}
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	_, analyzer, ok := h.pick(w, req)
	if !ok {
		return
	}

	opts := []insight.DocOpt{insight.WithContext(r.Context())}
	if req.Segment != nil {
		opts = append(opts, insight.WithSegmentation(*req.Segment))
	}
	doc, err := analyzer.AnalyzeDocument(req.Text, opts...)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusServiceUnavailable, "analysis cancelled")
		return
	}
	if err != nil {
		h.log.ErrorContext(r.Context(), "analyze document", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Reload rebuilds every model from its lexicon.
// POST /v1/reload
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.router.Reload(); err != nil {
		h.log.ErrorContext(r.Context(), "reload lexicons", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "reload failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Languages: h.router.Languages(),
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ScoreRequest, bool) {
	var req ScoreRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return req, false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return req, false
	}
	return req, true
}

func (h *Handler) pick(w http.ResponseWriter, req ScoreRequest) (insight.Language, *insight.Analyzer, bool) {
	var lang insight.Language
	switch code := strings.TrimSpace(req.Language); code {
	case "", "auto":
		lang = h.router.Detect(req.Text)
	default:
		parsed, err := insight.ParseLanguage(code)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return "", nil, false
		}
		lang = parsed
	}

	analyzer, err := h.router.Analyzer(lang)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return "", nil, false
	}
	return lang, analyzer, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Run serves h on cfg's address until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, cfg config.ServerConfig, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
