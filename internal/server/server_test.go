package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/insight"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	router, err := insight.NewMultilingual(insight.English, map[insight.Language]*insight.Analyzer{
		insight.English: insight.Default(),
	})
	require.NoError(t, err)
	return NewHandler(router, slog.New(slog.NewTextHandler(io.Discard, nil)), "test-version", 0)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestScore(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/v1/score", `{"text": "Weather today is rubbish"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var resp ScoreResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, insight.English, resp.Language)
	assert.Equal(t, insight.Negative, resp.Category)
	require.Len(t, resp.Scores, 3)
	assert.Equal(t, insight.Negative, resp.Scores[0].Class)
	assert.InDelta(t, 0.5, resp.Scores[0].Score, 1e-9)
}

func TestScore_ExplicitLanguage(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/v1/score", `{"text": "He is very talented", "language": "en"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/score", `{"text": "Il est talentueux", "language": "fr"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/score", `{"text": "x", "language": "klingon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScore_BadRequests(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{"text":`, http.StatusBadRequest},
		{"empty text", `{"text": "   "}`, http.StatusBadRequest},
		{"missing text", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/score", tt.body)
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestScore_BodyTooLarge(t *testing.T) {
	t.Parallel()
	router, err := insight.NewMultilingual(insight.English, map[insight.Language]*insight.Analyzer{
		insight.English: insight.Default(),
	})
	require.NoError(t, err)
	h := NewHandler(router, slog.New(slog.NewTextHandler(io.Discard, nil)), "v", 16)

	rec := do(t, h, http.MethodPost, "/v1/score", `{"text": "`+strings.Repeat("a", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestScore_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	rec := do(t, newTestHandler(t), http.MethodGet, "/v1/score", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestAnalyze(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/v1/analyze",
		`{"text": "The food is not good. He is very talented."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc insight.DocumentSentiment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, insight.Negative, doc.Sentences[0].Class)
	assert.Equal(t, insight.Positive, doc.Sentences[1].Class)

	rec = do(t, h, http.MethodPost, "/v1/analyze",
		`{"text": "The food is not good. He is very talented.", "segment": false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	doc = insight.DocumentSentiment{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	assert.Empty(t, doc.Sentences)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	rec := do(t, newTestHandler(t), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test-version", resp.Version)
	assert.Equal(t, []insight.Language{insight.English}, resp.Languages)
	assert.False(t, resp.Timestamp.IsZero())
}

type stubRouter struct {
	reloadErr error
}

func (s *stubRouter) Detect(string) insight.Language { return insight.English }
func (s *stubRouter) Analyzer(insight.Language) (*insight.Analyzer, error) {
	return insight.Default(), nil
}
func (s *stubRouter) Languages() []insight.Language { return []insight.Language{insight.English} }
func (s *stubRouter) Reload() error                  { return s.reloadErr }

func TestReload(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := NewHandler(&stubRouter{}, logger, "v", 0)
	rec := do(t, h, http.MethodPost, "/v1/reload", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	h = NewHandler(&stubRouter{reloadErr: errors.New("lexicon gone")}, logger, "v", 0)
	rec = do(t, h, http.MethodPost, "/v1/reload", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "lexicon gone")
}
