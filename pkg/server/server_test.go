package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvecard/curvecard/pkg/card"
	"github.com/curvecard/curvecard/pkg/homeassistant"
	"github.com/curvecard/curvecard/pkg/storage"
)

func newTestServer(t *testing.T, ha homeassistant.Client, db storage.Database) *Server {
	t.Helper()
	cfg := card.Config{Entity: homeassistant.EntityChartSensor}
	g := card.NewGateway(cfg, ha, db)
	c, err := card.New(cfg, ha, g)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return &Server{
		ha:         ha,
		storage:    db,
		card:       c,
		gateway:    g,
		bypassAuth: true,
		serverName: "test",
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, new(homeassistant.MockClient), storage.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, new(homeassistant.MockClient), storage.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "test", w.Header().Get("Server"))
}

func TestWebSPAFallback(t *testing.T) {
	srv := newTestServer(t, new(homeassistant.MockClient), storage.NewMemory())
	handler := srv.setupHandler()

	// unknown paths fall back to index.html
	req := httptest.NewRequest(http.MethodGet, "/some/deep/route", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<html")

	// .well-known never falls back
	req = httptest.NewRequest(http.MethodGet, "/.well-known/whatever", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebCacheControl(t *testing.T) {
	srv := newTestServer(t, new(homeassistant.MockClient), storage.NewMemory())
	srv.webCacheDuration = 5 * time.Minute

	req := httptest.NewRequest(http.MethodGet, "/card.css", nil)
	w := httptest.NewRecorder()
	srv.setupHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))
}
