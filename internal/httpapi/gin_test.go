package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGinEngine_ServesRobots(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := mustConfig(t, "env: production\nenvs:\n  production:\n    \"*\": []\n", "")
	engine := NewGinEngine(Options{Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	req := httptest.NewRequest(http.MethodGet, "http://example.com/robots.txt", nil)
	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
	if got, want := rr.Body.String(), "User-agent: *\nDisallow:\n"; got != want {
		t.Fatalf("body=%q, want %q", got, want)
	}
	if got, want := rr.Header().Get("Content-Type"), "text/plain; charset=utf-8"; got != want {
		t.Fatalf("Content-Type=%q, want %q", got, want)
	}
}

func TestRegisterGin_OnGroupWithOtherRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })
	RegisterGin(engine, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	for path, want := range map[string]string{
		"/":           "home",
		"/robots.txt": "User-agent: *\nDisallow: /\n",
		"/healthz":    "ok\n",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		engine.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK || rr.Body.String() != want {
			t.Fatalf("%s: status=%d body=%q, want %q", path, rr.Code, rr.Body.String(), want)
		}
	}
}
