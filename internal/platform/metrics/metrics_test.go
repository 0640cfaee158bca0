package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	reg := NewRegistry()
	e := echo.New()
	e.Use(reg.Middleware())
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	e.GET("/metrics", reg.Handler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `coach_http_requests_total{method="GET",path="/ping",status="200"} 3`) {
		t.Errorf("expected request counter in exposition, got:\n%s", body)
	}
}

func TestMiddleware_CountsErrors(t *testing.T) {
	reg := NewRegistry()
	e := echo.New()
	e.Use(reg.Middleware())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad")
	})
	e.GET("/metrics", reg.Handler())

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `coach_errors_total{path="/boom",type="handler"} 1`) {
		t.Errorf("expected error counter in exposition")
	}
}
