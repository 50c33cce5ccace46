package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/cartquote-backend/pkg/config"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: config.AppEnvDev}}
}

func TestHealthLive(t *testing.T) {
	resp := httptest.NewRecorder()
	HealthLive(testConfig()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Cart-Env") != config.AppEnvDev {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-Cart-Env"))
	}
}

func TestHealthReadyAllUp(t *testing.T) {
	deps := map[string]Pinger{
		"db":    pingFunc(func(context.Context) error { return nil }),
		"redis": pingFunc(func(context.Context) error { return nil }),
	}
	resp := httptest.NewRecorder()
	HealthReady(testConfig(), nil, deps).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"redis":"up"`) {
		t.Fatalf("expected redis check in body, got %s", resp.Body.String())
	}
}

func TestHealthReadyDependencyDown(t *testing.T) {
	deps := map[string]Pinger{
		"db": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	}
	resp := httptest.NewRecorder()
	HealthReady(testConfig(), nil, deps).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "connection refused") {
		t.Fatalf("dependency error leaked: %s", resp.Body.String())
	}
}
