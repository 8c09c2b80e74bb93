package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORSMiddlewareAllowsConfiguredOrigin(t *testing.T) {
	app := newTestAppWithOrigins(t, []string{"https://blog.example.com"})

	request := httptest.NewRequest(http.MethodOptions, "/reader/like/1", http.NoBody)
	request.Header.Set("Origin", "https://blog.example.com")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)
	request.Header.Set("Access-Control-Request-Headers", "Content-Type")

	recorder := httptest.NewRecorder()
	app.handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, recorder.Code)
	}
	if origin := recorder.Header().Get("Access-Control-Allow-Origin"); origin != "https://blog.example.com" {
		t.Fatalf("unexpected allowed origin %q", origin)
	}
	allowMethods := recorder.Header().Get("Access-Control-Allow-Methods")
	if !strings.Contains(allowMethods, http.MethodDelete) {
		t.Fatalf("expected DELETE to be allowed, got %q", allowMethods)
	}
	if recorder.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("expected credentials to be enabled")
	}
}

func TestCORSMiddlewareDisabledWithoutOrigins(t *testing.T) {
	app := newTestApp(t)

	request := httptest.NewRequest(http.MethodGet, "/reader/homepage", http.NoBody)
	request.Header.Set("Origin", "https://blog.example.com")

	recorder := httptest.NewRecorder()
	app.handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if origin := recorder.Header().Get("Access-Control-Allow-Origin"); origin != "" {
		t.Fatalf("expected no CORS headers, got %q", origin)
	}
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	app := newTestApp(t)

	request := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	request.Header.Set(requestIDHeader, "req-123")
	recorder := httptest.NewRecorder()
	app.handler.ServeHTTP(recorder, request)
	if got := recorder.Header().Get(requestIDHeader); got != "req-123" {
		t.Fatalf("expected inbound request id to be echoed, got %q", got)
	}

	recorder = httptest.NewRecorder()
	app.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	if got := recorder.Header().Get(requestIDHeader); len(got) != 36 {
		t.Fatalf("expected a generated uuid request id, got %q", got)
	}
}
