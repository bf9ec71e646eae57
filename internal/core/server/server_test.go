package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func okAPI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("api:" + r.URL.Path))
	})
}

func TestNewHandler_Routes(t *testing.T) {
	h := NewHandler(slog.New(slog.DiscardHandler), okAPI(), nil)

	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/healthz", http.StatusOK, "ok"},
		{"/readyz", http.StatusOK, "ready"},
		{"/metrics", http.StatusOK, "go_goroutines"},
		{"/v1/encode", http.StatusOK, "api:/encode"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Code != tc.status {
			t.Fatalf("%s: status=%d want %d", tc.path, rr.Code, tc.status)
		}
		if !strings.Contains(rr.Body.String(), tc.body) {
			t.Fatalf("%s: body %q missing %q", tc.path, rr.Body.String(), tc.body)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s: missing X-Request-ID", tc.path)
		}
	}
}

func TestNewHandler_ReadyzReportsCacheDown(t *testing.T) {
	down := pingFunc(func(context.Context) error { return errors.New("redis unreachable") })
	h := NewHandler(slog.New(slog.DiscardHandler), okAPI(), down)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want 503", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "redis unreachable") {
		t.Fatalf("body=%q", rr.Body.String())
	}
}

func TestNewHandler_RecoversPanics(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := NewHandler(slog.New(slog.DiscardHandler), boom, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/anything", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500", rr.Code)
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, addr, slog.New(slog.DiscardHandler), NewHandler(slog.New(slog.DiscardHandler), okAPI(), nil))
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(11 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	err = Run(context.Background(), ln.Addr().String(), slog.New(slog.DiscardHandler), okAPI())
	if err == nil {
		t.Fatal("expected error for address in use")
	}
}
