package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBotHealthCheck_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","ready":true}`))
	}))
	defer srv.Close()

	svc := &BotHealthService{BaseURL: srv.URL, Timeout: time.Second}
	res, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.OK || res.Status != http.StatusOK {
		t.Fatalf("unexpected result: %+v", res)
	}
	if string(res.Body) != `{"status":"ok","ready":true}` {
		t.Fatalf("body not passed through verbatim: %s", res.Body)
	}
}

func TestBotHealthCheck_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := &BotHealthService{BaseURL: srv.URL, Timeout: time.Second}
	res, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("upstream non-2xx is a result, not an error: %v", err)
	}
	if res.OK {
		t.Fatal("expected OK=false")
	}
	if res.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected upstream status 503, got %d", res.Status)
	}
	if res.Err == "" {
		t.Fatal("expected a synthesized error description")
	}
}

func TestBotHealthCheck_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listening anymore

	svc := &BotHealthService{BaseURL: url, Timeout: time.Second}
	_, err := svc.Check(context.Background())
	if !errors.Is(err, ErrBotUnreachable) {
		t.Fatalf("expected ErrBotUnreachable, got %v", err)
	}
}

func TestBotHealthCheck_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	svc := &BotHealthService{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}
	start := time.Now()
	_, err := svc.Check(context.Background())
	if !errors.Is(err, ErrBotUnreachable) {
		t.Fatalf("expected ErrBotUnreachable on timeout, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout not bounded")
	}
}

func TestBotHealthService_URLNormalization(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"http://localhost:3002", "http://localhost:3002/health"},
		{"http://localhost:3002/", "http://localhost:3002/health"},
		{"http://localhost:3002/health", "http://localhost:3002/health"},
		{"  http://localhost:3002  ", "http://localhost:3002/health"},
	}
	for _, tc := range cases {
		svc := &BotHealthService{BaseURL: tc.base}
		if got := svc.healthURL(); got != tc.want {
			t.Errorf("healthURL(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}
