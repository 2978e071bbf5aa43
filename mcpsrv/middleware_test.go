package mcpsrv

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAuthMiddleware(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{APIKey: "secret", RPS: 100, Burst: 100}, &ServerOptions{})
	defer srv.Close()

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "bearer", headers: map[string]string{"Authorization": "Bearer secret"}, want: http.StatusOK},
		{name: "lowercase scheme", headers: map[string]string{"Authorization": "bearer secret"}, want: http.StatusOK},
		{name: "x-api-key", headers: map[string]string{"X-API-Key": "secret"}, want: http.StatusOK},
		{name: "malformed bearer", headers: map[string]string{"Authorization": "Bearer"}, want: http.StatusUnauthorized},
		{name: "wrong key", headers: map[string]string{"X-API-Key": "nope"}, want: http.StatusUnauthorized},
		{name: "basic scheme", headers: map[string]string{"Authorization": "Basic secret"}, want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := postInitialize(srv.URL+"/mcp", tt.headers)
			if err != nil {
				t.Fatalf("initialize request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestOriginAllowlistMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    int
	}{
		{name: "no allowlist", origin: "https://evil.example", want: http.StatusForbidden},
		{name: "not listed", allowed: []string{"https://app.example"}, origin: "https://evil.example", want: http.StatusForbidden},
		{name: "listed", allowed: []string{"https://app.example"}, origin: "https://app.example", want: http.StatusOK},
		{name: "no origin header", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := startTestServer(newFakeSource(), Config{AllowedOrigins: tt.allowed}, &ServerOptions{})
			defer srv.Close()

			var headers map[string]string
			if tt.origin != "" {
				headers = map[string]string{"Origin": tt.origin}
			}
			resp, err := postInitialize(srv.URL+"/mcp", headers)
			if err != nil {
				t.Fatalf("initialize request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestOriginAllowlistPreflight(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{AllowedOrigins: []string{"https://app.example"}}, &ServerOptions{})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{}, &ServerOptions{})
	defer srv.Close()

	resp, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("initialize request failed: %v", err)
	}
	resp.Body.Close()
	if len(resp.Header.Get(requestIDHeader)) != 36 {
		t.Fatalf("expected generated uuid, got %q", resp.Header.Get(requestIDHeader))
	}

	resp, err = postInitialize(srv.URL+"/mcp", map[string]string{requestIDHeader: "caller-id"})
	if err != nil {
		t.Fatalf("initialize request failed: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "caller-id" {
		t.Fatalf("expected caller id echoed, got %q", got)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{RPS: 1, Burst: 1}, &ServerOptions{})
	defer srv.Close()

	resp1, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	defer resp1.Body.Close()
	if resp1.StatusCode != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.StatusCode)
	}

	resp2, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected second request 429, got %d", resp2.StatusCode)
	}
}

func TestRateLimitRefill(t *testing.T) {
	bucket := newTokenBucket(20, 1)

	if !bucket.Allow() {
		t.Fatal("expected the first token")
	}
	if bucket.Allow() {
		t.Fatal("expected the bucket to be empty")
	}
	time.Sleep(60 * time.Millisecond)
	if !bucket.Allow() {
		t.Fatal("expected a token after refill")
	}
}

func TestStatelessGetMethod(t *testing.T) {
	handler := NewHandler(NewServer(newFakeSource(), "dev", &ServerOptions{}), StreamableOptions(Config{Stateless: true}))
	srv := httptest.NewServer(handler)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
