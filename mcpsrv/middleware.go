package mcpsrv

import (
	"crypto/subtle"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-Id"

// WrapMCPHandler guards next with the origin allowlist, the rate limiter and
// the API key check, in that order. Every response carries an X-Request-Id,
// reusing the caller's when present.
func WrapMCPHandler(next http.Handler, cfg Config, logger *logrus.Logger) http.Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	log := logger.WithField("component", "http")

	rps := cfg.RPS
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	allowedOrigins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	limiter := newTokenBucket(rps, burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		reqLog := log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"remote":     r.RemoteAddr,
		})

		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			if _, ok := allowedOrigins[origin]; !ok {
				reqLog.WithField("origin", origin).Warn("Rejected origin")
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization, X-API-Key, X-Request-Id, Mcp-Protocol-Version, Mcp-Session-Id")
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-Id, Mcp-Session-Id")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		if !limiter.Allow() {
			reqLog.Warn("Rate limit exceeded")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		if cfg.APIKey != "" && !validAPIKey(r, cfg.APIKey) {
			reqLog.Warn("Rejected API key")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		reqLog.Debug("Serving MCP request")
		next.ServeHTTP(w, r)
	})
}

// validAPIKey accepts the key as X-API-Key or as a bearer token.
func validAPIKey(r *http.Request, expected string) bool {
	if secureEqual(strings.TrimSpace(r.Header.Get("X-API-Key")), expected) {
		return true
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return false
	}
	return secureEqual(strings.TrimSpace(token), expected)
}

func secureEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

type tokenBucket struct {
	mu     sync.Mutex
	rps    float64
	burst  float64
	tokens float64
	last   time.Time
}

func newTokenBucket(rps float64, burst int) *tokenBucket {
	b := float64(burst)
	return &tokenBucket{
		rps:    rps,
		burst:  b,
		tokens: b,
		last:   time.Now(),
	}
}

func (b *tokenBucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens = min(b.burst, b.tokens+now.Sub(b.last).Seconds()*b.rps)
	b.last = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
