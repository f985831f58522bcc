package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetIP(t *testing.T) {
	tests := []struct {
		name          string
		xForwardedFor string
		xRealIP       string
		remoteAddr    string
		want          string
	}{
		{"x-forwarded-for single", "192.168.1.1", "", "127.0.0.1:12345", "192.168.1.1"},
		{"x-forwarded-for takes first entry", "192.168.1.1, 10.0.0.1, 172.16.0.1", "", "127.0.0.1:12345", "192.168.1.1"},
		{"x-forwarded-for trims spaces", "  192.168.1.1  ,  10.0.0.1  ", "", "127.0.0.1:12345", "192.168.1.1"},
		{"x-real-ip", "", "192.168.1.1", "127.0.0.1:12345", "192.168.1.1"},
		{"x-forwarded-for beats x-real-ip", "192.168.1.1", "10.0.0.1", "127.0.0.1:12345", "192.168.1.1"},
		{"falls back to remote addr", "", "", "127.0.0.1:12345", "127.0.0.1:12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.xForwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwardedFor)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}
			req.RemoteAddr = tt.remoteAddr

			if got := getIP(req); got != tt.want {
				t.Errorf("getIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func doRequest(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/transactions", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_AllowsBurst(t *testing.T) {
	limiter := NewRateLimiter(1, 3)
	handler := limiter.Limit(okHandler())

	for i := 0; i < 3; i++ {
		rec := doRequest(handler, "192.168.1.1:12345")
		if rec.Code != http.StatusOK {
			t.Errorf("request %d: got status %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	limiter := NewRateLimiter(0.1, 2)
	handler := limiter.Limit(okHandler())

	doRequest(handler, "192.168.1.1:12345")
	doRequest(handler, "192.168.1.1:12345")

	rec := doRequest(handler, "192.168.1.1:12345")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestRateLimiter_TracksIPsIndependently(t *testing.T) {
	limiter := NewRateLimiter(0.1, 1)
	handler := limiter.Limit(okHandler())

	if rec := doRequest(handler, "192.168.1.1:12345"); rec.Code != http.StatusOK {
		t.Errorf("first IP: got status %d, want %d", rec.Code, http.StatusOK)
	}
	if rec := doRequest(handler, "192.168.1.2:12345"); rec.Code != http.StatusOK {
		t.Errorf("second IP: got status %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestLimitAPI_AllowsNormalTraffic(t *testing.T) {
	handler := LimitAPI(okHandler())

	if rec := doRequest(handler, "192.168.1.1:12345"); rec.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusOK)
	}
}
