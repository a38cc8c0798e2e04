package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func limitEcho(rdb *redis.Client, limit int) *echo.Echo {
	e := echo.New()
	e.POST("/lookup", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, FixedWindowLimit(rdb, "lookup", limit, time.Hour))
	return e
}

func lookupFrom(e *echo.Echo, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/lookup", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set(echo.HeaderXForwardedFor, forwardedFor)
		req.Header.Set(echo.HeaderXRealIP, forwardedFor)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFixedWindowLimit(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	e := limitEcho(rdb, 2)

	for i := 0; i < 2; i++ {
		if rec := doReq(t, e, http.MethodPost, "/lookup", nil, nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d => %d", i, rec.Code)
		}
	}
	rec := doReq(t, e, http.MethodPost, "/lookup", nil, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request => %d, want 429", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("remaining = %q", rec.Header().Get("X-RateLimit-Remaining"))
	}

	// other clients have their own budget
	if rec := lookupFrom(e, "198.51.100.7:5000", ""); rec.Code != http.StatusOK {
		t.Fatalf("other ip => %d", rec.Code)
	}

	for _, k := range mr.Keys() {
		if ttl := mr.TTL(k); ttl <= 0 || ttl > time.Hour {
			t.Fatalf("key %s ttl = %v", k, ttl)
		}
	}
}

func TestFixedWindowLimit_FailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	e := limitEcho(rdb, 1)
	for i := 0; i < 3; i++ {
		if rec := doReq(t, e, http.MethodPost, "/lookup", nil, nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d => %d, want 200 when redis is down", i, rec.Code)
		}
	}
}

func TestFixedWindowLimit_IgnoresSpoofedForwardingHeaders(t *testing.T) {
	direct, err := ClientIPExtractor(nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name      string
		extractor echo.IPExtractor
	}{
		{"echo default", nil},
		{"direct extractor", direct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rdb := newMiniredisClient(t)
			e := limitEcho(rdb, 1)
			e.IPExtractor = tt.extractor

			if rec := lookupFrom(e, "203.0.113.9:4000", "10.0.0.1"); rec.Code != http.StatusOK {
				t.Fatalf("first => %d", rec.Code)
			}
			// a fresh forwarding header per request must not buy a fresh budget
			if rec := lookupFrom(e, "203.0.113.9:4001", "10.0.0.2"); rec.Code != http.StatusTooManyRequests {
				t.Fatalf("spoofed => %d, want 429", rec.Code)
			}
		})
	}
}

func TestClientIPExtractor_TrustedProxy(t *testing.T) {
	ex, err := ClientIPExtractor([]string{"192.0.2.0/24"})
	if err != nil {
		t.Fatal(err)
	}

	viaProxy := httptest.NewRequest(http.MethodGet, "/", nil)
	viaProxy.RemoteAddr = "192.0.2.10:443"
	viaProxy.Header.Set(echo.HeaderXForwardedFor, "198.51.100.7")
	if got := ex(viaProxy); got != "198.51.100.7" {
		t.Fatalf("behind trusted proxy = %q", got)
	}

	direct := httptest.NewRequest(http.MethodGet, "/", nil)
	direct.RemoteAddr = "203.0.113.9:4000"
	direct.Header.Set(echo.HeaderXForwardedFor, "198.51.100.7")
	if got := ex(direct); got != "203.0.113.9" {
		t.Fatalf("untrusted peer = %q", got)
	}

	if _, err := ClientIPExtractor([]string{"not-a-cidr"}); err == nil {
		t.Fatalf("want error for bad CIDR")
	}
}
