package infra

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded once tokens are exhausted, got %v", err)
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	now := time.Now()
	rl.lastRefill = now
	rl.now = func() time.Time { return now }

	if err := rl.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	rl.now = func() time.Time { return now.Add(2 * time.Second) }
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("expected refilled token, got %v", err)
	}
}

func TestPerSecondNil(t *testing.T) {
	if PerSecond(0) != nil {
		t.Error("PerSecond(0) should be nil")
	}
	var rl *RateLimiter
	if err := rl.Wait(context.Background()); err != nil {
		t.Errorf("nil limiter should not block: %v", err)
	}
}

func TestHTTPClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		if r.URL.Query().Get("symbol") != "AAPL" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("no such symbol"))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPConfig{UserAgent: "test-agent", Logger: zerolog.Nop()})

	body, err := c.Get(context.Background(), srv.URL, map[string]string{"symbol": "AAPL"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("unexpected body %q", body)
	}

	_, err = c.Get(context.Background(), srv.URL, map[string]string{"symbol": "ZZZZ"})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", httpErr.StatusCode)
	}
}

func TestHTTPClientKeepsCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/seed":
			http.SetCookie(w, &http.Cookie{Name: "B", Value: "session", Path: "/"})
		case "/check":
			if c, err := r.Cookie("B"); err != nil || c.Value != "session" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPConfig{Logger: zerolog.Nop()})
	if err := c.Touch(context.Background(), srv.URL+"/seed"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(context.Background(), srv.URL+"/check", nil); err != nil {
		t.Errorf("expected cookie to be replayed: %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("warn", "json", &buf)
	log.Info().Msg("hidden")
	log.Warn().Str("ticker", "AAPL").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, `"ticker":"AAPL"`) {
		t.Errorf("expected JSON field in output: %s", out)
	}
}

func TestNewLoggerDefaults(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("nonsense", "text", &buf)
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info", log.GetLevel())
	}
	log.Info().Msg("console")
	if !strings.Contains(buf.String(), "console") {
		t.Errorf("expected console output, got %q", buf.String())
	}
}
