package goldprice

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/rs/zerolog"
)

type stubFeed struct {
	calls int
	fn    func(ctx context.Context) (float64, error)
}

func (s *stubFeed) Fetch(ctx context.Context) (float64, error) {
	s.calls++
	return s.fn(ctx)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func newTestService(t *testing.T, feed Feed, clock func() time.Time) Service {
	t.Helper()
	svc, err := NewService(Deps{Feed: feed, CacheTTL: time.Hour, Clock: clock, Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestPricePerGramCachesForAnHour(t *testing.T) {
	feed := &stubFeed{fn: func(ctx context.Context) (float64, error) { return 7200, nil }}
	now := time.Now()
	svc := newTestService(t, feed, func() time.Time { return now })

	if got := svc.PricePerGram(context.Background()); got != 7200 {
		t.Fatalf("got %v, want 7200", got)
	}
	svc.PricePerGram(context.Background())
	now = now.Add(59 * time.Minute)
	svc.PricePerGram(context.Background())
	if feed.calls != 1 {
		t.Fatalf("expected one upstream call inside the TTL window, got %d", feed.calls)
	}

	now = now.Add(2 * time.Minute)
	svc.PricePerGram(context.Background())
	if feed.calls != 2 {
		t.Fatalf("expected refresh after expiry, got %d calls", feed.calls)
	}
}

func TestPricePerGramServesStaleOnFeedFailure(t *testing.T) {
	fail := false
	feed := &stubFeed{fn: func(ctx context.Context) (float64, error) {
		if fail {
			return 0, errors.New("feed down")
		}
		return 6900, nil
	}}
	now := time.Now()
	svc := newTestService(t, feed, func() time.Time { return now })

	svc.PricePerGram(context.Background())

	fail = true
	now = now.Add(2 * time.Hour)
	if got := svc.PricePerGram(context.Background()); got != 6900 {
		t.Fatalf("expected stale price 6900, got %v", got)
	}
}

func TestPricePerGramFallsBackWithNoHistory(t *testing.T) {
	feed := &stubFeed{fn: func(ctx context.Context) (float64, error) {
		return 0, errors.New("feed down")
	}}
	svc := newTestService(t, feed, nil)

	if got := svc.PricePerGram(context.Background()); got != 6500 {
		t.Fatalf("expected fallback 6500, got %v", got)
	}
	if _, ok := svc.Peek(); ok {
		t.Fatal("fallback must not be written to the cache")
	}
}

func TestFeedClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "price": 7105.5}`))
	}))
	defer srv.Close()

	client, err := NewFeedClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewFeedClient: %v", err)
	}
	price, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if price != 7105.5 {
		t.Fatalf("got %v, want 7105.5", price)
	}
}

func TestFeedClientRejectsBadReplies(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"reported failure", http.StatusOK, `{"success": false, "price": 7000}`},
		{"zero price", http.StatusOK, `{"success": true, "price": 0}`},
		{"negative price", http.StatusOK, `{"success": true, "price": -10}`},
		{"server error", http.StatusInternalServerError, `{}`},
		{"malformed body", http.StatusOK, `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client, err := NewFeedClient(srv.URL, time.Second)
			if err != nil {
				t.Fatalf("NewFeedClient: %v", err)
			}
			if _, err := client.Fetch(context.Background()); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
