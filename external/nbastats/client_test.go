package nbastats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient:        server.Client(),
		BaseURL:           server.URL,
		APIKey:            "test-key",
		Timeout:           5 * time.Second,
		MaxRetries:        2,
		RequestsPerMinute: 6000,
		PageSize:          25,
		CircuitBreaker:    resilience.CircuitBreakerConfig{Enabled: false},
	})
	return client, server
}

func TestClient_FetchTeams_FollowsCursor(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"data":[{"id":1,"full_name":"Boston Celtics","abbreviation":"BOS","city":"Boston","conference":"East","division":"Atlantic"}],"meta":{"next_cursor":25,"per_page":25}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":2,"full_name":"Denver Nuggets","abbreviation":"DEN","city":"Denver","conference":"West","division":"Northwest"}],"meta":{"per_page":25}}`))
	})

	client, _ := newTestClient(t, handler)
	teams, _, err := client.FetchTeams(context.Background())
	if err != nil {
		t.Fatalf("FetchTeams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("got %d teams, want 2", len(teams))
	}
	if teams[1].Abbreviation != "DEN" {
		t.Fatalf("unexpected second team: %+v", teams[1])
	}
}

func TestClient_RateLimitRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":7,"first_name":"Nikola","last_name":"Jokic","position":"C"}],"meta":{}}`))
	})

	client, _ := newTestClient(t, handler)
	page, err := client.FetchPlayers(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchPlayers: %v", err)
	}
	if len(page.Players) != 1 {
		t.Fatalf("got %d players, want 1", len(page.Players))
	}
	if page.Meta.Retries != 1 {
		t.Fatalf("got %d retries recorded, want 1", page.Meta.Retries)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("server saw %d calls, want 2", got)
	}
}

func TestClient_RateLimitExhaustsRetries(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	client, _ := newTestClient(t, handler)
	_, err := client.FetchPlayers(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !datasync.IsRateLimited(err) {
		t.Fatalf("expected rate-limited error, got %v", err)
	}
}

func TestClient_UnauthorizedIsFatalAndNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	client, _ := newTestClient(t, handler)
	_, err := client.FetchPlayers(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for unauthorized response")
	}
	if !datasync.IsFatal(err) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("server saw %d calls, want 1 (no retries)", got)
	}
}

func TestClient_SendsAuthorizationHeader(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[],"meta":{}}`))
	})

	client, _ := newTestClient(t, handler)
	if _, err := client.FetchGames(context.Background(), 2025, nil); err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
}

func TestClient_GameStatsQuery(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("game_ids[]"); got != "99" {
			t.Errorf("unexpected game_ids[] %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":1,"min":"34","pts":30,"reb":12,"ast":9,"player":{"id":7,"first_name":"Nikola","last_name":"Jokic"},"game":{"id":99,"date":"2025-11-02","season":2025,"status":"Final"},"team":{"id":2}}],"meta":{}}`))
	})

	client, _ := newTestClient(t, handler)
	page, err := client.FetchGameStats(context.Background(), 99, nil)
	if err != nil {
		t.Fatalf("FetchGameStats: %v", err)
	}
	if len(page.Stats) != 1 {
		t.Fatalf("got %d stats, want 1", len(page.Stats))
	}
	if page.Stats[0].Points != 30 {
		t.Fatalf("unexpected points %v", page.Stats[0].Points)
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText("dial failed for ?api_key=secret-123 with key secret-123", "secret-123")
	if got != "dial failed for ?api_key=REDACTED with key REDACTED" {
		t.Fatalf("unexpected sanitized text: %q", got)
	}
}
