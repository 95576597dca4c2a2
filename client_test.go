package authclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type navCounter struct {
	fired atomic.Int32
}

func (n *navCounter) NavigateToLogin(context.Context) {
	n.fired.Add(1)
}

func (n *navCounter) Count() int {
	return int(n.fired.Load())
}

// newTestClient builds a client against an httptest server with metrics on
// and a counting navigator. mutate may adjust the config before Build.
func newTestClient(t *testing.T, handler http.Handler, mutate func(*Config)) (*Client, *navCounter) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := defaultConfig()
	cfg.BaseURL = srv.URL
	if mutate != nil {
		mutate(&cfg)
	}

	nav := &navCounter{}
	client, err := New().
		WithConfig(cfg).
		WithNavigator(nav).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	return client, nav
}

func counterValue(c *Client, id MetricID) uint64 {
	return c.MetricsSnapshot().Counters[id]
}

func testJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return signed
}

func TestCredentialRoundTrip(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler(), nil)
	ctx := context.Background()

	if err := c.SetCredentials(ctx, "a1", "r1"); err != nil {
		t.Fatalf("SetCredentials failed: %v", err)
	}
	pair, err := c.Credentials(ctx)
	if err != nil {
		t.Fatalf("Credentials failed: %v", err)
	}
	if pair.Access != "a1" || pair.Refresh != "r1" {
		t.Fatalf("unexpected pair %+v", pair)
	}

	if err := c.ClearCredentials(ctx); err != nil {
		t.Fatalf("ClearCredentials failed: %v", err)
	}
	pair, err = c.Credentials(ctx)
	if err != nil {
		t.Fatalf("Credentials after clear failed: %v", err)
	}
	if pair.Access != "" || pair.Refresh != "" {
		t.Fatalf("expected empty pair after clear, got %+v", pair)
	}
}

func TestEndpointResolution(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler(), nil)

	got := c.endpoint("/api/auth/refresh")
	if got != c.config.BaseURL+"/api/auth/refresh" {
		t.Fatalf("unexpected endpoint %q", got)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client

	if _, err := c.Do(nil); err == nil {
		t.Fatal("expected error from nil client Do")
	}
	c.Close()
	if got := c.AuditDropped(); got != 0 {
		t.Fatalf("expected zero dropped, got %d", got)
	}
	snap := c.MetricsSnapshot()
	if len(snap.Counters) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestTransportComposition(t *testing.T) {
	var sawMarker atomic.Bool
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test-Marker") == "yes" {
			sawMarker.Store(true)
		}
		w.WriteHeader(http.StatusOK)
	}), nil)

	marker := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		req.Header.Set("X-Test-Marker", "yes")
		return http.DefaultTransport.RoundTrip(req)
	})

	httpClient := &http.Client{Transport: c.Transport(marker)}
	req, _ := http.NewRequest(http.MethodGet, c.config.BaseURL+"/api/classes", http.NoBody)
	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	resp.Body.Close()

	if !sawMarker.Load() {
		t.Fatal("expected composed transport to run under the interceptor")
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
