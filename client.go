package authclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/classbridge/authclient/credstore"
	"github.com/classbridge/authclient/internal/singleflight"
)

// Client defines a public type used by the API client.
//
// Client is the session/credential manager for the ClassBridge API: it owns
// the credential store, the refresh coordinator, and the escalation handler,
// and exposes an HTTP client whose transport attaches credentials, refreshes
// them on expiry, and replays the original call once. Construct it through
// [Builder.Build]; after that all methods are safe for concurrent use.
type Client struct {
	config       Config
	baseURL      *url.URL
	exempt       []string
	store        credstore.Store
	escalator    *escalator
	refreshGroup *singleflight.Coordinator
	metrics      *Metrics
	audit        *auditDispatcher
	base         http.RoundTripper
	httpClient   *http.Client
}

// HTTPClient returns an *http.Client whose transport performs credential
// attachment, single-flight refresh, and one transparent retry. Hand this to
// any code that speaks plain net/http against the ClassBridge API.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Transport wraps base with the credential interceptor. A nil base uses the
// wire transport the client was built with. Use this to compose the
// interceptor under other RoundTripper middleware.
func (c *Client) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = c.base
	}
	return &authTransport{base: base, client: c}
}

// Do sends req through the credentialed transport.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c == nil || c.httpClient == nil {
		return nil, ErrClientNotReady
	}
	return c.httpClient.Do(req)
}

// Close describes the close operation and its observable behavior.
//
// Close flushes and stops the audit dispatcher. The client must not be used
// after Close.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

// SetCredentials writes a credential pair into the store, typically after a
// federated sign-in completed outside this client. It re-arms escalation for
// the new authenticated episode.
func (c *Client) SetCredentials(ctx context.Context, access, refresh string) error {
	if err := c.store.Set(ctx, credstore.Pair{Access: access, Refresh: refresh}); err != nil {
		return err
	}
	c.escalator.arm()
	return nil
}

// ClearCredentials wipes the store without contacting the server and without
// a navigation side effect. Use [Client.Logout] for the full logout flow.
func (c *Client) ClearCredentials(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Credentials returns the currently stored pair.
func (c *Client) Credentials(ctx context.Context) (credstore.Pair, error) {
	return c.store.Get(ctx)
}

// escalate runs the unrecoverable-failure path: wipe credentials, signal the
// navigator once per episode, count and audit the navigation.
func (c *Client) escalate(ctx context.Context, path string, cause error) {
	if !c.escalator.fire(ctx, c.store) {
		return
	}
	c.metricInc(MetricEscalation)
	c.emitAudit(ctx, auditEventEscalation, path, false, cause, nil)
}

// endpoint resolves a rooted path against the configured base URL.
func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = path
	u.RawQuery = ""
	return u.String()
}
