package authclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	retry "github.com/appleboy/go-httpretry"
	"github.com/classbridge/authclient/credstore"
	"github.com/classbridge/authclient/internal/singleflight"
)

// Builder defines a public type used by the API client.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config    Config
	store     credstore.Store
	navigator Navigator
	transport http.RoundTripper
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL describes the withbaseurl operation and its observable behavior.
//
// WithBaseURL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.BaseURL = baseURL
	return b
}

// WithStore describes the withstore operation and its observable behavior.
//
// WithStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStore(store credstore.Store) *Builder {
	b.store = store
	return b
}

// WithNavigator describes the withnavigator operation and its observable behavior.
//
// WithNavigator does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithNavigator(navigator Navigator) *Builder {
	b.navigator = navigator
	return b
}

// WithTransport sets the wire transport under the credential interceptor.
//
// WithTransport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTransport(transport http.RoundTripper) *Builder {
	b.transport = transport
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse BaseURL: %w", err)
	}

	base := b.transport
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg.HTTP.TransientRetry {
		retryClient, err := retry.NewBackgroundClient(
			retry.WithHTTPClient(&http.Client{Transport: base}),
		)
		if err != nil {
			return nil, fmt.Errorf("create retry client: %w", err)
		}
		base = &retryTransport{rc: retryClient}
	}

	store := b.store
	if store == nil {
		store = credstore.NewMemory()
	}

	client := &Client{
		config:       cfg,
		baseURL:      baseURL,
		exempt:       cfg.Endpoints.exemptFragments(),
		store:        store,
		escalator:    newEscalator(b.navigator),
		refreshGroup: singleflight.New(),
		metrics:      NewMetrics(cfg.Metrics),
		audit:        newAuditDispatcher(cfg.Audit, b.auditSink),
		base:         base,
	}
	client.httpClient = &http.Client{
		Transport: &authTransport{base: base, client: client},
		Timeout:   cfg.HTTP.RequestTimeout,
	}

	b.built = true

	return client, nil
}

// retryTransport adapts the go-httpretry client to http.RoundTripper so the
// credential interceptor can sit on top of network-level retries.
type retryTransport struct {
	rc *retry.Client
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.rc.DoWithContext(req.Context(), req)
}
