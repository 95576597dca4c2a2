package authclient

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

// authTransport is the request interceptor: it attaches the stored access
// credential as a bearer header, classifies failed responses, and on expiry
// hands control to the refresh coordinator before replaying the original
// call exactly once.
type authTransport struct {
	base   http.RoundTripper
	client *Client
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	c := t.client
	exempt := c.isExempt(req.URL.Path)

	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		requestID = req.Header.Get(headerRequestID)
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	attempt, err := t.prepare(req, requestID)
	if err != nil {
		return nil, err
	}

	// Attach the current access credential. Absence is not an error here;
	// the call simply goes out unauthenticated.
	pair, err := c.store.Get(ctx)
	if err == nil && pair.Access != "" {
		if !exempt && c.accessExpiresSoon(pair.Access) {
			c.metricInc(MetricProactiveRefresh)
			if access, rerr := c.refreshAccess(ctx); rerr == nil {
				pair.Access = access
			}
		}
		attempt.Header.Set("Authorization", "Bearer "+pair.Access)
	}

	resp, err := t.base.RoundTrip(attempt)
	if err != nil {
		return nil, err
	}

	switch classifyResponse(resp.StatusCode, exempt, false) {
	case outcomePass:
		return resp, nil
	case outcomeExempt:
		// Credential-validity failure on an auth-flow path: the caller sees
		// the raw response; no refresh, no escalation from here.
		c.metricInc(MetricExemptPassThrough)
		return resp, nil
	}

	// Recoverable expiry. The original response is dead weight now.
	drainAndClose(resp.Body)

	access, err := c.refreshAccess(ctx)
	if err != nil {
		return nil, err
	}

	retry, err := t.prepare(req, requestID)
	if err != nil {
		return nil, err
	}
	retry.Header.Set("Authorization", "Bearer "+access)

	c.metricInc(MetricRetryIssued)
	c.emitAudit(ctx, auditEventRetryIssued, req.URL.Path, true, nil, nil)

	resp, err = t.base.RoundTrip(retry)
	if err != nil {
		return nil, err
	}

	if classifyResponse(resp.StatusCode, exempt, true) == outcomeTerminal {
		// The freshly minted credential was rejected too. Never retry a
		// second time; that way lies an infinite loop against a server that
		// rejects everything.
		drainAndClose(resp.Body)
		c.metricInc(MetricRetryUnauthorized)
		failure := fmt.Errorf("%w: %s", ErrRetryUnauthorized, req.URL.Path)
		c.escalate(ctx, req.URL.Path, failure)
		return nil, failure
	}
	return resp, nil
}

// prepare clones req with a fresh body and the shared request ID. The clone
// keeps the original untouched, as RoundTrip contracts require, and lets the
// same logical call be sent twice.
func (t *authTransport) prepare(req *http.Request, requestID string) (*http.Request, error) {
	out := req.Clone(req.Context())
	out.Header.Set(headerRequestID, requestID)
	if t.client.config.HTTP.UserAgent != "" && out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", t.client.config.HTTP.UserAgent)
	}

	if req.Body == nil || req.Body == http.NoBody {
		return out, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrBodyNotReplayable, req.Method, req.URL.Path)
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBodyNotReplayable, err)
	}
	out.Body = body
	return out, nil
}
