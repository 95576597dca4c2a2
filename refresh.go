package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/classbridge/authclient/credstore"
	"github.com/classbridge/authclient/internal/singleflight"
	"github.com/google/uuid"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// refreshAccess returns a usable access credential, minting one through the
// single-flight coordinator when the stored one was rejected. The first
// caller of an episode leads and issues the wire call; everyone else queues
// and shares the leader's outcome in arrival order.
func (c *Client) refreshAccess(ctx context.Context) (string, error) {
	pair, err := c.store.Get(ctx)
	if err != nil {
		return "", err
	}
	if pair.Refresh == "" {
		// Terminal before any coordination: nothing to refresh with.
		c.metricInc(MetricRefreshSkippedNoCredential)
		c.escalate(ctx, c.config.Endpoints.RefreshPath, ErrNoRefreshCredential)
		return "", ErrNoRefreshCredential
	}

	leader, wait := c.refreshGroup.Begin()
	if !leader {
		c.metricInc(MetricRefreshJoined)
		select {
		case out := <-wait:
			if out.Err != nil {
				return "", out.Err
			}
			return out.Access, nil
		case <-ctx.Done():
			// Abandoning a waiter has no effect on the shared refresh;
			// the episode still settles for everyone else.
			return "", ctx.Err()
		}
	}

	return c.leadRefresh(ctx)
}

// leadRefresh runs the refresh wire call as the elected leader. It settles
// the coordinator exactly once on every path.
func (c *Client) leadRefresh(ctx context.Context) (string, error) {
	// Re-read through the store: leadership may have been won after another
	// episode already rotated the pair.
	pair, err := c.store.Get(ctx)
	if err != nil {
		c.refreshGroup.Settle(singleflight.Outcome{Err: err})
		return "", err
	}
	if pair.Refresh == "" {
		c.refreshGroup.Settle(singleflight.Outcome{Err: ErrNoRefreshCredential})
		c.metricInc(MetricRefreshSkippedNoCredential)
		c.escalate(ctx, c.config.Endpoints.RefreshPath, ErrNoRefreshCredential)
		return "", ErrNoRefreshCredential
	}

	start := time.Now()
	token, err := c.callRefreshWire(ctx, pair.Refresh)
	if c.metrics != nil {
		c.metrics.Observe(MetricRefreshLatency, time.Since(start))
	}
	if err != nil {
		failure := fmt.Errorf("%w: %v", ErrRefreshFailed, err)
		drained := c.refreshGroup.Settle(singleflight.Outcome{Err: failure})
		c.metricInc(MetricRefreshFailure)
		c.emitAudit(ctx, auditEventRefreshFailure, c.config.Endpoints.RefreshPath, false, failure, func() map[string]string {
			return map[string]string{"waiters": fmt.Sprint(drained)}
		})
		c.escalate(ctx, c.config.Endpoints.RefreshPath, failure)
		return "", failure
	}

	next := credstore.Pair{Access: token.AccessToken, Refresh: pair.Refresh}
	if token.RefreshToken != "" {
		// A rotated refresh credential in the response is authoritative.
		next.Refresh = token.RefreshToken
	}
	if err := c.store.Set(ctx, next); err != nil {
		c.refreshGroup.Settle(singleflight.Outcome{Err: err})
		c.metricInc(MetricRefreshFailure)
		return "", err
	}

	c.escalator.arm()
	c.refreshGroup.Settle(singleflight.Outcome{Access: token.AccessToken})
	c.metricInc(MetricRefreshSuccess)
	c.emitAudit(ctx, auditEventRefreshSuccess, c.config.Endpoints.RefreshPath, true, nil, nil)
	return token.AccessToken, nil
}

// callRefreshWire performs the single POST to the refresh endpoint. The call
// is detached from the triggering request's context so that a caller
// abandoning its own promise never aborts the shared refresh mid-flight.
func (c *Client) callRefreshWire(ctx context.Context, refresh string) (tokenResponse, error) {
	wireCtx := context.WithoutCancel(ctx)
	if c.config.Refresh.Timeout > 0 {
		var cancel context.CancelFunc
		wireCtx, cancel = context.WithTimeout(wireCtx, c.config.Refresh.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: refresh})
	if err != nil {
		return tokenResponse{}, err
	}

	req, err := http.NewRequestWithContext(wireCtx, http.MethodPost, c.endpoint(c.config.Endpoints.RefreshPath), bytes.NewReader(body))
	if err != nil {
		return tokenResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())
	if c.config.HTTP.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.HTTP.UserAgent)
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return tokenResponse{}, err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return tokenResponse{}, fmt.Errorf("refresh endpoint returned %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return tokenResponse{}, fmt.Errorf("refresh response decode: %w", err)
	}
	if token.AccessToken == "" {
		return tokenResponse{}, errors.New("refresh response missing access_token")
	}
	return token, nil
}

// drainAndClose consumes the remainder of a body so the underlying
// connection can be reused, then closes it.
func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<20))
	_ = body.Close()
}
