package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/classbridge/authclient/credstore"
)

// StatusError reports a non-2xx response from an auth-flow endpoint. The
// Detail field carries the server's error message when one was present.
type StatusError struct {
	StatusCode int
	Path       string
	Detail     string
}

// Error describes the error operation and its observable behavior.
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s returned %d", e.Path, e.StatusCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// RegisterRequest carries the fields of the registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Login authenticates with the password grant form the ClassBridge backend
// expects, stores the returned credential pair, and re-arms escalation.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.config.Endpoints.LoginPath), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		c.metricInc(MetricLoginFailure)
		c.emitAudit(ctx, auditEventLoginFailure, c.config.Endpoints.LoginPath, false, ErrInvalidCredentials, nil)
		return ErrInvalidCredentials
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metricInc(MetricLoginFailure)
		return statusError(resp, c.config.Endpoints.LoginPath)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("login response decode: %w", err)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("login response missing access_token")
	}

	if err := c.store.Set(ctx, credstore.Pair{Access: token.AccessToken, Refresh: token.RefreshToken}); err != nil {
		return err
	}
	c.escalator.arm()
	c.metricInc(MetricLoginSuccess)
	c.emitAudit(ctx, auditEventLoginSuccess, c.config.Endpoints.LoginPath, true, nil, nil)
	return nil
}

// Register creates an account. It does not sign the user in; call
// [Client.Login] afterwards, matching the backend's two-step onboarding.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) error {
	return c.postJSONExpectOK(ctx, c.config.Endpoints.RegisterPath, reg, nil)
}

// AcceptInvite redeems an invite token, setting the invitee's password.
func (c *Client) AcceptInvite(ctx context.Context, token, password string) error {
	payload := map[string]string{"token": token, "password": password}
	err := c.postJSONExpectOK(ctx, c.config.Endpoints.AcceptInvitePath, payload, nil)
	var se *StatusError
	if errors.As(err, &se) && (se.StatusCode == http.StatusBadRequest || se.StatusCode == http.StatusNotFound || se.StatusCode == http.StatusGone) {
		return fmt.Errorf("%w: %s", ErrInviteInvalid, se.Detail)
	}
	return err
}

// RequestPasswordReset asks the server to start a reset flow for email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.postJSONExpectOK(ctx, c.config.Endpoints.ForgotPasswordPath, map[string]string{"email": email}, nil)
}

// ConfirmPasswordReset completes a reset flow with the emailed token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	payload := map[string]string{"token": token, "new_password": newPassword}
	err := c.postJSONExpectOK(ctx, c.config.Endpoints.ResetPasswordPath, payload, nil)
	var se *StatusError
	if errors.As(err, &se) && (se.StatusCode == http.StatusBadRequest || se.StatusCode == http.StatusNotFound) {
		return fmt.Errorf("%w: %s", ErrPasswordResetInvalid, se.Detail)
	}
	return err
}

// RefreshNow forces a refresh episode outside the 401 path, for hosts that
// renew on a timer. Concurrent callers coalesce into one wire call.
func (c *Client) RefreshNow(ctx context.Context) error {
	_, err := c.refreshAccess(ctx)
	return err
}

// Logout tells the server to drop the session, then wipes the store. The
// server call is best-effort: a dead server must never trap the user in a
// session they asked to leave.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.config.Endpoints.LogoutPath), http.NoBody)
	if err == nil {
		if resp, doErr := c.Do(req); doErr == nil {
			drainAndClose(resp.Body)
		}
	}

	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	c.metricInc(MetricLogout)
	c.emitAudit(ctx, auditEventLogout, c.config.Endpoints.LogoutPath, true, nil, nil)
	return nil
}

// postJSONExpectOK sends a JSON payload and decodes the 2xx body into out
// when out is non-nil.
func (c *Client) postJSONExpectOK(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp, path)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s response decode: %w", path, err)
		}
	}
	return nil
}

// statusError builds a StatusError, salvaging the backend's detail message
// when the body carries one.
func statusError(resp *http.Response, path string) error {
	se := &StatusError{StatusCode: resp.StatusCode, Path: path}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
			se.Detail = payload.Detail
		}
	}
	return se
}
