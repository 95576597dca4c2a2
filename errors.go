package authclient

import "errors"

var (
	// ErrClientNotReady is an exported constant or variable used by the API client.
	ErrClientNotReady = errors.New("client not initialized")
	// ErrNoRefreshCredential is an exported constant or variable used by the API client.
	ErrNoRefreshCredential = errors.New("no refresh credential stored")
	// ErrRefreshFailed is an exported constant or variable used by the API client.
	ErrRefreshFailed = errors.New("credential refresh failed")
	// ErrRetryUnauthorized is an exported constant or variable used by the API client.
	ErrRetryUnauthorized = errors.New("retried call unauthorized with fresh credential")
	// ErrBodyNotReplayable is an exported constant or variable used by the API client.
	ErrBodyNotReplayable = errors.New("request body cannot be replayed for retry")
	// ErrInvalidCredentials is an exported constant or variable used by the API client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInviteInvalid is an exported constant or variable used by the API client.
	ErrInviteInvalid = errors.New("invite token invalid or already accepted")
	// ErrPasswordResetInvalid is an exported constant or variable used by the API client.
	ErrPasswordResetInvalid = errors.New("password reset challenge invalid")
)
