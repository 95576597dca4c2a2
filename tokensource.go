package authclient

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSource adapts the client to oauth2.TokenSource for libraries that
// expect one. Token returns the stored access credential, refreshing through
// the single-flight coordinator when it is absent or inside the early-refresh
// window. The returned source shares this client's credential state.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &storeTokenSource{client: c, ctx: ctx}
}

type storeTokenSource struct {
	client *Client
	ctx    context.Context
}

// Token describes the token operation and its observable behavior.
//
// Token may return an error when input validation, dependency calls, or security checks fail.
func (ts *storeTokenSource) Token() (*oauth2.Token, error) {
	c := ts.client
	pair, err := c.store.Get(ts.ctx)
	if err != nil {
		return nil, err
	}

	access := pair.Access
	if access == "" || c.accessExpiresSoon(access) {
		access, err = c.refreshAccess(ts.ctx)
		if err != nil {
			return nil, err
		}
		pair, _ = c.store.Get(ts.ctx)
	}

	token := &oauth2.Token{
		AccessToken:  access,
		TokenType:    "Bearer",
		RefreshToken: pair.Refresh,
	}
	if exp, ok := accessExpiry(access); ok {
		token.Expiry = exp
	}
	return token, nil
}
