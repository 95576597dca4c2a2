package authclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessExpiry peeks at the exp claim of a JWT access credential without
// verifying the signature. Verification is the server's job; the client only
// wants a hint for proactive refresh. Opaque credentials report no expiry.
func accessExpiry(access string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// accessExpiresSoon reports whether the stored access credential is within
// the configured early-refresh window. Always false when the window is zero
// or the credential carries no readable expiry.
func (c *Client) accessExpiresSoon(access string) bool {
	window := c.config.Refresh.EarlyWindow
	if window <= 0 || access == "" {
		return false
	}
	exp, ok := accessExpiry(access)
	if !ok {
		return false
	}
	return time.Until(exp) <= window
}
