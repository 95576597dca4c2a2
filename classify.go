package authclient

import (
	"net/http"
	"strings"
)

// authOutcome classifies a response relative to the credential lifecycle.
type authOutcome int

const (
	// outcomePass: unrelated to auth, hand the response back untouched.
	outcomePass authOutcome = iota
	// outcomeExempt: 401 from an auth-flow path; the credential itself is
	// invalid, not expired. Passed through raw, never refreshed.
	outcomeExempt
	// outcomeRefresh: 401 from a protected path, not yet retried.
	outcomeRefresh
	// outcomeTerminal: 401 after an already-credentialed retry.
	outcomeTerminal
)

// classifyResponse decides how the transport handles a completed call.
func classifyResponse(status int, exempt, retried bool) authOutcome {
	if status != http.StatusUnauthorized {
		return outcomePass
	}
	if exempt {
		return outcomeExempt
	}
	if retried {
		return outcomeTerminal
	}
	return outcomeRefresh
}

// isExempt reports whether path matches the exemption set. Matching is on
// path fragments so versioned prefixes ("/v2/api/auth/login") still match.
func (c *Client) isExempt(path string) bool {
	for _, fragment := range c.exempt {
		if strings.Contains(path, fragment) {
			return true
		}
	}
	return false
}
