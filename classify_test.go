package authclient

import (
	"net/http"
	"testing"
)

func TestClassifyResponse(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		exempt  bool
		retried bool
		want    authOutcome
	}{
		{"ok passes", http.StatusOK, false, false, outcomePass},
		{"server error passes", http.StatusInternalServerError, false, false, outcomePass},
		{"forbidden passes", http.StatusForbidden, false, false, outcomePass},
		{"unauthorized refreshes", http.StatusUnauthorized, false, false, outcomeRefresh},
		{"unauthorized exempt passes raw", http.StatusUnauthorized, true, false, outcomeExempt},
		{"unauthorized retried is terminal", http.StatusUnauthorized, false, true, outcomeTerminal},
		{"exempt wins over retried", http.StatusUnauthorized, true, true, outcomeExempt},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyResponse(tc.status, tc.exempt, tc.retried); got != tc.want {
				t.Fatalf("classifyResponse(%d, %v, %v) = %v, want %v", tc.status, tc.exempt, tc.retried, got, tc.want)
			}
		})
	}
}

func TestIsExemptMatchesFragments(t *testing.T) {
	c := &Client{exempt: defaultConfig().Endpoints.exemptFragments()}

	cases := []struct {
		path string
		want bool
	}{
		{"/api/auth/login", true},
		{"/v2/api/auth/login", true},
		{"/api/auth/refresh", true},
		{"/api/auth/accept-invite", true},
		{"/api/classes", false},
		{"/api/auth/logout", false},
		{"/api/students/42", false},
	}

	for _, tc := range cases {
		if got := c.isExempt(tc.path); got != tc.want {
			t.Fatalf("isExempt(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
