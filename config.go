package authclient

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by the API client.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// BaseURL is the ClassBridge API origin, e.g. "https://api.classbridge.app".
	BaseURL   string
	HTTP      HTTPConfig
	Endpoints EndpointsConfig
	Refresh   RefreshConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
HTTP CONFIG
====================================
*/

// HTTPConfig defines a public type used by the API client.
//
// HTTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HTTPConfig struct {
	// RequestTimeout bounds each outbound call, including the credentialed
	// retry. Zero means no client-side timeout.
	RequestTimeout time.Duration
	// TransientRetry wraps the base transport with network-level retries for
	// connection failures. It never retries on a 401; that path belongs to
	// the refresh coordinator.
	TransientRetry bool
	// UserAgent is sent on every call when non-empty.
	UserAgent string
}

/*
====================================
ENDPOINTS CONFIG
====================================
*/

// EndpointsConfig names the auth-flow paths. All of them are exempt from
// refresh handling: a 401 from any of these is a credential-validity problem,
// not a credential-expiry problem.
//
// EndpointsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EndpointsConfig struct {
	LoginPath          string
	RegisterPath       string
	AcceptInvitePath   string
	RefreshPath        string
	ForgotPasswordPath string
	ResetPasswordPath  string
	LogoutPath         string
	// ExtraExempt adds host-specific path fragments to the exemption set.
	ExtraExempt []string
}

// exemptFragments returns the effective exemption set.
func (e EndpointsConfig) exemptFragments() []string {
	fragments := []string{
		e.LoginPath,
		e.RegisterPath,
		e.AcceptInvitePath,
		e.RefreshPath,
		e.ForgotPasswordPath,
		e.ResetPasswordPath,
	}
	fragments = append(fragments, e.ExtraExempt...)

	out := fragments[:0]
	for _, f := range fragments {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig defines a public type used by the API client.
//
// RefreshConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RefreshConfig struct {
	// Timeout bounds the refresh wire call. The call is detached from the
	// triggering request's context: once started it always completes and
	// settles every queued waiter, even if the original caller went away.
	Timeout time.Duration
	// EarlyWindow enables proactive refresh: when the stored access
	// credential is a JWT expiring within this window, a refresh is issued
	// before the call instead of waiting for the 401. Zero disables the
	// proactive path entirely.
	EarlyWindow time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by the API client.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking the caller when the
	// dispatcher buffer is full. Dropped events are counted.
	DropIfFull bool
}

// MetricsConfig defines a public type used by the API client.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			RequestTimeout: 30 * time.Second,
		},
		Endpoints: EndpointsConfig{
			LoginPath:          "/api/auth/login",
			RegisterPath:       "/api/auth/register",
			AcceptInvitePath:   "/api/auth/accept-invite",
			RefreshPath:        "/api/auth/refresh",
			ForgotPasswordPath: "/api/auth/forgot-password",
			ResetPasswordPath:  "/api/auth/reset-password",
			LogoutPath:         "/api/auth/logout",
		},
		Refresh: RefreshConfig{
			Timeout: 10 * time.Second,
		},
		Audit: AuditConfig{
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Endpoints.ExtraExempt = append([]string(nil), cfg.Endpoints.ExtraExempt...)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BaseURL required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("BaseURL must be an absolute URL")
	}
	if c.Endpoints.RefreshPath == "" {
		return errors.New("Endpoints.RefreshPath required")
	}
	if !strings.HasPrefix(c.Endpoints.RefreshPath, "/") {
		return errors.New("Endpoints.RefreshPath must be rooted")
	}
	if c.Refresh.Timeout < 0 {
		return errors.New("Refresh.Timeout must not be negative")
	}
	if c.Refresh.EarlyWindow < 0 {
		return errors.New("Refresh.EarlyWindow must not be negative")
	}
	if c.HTTP.RequestTimeout < 0 {
		return errors.New("HTTP.RequestTimeout must not be negative")
	}
	return nil
}
