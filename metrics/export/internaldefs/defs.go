package internaldefs

import (
	authclient "github.com/classbridge/authclient"
)

// CounterDef defines a public type used by the API client.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authclient.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by the API client.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authclient.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the API client.
var CounterDefs = []CounterDef{
	{ID: authclient.MetricLoginSuccess, Name: "authclient_login_success_total", Help: "Successful login calls."},
	{ID: authclient.MetricLoginFailure, Name: "authclient_login_failure_total", Help: "Failed login calls."},
	{ID: authclient.MetricRefreshSuccess, Name: "authclient_refresh_success_total", Help: "Successful refresh episodes."},
	{ID: authclient.MetricRefreshFailure, Name: "authclient_refresh_failure_total", Help: "Failed refresh episodes."},
	{ID: authclient.MetricRefreshJoined, Name: "authclient_refresh_joined_total", Help: "Callers that queued behind an in-flight refresh."},
	{ID: authclient.MetricRefreshSkippedNoCredential, Name: "authclient_refresh_skipped_no_credential_total", Help: "Expiry responses with no refresh credential available."},
	{ID: authclient.MetricProactiveRefresh, Name: "authclient_proactive_refresh_total", Help: "Refreshes triggered by the early-expiry window."},
	{ID: authclient.MetricRetryIssued, Name: "authclient_retry_issued_total", Help: "Original calls replayed after a successful refresh."},
	{ID: authclient.MetricRetryUnauthorized, Name: "authclient_retry_unauthorized_total", Help: "Replayed calls rejected again with the fresh credential."},
	{ID: authclient.MetricExemptPassThrough, Name: "authclient_exempt_pass_through_total", Help: "Unauthorized responses passed through from exempt auth-flow paths."},
	{ID: authclient.MetricEscalation, Name: "authclient_escalation_total", Help: "Hard-logout escalations (credential wipe plus navigation)."},
	{ID: authclient.MetricLogout, Name: "authclient_logout_total", Help: "Logout operations."},
}

// HistogramDefs is an exported constant or variable used by the API client.
var HistogramDefs = []HistogramDef{
	{ID: authclient.MetricRefreshLatency, Name: "authclient_refresh_latency_seconds", Help: "Refresh wire-call latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the API client.
var HistogramBounds = []string{
	"0.001",
	"0.005",
	"0.025",
	"0.1",
	"0.5",
	"2.5",
	"10",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the API client.
var HistogramBoundSuffix = []string{
	"0_001",
	"0_005",
	"0_025",
	"0_1",
	"0_5",
	"2_5",
	"10",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
