package internaldefs

import (
	goOAuth "github.com/MrEthical07/goOAuth"
)

// CounterDef names one engine counter for exporters.
type CounterDef struct {
	ID   goOAuth.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for exporters.
type HistogramDef struct {
	ID   goOAuth.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: goOAuth.MetricLoginSuccess, Name: "gooauth_login_success_total", Help: "Successful login attempts."},
	{ID: goOAuth.MetricLoginFailure, Name: "gooauth_login_failure_total", Help: "Failed login attempts."},
	{ID: goOAuth.MetricRegisterSuccess, Name: "gooauth_register_success_total", Help: "Successful account registrations."},
	{ID: goOAuth.MetricRegisterRejected, Name: "gooauth_register_rejected_total", Help: "Rejected account registrations."},
	{ID: goOAuth.MetricLogout, Name: "gooauth_logout_total", Help: "Logout operations."},
	{ID: goOAuth.MetricAuthorizeSuccess, Name: "gooauth_authorize_success_total", Help: "Authorization codes issued."},
	{ID: goOAuth.MetricAuthorizeFailure, Name: "gooauth_authorize_failure_total", Help: "Rejected authorization requests."},
	{ID: goOAuth.MetricTokenExchangeSuccess, Name: "gooauth_token_exchange_success_total", Help: "Successful token exchanges."},
	{ID: goOAuth.MetricTokenExchangeFailure, Name: "gooauth_token_exchange_failure_total", Help: "Failed token exchanges."},
	{ID: goOAuth.MetricCodeReplayRejected, Name: "gooauth_code_replay_rejected_total", Help: "Authorization code replays rejected."},
	{ID: goOAuth.MetricRevocation, Name: "gooauth_revocation_total", Help: "Authorization revocations."},
	{ID: goOAuth.MetricBlacklistDenial, Name: "gooauth_blacklist_denial_total", Help: "Requests denied by the token blacklist."},
	{ID: goOAuth.MetricCacheL1Hit, Name: "gooauth_cache_l1_hit_total", Help: "Cache reads served by the local tier."},
	{ID: goOAuth.MetricCacheL2Hit, Name: "gooauth_cache_l2_hit_total", Help: "Cache reads served by the remote tier."},
	{ID: goOAuth.MetricCacheMiss, Name: "gooauth_cache_miss_total", Help: "Cache reads missing both tiers."},
}

var HistogramDefs = []HistogramDef{
	{ID: goOAuth.MetricValidateLatency, Name: "gooauth_validate_latency_seconds", Help: "Validate latency histogram."},
}

var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets widens a snapshot slice to the fixed bucket array.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// Prometheus-style consumers expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
