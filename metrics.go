package goIAM

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricSignInSuccess counts completed sign-ins.
	MetricSignInSuccess MetricID = iota
	// MetricSignInFailure counts rejected sign-ins (uniform credential
	// failures).
	MetricSignInFailure
	// MetricSignInRateLimited counts sign-ins rejected by the throttle.
	MetricSignInRateLimited
	// MetricSignUpSuccess counts created principals.
	MetricSignUpSuccess
	// MetricSignUpDuplicate counts sign-ups rejected for an existing email.
	MetricSignUpDuplicate
	// MetricRefreshSuccess counts completed rotations.
	MetricRefreshSuccess
	// MetricRefreshFailure counts refreshes rejected for invalid tokens or
	// unknown principals.
	MetricRefreshFailure
	// MetricRefreshReuseDetected counts rotations rejected because the
	// presented identifier was already superseded.
	MetricRefreshReuseDetected
	// MetricSocialSignIn counts completed social sign-ins.
	MetricSocialSignIn
	// MetricGuardAllow counts requests admitted by the guard composer.
	MetricGuardAllow
	// MetricGuardDeny counts requests rejected by the guard composer.
	MetricGuardDeny
	// MetricPermissionDenied counts authorization rejections on permissions.
	MetricPermissionDenied
	// MetricPolicyDenied counts authorization rejections on policies.
	MetricPolicyDenied
	// MetricLogout counts explicit session invalidations.
	MetricLogout

	metricCount
)

// Metrics is a fixed set of lock-free counters. All methods are safe for
// concurrent use.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics() *Metrics {
	return &Metrics{}
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}
