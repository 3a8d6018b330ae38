package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Audit writes are fire-and-forget relative to the primary action, so a
// decision that "succeeded but wasn't audited" surfaces here instead of in
// the action's return value.
var auditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "audit_write_failures_total",
	Help: "Audit entries that could not be written directly and had to be queued or dropped.",
})

var auditDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "audit_entries_dropped_total",
	Help: "Audit entries lost after both the direct write and the fallback queue failed.",
})

var rateLimitBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rate_limit_blocks_total",
	Help: "Requests rejected by the rate limiter, by action.",
}, []string{"action"})

// CountRateLimitBlock records one rejected request for an action.
func CountRateLimitBlock(action string) {
	rateLimitBlocks.WithLabelValues(action).Inc()
}
