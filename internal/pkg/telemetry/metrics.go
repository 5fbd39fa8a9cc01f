package telemetry

// SLI identifiers referenced by the Grafana dashboards and alert rules.
// Nothing registers them at runtime; each maps onto a Prometheus series
// emitted by internal/pkg/metrics (business.urgent_jobs_posted is backed
// by kaamlink_marketplace_urgent_jobs_posted_total, matching.time_to_match
// by kaamlink_marketplace_match_duration_seconds, and so on). They live in
// code so the monitoring contract is versioned with the service.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Matching
	MetricMatchLatency = "matching.time_to_match"
	MetricMatchRate    = "matching.jobs_matched_ratio"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricUrgentJobsPosted  = "business.urgent_jobs_posted"
	MetricCertsIssued       = "business.certifications_issued"
	MetricKYCTurnaroundTime = "business.kyc_turnaround_seconds"
)
