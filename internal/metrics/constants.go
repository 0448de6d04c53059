package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Aggregate engine metric names
const (
	MetricNameAggregateOperations        = "aggregate_operations_total"
	MetricNameAggregateOperationDuration = "aggregate_operation_duration_seconds"
	MetricNameAggregateUpdateConflicts   = "aggregate_update_conflicts_total"
	MetricNameAggregateOrphanedAssets    = "aggregate_orphaned_assets_total"
)

// Collaborator metric names
const (
	MetricNameAssetUploads = "asset_uploads_total"
	MetricNameTokenCache   = "identity_token_cache_total"
	MetricNameAuthRequests = "auth_requests_total"
)

// Security metric names
const (
	MetricNameSecurityEvents = "security_events_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Aggregate engine metric help text
const (
	HelpTextAggregateOperations        = "Total number of aggregate document operations by resource and outcome"
	HelpTextAggregateOperationDuration = "Aggregate document operation latency in seconds"
	HelpTextAggregateUpdateConflicts   = "Total number of update attempts rejected by a document version precondition"
	HelpTextAggregateOrphanedAssets    = "Total number of uploaded assets left without a referencing document"
)

// Collaborator metric help text
const (
	HelpTextAssetUploads = "Total number of asset uploads by backend and outcome"
	HelpTextTokenCache   = "Total number of ID token verification cache lookups by result"
	HelpTextAuthRequests = "Total number of auth flow requests by operation and outcome"
)

const (
	HelpTextSecurityEvents = "Total number of rejected requests by reason"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelResource  = "resource"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelBackend   = "backend"
	LabelResult    = "result"
	LabelEvent     = "event"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Cache result label values
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Security event label values
const (
	EventRateLimited = "rate_limited"
	EventFailedAuth  = "failed_auth"
)

// PathUnmatched labels requests that did not match any route.
const PathUnmatched = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
