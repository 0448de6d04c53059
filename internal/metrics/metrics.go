package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Aggregate Engine Metrics
var (
	AggregateOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAggregateOperations,
			Help: HelpTextAggregateOperations,
		},
		[]string{LabelResource, LabelOperation, LabelOutcome},
	)

	AggregateOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameAggregateOperationDuration,
			Help:    HelpTextAggregateOperationDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelResource, LabelOperation},
	)

	AggregateUpdateConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAggregateUpdateConflicts,
			Help: HelpTextAggregateUpdateConflicts,
		},
		[]string{LabelResource},
	)

	AggregateOrphanedAssets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAggregateOrphanedAssets,
			Help: HelpTextAggregateOrphanedAssets,
		},
		[]string{LabelResource},
	)
)

// Collaborator Metrics
var (
	AssetUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAssetUploads,
			Help: HelpTextAssetUploads,
		},
		[]string{LabelBackend, LabelOutcome},
	)

	TokenCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTokenCache,
			Help: HelpTextTokenCache,
		},
		[]string{LabelResult},
	)

	AuthRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAuthRequests,
			Help: HelpTextAuthRequests,
		},
		[]string{LabelOperation, LabelOutcome},
	)

	SecurityEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSecurityEvents,
			Help: HelpTextSecurityEvents,
		},
		[]string{LabelEvent},
	)
)

// Outcome maps an error to the outcome label value.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
