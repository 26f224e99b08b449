package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RouteFailures counts routes dropped because of data integrity errors
	RouteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geometry_route_failures_total",
		Help: "Number of routes skipped because their data failed integrity checks",
	}, []string{"agency_id", "kind"})

	RoutesBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geometry_routes_built_total",
		Help: "Number of route geometries produced, by selection strategy",
	}, []string{"agency_id", "strategy"})

	BuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geometry_build_duration_seconds",
		Help:    "Time spent building an agency result",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"kind"})

	SegmentsAggregated = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "geometry_segments_count",
		Help: "Number of distinct directed segments in the last aggregation of an agency",
	}, []string{"agency_id"})
)

var (
	StopRegistryLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stop_registry_lookups_total",
		Help: "Stop registry lookups by result (hit, miss)",
	}, []string{"result"})

	ResultCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "result_cache_lookups_total",
		Help: "Agency result cache lookups by result (hit, miss)",
	}, []string{"result"})
)

var (
	GtfsImports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gtfs_imports_total",
		Help: "GTFS dataset loads by outcome (success, failure)",
	}, []string{"outcome"})

	GtfsLastImport = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gtfs_last_import_timestamp_seconds",
		Help: "Unix time of the last successful GTFS dataset load",
	})
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "status"})
)
