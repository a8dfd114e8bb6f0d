package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const ServiceName = "dqdash"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "http", "requests_total"),
		Help: "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "http", "request_duration_seconds"),
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"route", "method"})
	ScheduleEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "schedule", "evaluations_total"),
		Help: "Schedule evaluations by outcome (active, inactive, invalid)",
	}, []string{"outcome"})
	ReportCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "report", "cache_lookups_total"),
		Help: "Schedule report cache lookups by result (hit, miss)",
	}, []string{"result"})
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "notify", "published_total"),
		Help: "Schedule change notifications by result (ok, error)",
	}, []string{"result"})
)
