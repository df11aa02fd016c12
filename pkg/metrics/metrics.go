package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "api_http_requests_total", Help: "HTTP requests"},
		[]string{"method", "path", "status"},
	)
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	EditorOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "editor_section_ops_total", Help: "Section editor operations"},
		[]string{"op", "result"},
	)
	EventsPublishedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "api_campaign_events_published_total", Help: "Campaign events published to queue"},
	)
	EventsPublishFailed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "api_campaign_events_publish_failed_total", Help: "Campaign events that failed to publish"},
	)
	PageRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "page_renders_total", Help: "Public page renders"},
		[]string{"result"},
	)
	PageIntegrityErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "page_integrity_errors_total", Help: "Stored sections that could not be rendered"},
		[]string{"code"},
	)

	WorkerEventsConsumed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "worker_events_consumed_total", Help: "Events consumed"},
	)
	WorkerEventsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "worker_events_failed_total", Help: "Events failed"},
	)
	WorkerEventRetries = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "worker_event_retries_total", Help: "Retries performed"},
	)
	WorkerProcessDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "worker_event_process_duration_seconds",
			Help:    "Time spent processing an event",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequestsTotal, APIRequestDuration, EditorOpsTotal,
		EventsPublishedTotal, EventsPublishFailed, PageRendersTotal, PageIntegrityErrors,
		WorkerEventsConsumed, WorkerEventsFailed, WorkerEventRetries, WorkerProcessDuration,
	)
}

func Handler() http.Handler { return promhttp.Handler() }
