package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	registry *prometheus.Registry

	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 业务指标
	contentEventsTotal *prometheus.CounterVec
}

// NewMetricsCollector 创建指标收集器，每个实例使用独立的 Registry
func NewMetricsCollector() *MetricsCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsCollector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		contentEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blog_content_events_total",
				Help: "Content mutations by resource and action",
			},
			[]string{"resource", "action"},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration, responseSize int) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if responseSize > 0 {
		m.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
	}
}

// RecordContentEvent 记录内容变更，如 post/create、comment/moderate
func (m *MetricsCollector) RecordContentEvent(resource, action string) {
	m.contentEventsTotal.WithLabelValues(resource, action).Inc()
}

// RegisterDB 导出连接池指标
func (m *MetricsCollector) RegisterDB(dbName string, db *sql.DB) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, dbName))
}

// Gatherer 供测试读取指标
func (m *MetricsCollector) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler /metrics 处理器
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StatusCategory 状态码分类，用于降低标签基数
func StatusCategory(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

// Recorder 业务事件记录，服务层依赖此接口而不是具体收集器
type Recorder interface {
	RecordContentEvent(resource, action string)
}

type nopRecorder struct{}

func (nopRecorder) RecordContentEvent(string, string) {}

// Nop 不记录任何事件
var Nop Recorder = nopRecorder{}
