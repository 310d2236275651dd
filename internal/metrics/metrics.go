package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// APIRequestsTotal API 请求计数
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudrunway_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求时延
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cloudrunway_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// TerminationsTotal 终止请求操作计数
	TerminationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudrunway_terminations_total",
			Help: "Total number of termination request operations",
		},
		[]string{"action"},
	)

	// ValidationFailuresTotal 校验失败计数
	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudrunway_validation_failures_total",
			Help: "Total number of termination validation failures",
		},
		[]string{"field"},
	)

	// AttachmentOperationsTotal 附件操作计数
	AttachmentOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudrunway_attachment_operations_total",
			Help: "Total number of attachment operations",
		},
		[]string{"operation", "result"},
	)

	// LookupCacheTotal 目录缓存命中计数
	LookupCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudrunway_lookup_cache_total",
			Help: "Total number of directory lookup cache accesses",
		},
		[]string{"kind", "result"},
	)

	// DatabaseConnections 数据库连接数
	DatabaseConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cloudrunway_database_connections",
			Help: "Number of database connections",
		},
		[]string{"state"},
	)

	// WebSocketConnections WebSocket 连接数
	WebSocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cloudrunway_websocket_connections",
			Help: "Number of active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequestsTotal,
		APIRequestDuration,
		TerminationsTotal,
		ValidationFailuresTotal,
		AttachmentOperationsTotal,
		LookupCacheTotal,
		DatabaseConnections,
		WebSocketConnections,
	)
}

// RecordAPIRequest 记录一次 API 请求
func RecordAPIRequest(method, path string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTerminationAction 记录终止请求操作
func RecordTerminationAction(action string) {
	TerminationsTotal.WithLabelValues(action).Inc()
}

// RecordValidationFailure 记录校验失败的字段
func RecordValidationFailure(field string) {
	ValidationFailuresTotal.WithLabelValues(field).Inc()
}

// RecordAttachmentOperation 记录附件操作结果
func RecordAttachmentOperation(operation string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	AttachmentOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordLookupCache 记录目录缓存访问
func RecordLookupCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	LookupCacheTotal.WithLabelValues(kind, result).Inc()
}

// UpdateDatabaseConnections 更新数据库连接数
func UpdateDatabaseConnections(open, idle, inUse int) {
	DatabaseConnections.WithLabelValues("open").Set(float64(open))
	DatabaseConnections.WithLabelValues("idle").Set(float64(idle))
	DatabaseConnections.WithLabelValues("in_use").Set(float64(inUse))
}
