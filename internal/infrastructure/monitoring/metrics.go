package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipe_engine"

// Metrics Prometheus 指標收集器，註冊在自己的 registry 上
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 指標
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 業務指標
	turnsTotal        *prometheus.CounterVec
	recipesConfirmed  *prometheus.CounterVec
	scansTotal        *prometheus.CounterVec
	assistantRequests *prometheus.CounterVec
	assistantDuration *prometheus.HistogramVec
}

// NewMetrics 建立指標收集器
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),

		turnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversation_turns_total",
				Help:      "Conversation turns by outcome",
			},
			[]string{"outcome"},
		),
		recipesConfirmed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipes_confirmed_total",
				Help:      "Recipes the user confirmed they want to cook",
			},
			[]string{"recipe"},
		),
		scansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingredient_scans_total",
				Help:      "Available-ingredient scans by input source",
			},
			[]string{"source"},
		),
		assistantRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assistant_requests_total",
				Help:      "Total number of language model requests",
			},
			[]string{"operation", "model", "status"},
		),
		assistantDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "assistant_request_duration_seconds",
				Help:      "Language model request duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"operation", "model"},
		),
	}
}

// HTTPMiddleware 記錄每個請求的次數、耗時與回應大小
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size > 0 {
			m.httpResponseSize.WithLabelValues(c.Request.Method, path).Observe(float64(size))
		}
	}
}

// ObserveTurn 記錄一輪對話
func (m *Metrics) ObserveTurn(confirmedRecipe string, stressed bool) {
	outcome := "chat"
	switch {
	case confirmedRecipe != "":
		outcome = "recipe_confirmed"
		m.recipesConfirmed.WithLabelValues(confirmedRecipe).Inc()
	case stressed:
		outcome = "stressed"
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
}

// ObserveScan 記錄食材掃描，source 為 names 或 photo
func (m *Metrics) ObserveScan(source string) {
	m.scansTotal.WithLabelValues(source).Inc()
}

// ObserveAssistant 記錄外部語言模型請求
func (m *Metrics) ObserveAssistant(operation, model, status string, duration time.Duration) {
	m.assistantRequests.WithLabelValues(operation, model, status).Inc()
	m.assistantDuration.WithLabelValues(operation, model).Observe(duration.Seconds())
}

// Registry 底層 registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics 端點
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
