package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// 模型调用，outcome: ok | upstream | empty | timeout
	GenerationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_total",
			Help: "Total number of model generation calls",
		},
		[]string{"provider", "outcome"},
	)

	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Duration of model generation calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"provider"},
	)

	// 归一化结果，result: ok | fallback | invalid | empty
	NormalizeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalizer_results_total",
			Help: "Normalization results per schema",
		},
		[]string{"schema", "result"},
	)

	AnswerUpsertCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answer_upserts_total",
			Help: "Answer upserts per kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	registerOnce sync.Once
)

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration)
		prometheus.MustRegister(GenerationCounter, GenerationDuration)
		prometheus.MustRegister(NormalizeCounter, AnswerUpsertCounter)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
