package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tp_site"

// Registry 应用指标注册表
type Registry struct {
	registry      *prometheus.Registry
	visits        *prometheus.CounterVec
	resets        *prometheus.CounterVec
	votes         prometheus.Counter
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// New 创建指标注册表并注册全部采集器
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		visits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visit_track_total",
			Help:      "Page visit tracking attempts by outcome.",
		}, []string{"outcome"}),
		resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visit_reset_total",
			Help:      "Visit data reset requests by confirmation.",
		}, []string{"confirmed"}),
		votes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_votes_total",
			Help:      "Poll votes recorded.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.visits,
		r.resets,
		r.votes,
		r.httpRequests,
		r.httpDurations,
	)
	return r
}

// ObserveVisit 记录一次访问统计结果
func (r *Registry) ObserveVisit(outcome string) {
	if r == nil {
		return
	}
	r.visits.WithLabelValues(outcome).Inc()
}

// ObserveReset 记录一次清空请求
func (r *Registry) ObserveReset(confirmed bool) {
	if r == nil {
		return
	}
	r.resets.WithLabelValues(strconv.FormatBool(confirmed)).Inc()
}

// ObserveVote 记录一次投票
func (r *Registry) ObserveVote() {
	if r == nil {
		return
	}
	r.votes.Inc()
}

// Gatherer 返回底层采集器，测试使用
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler 暴露 /metrics
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Middleware 统计 HTTP 请求数与耗时
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		r.httpRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpDurations.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
