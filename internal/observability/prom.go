package observability

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// Backend saves
	SaveDuration    *prometheus.HistogramVec
	SaveErrorsTotal *prometheus.CounterVec

	// Submissions by outcome (ok, too_large, malformed, invalid, backend_error)
	SubmissionsTotal *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formhub",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "formhub",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "formhub",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		SaveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "formhub",
				Subsystem: "backend",
				Name:      "save_duration_seconds",
				Help:      "Backend save latency by backend and status.",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"backend", "status"},
		),
		SaveErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formhub",
				Subsystem: "backend",
				Name:      "save_errors_total",
				Help:      "Backend save failures by backend and error code.",
			},
			[]string{"backend", "code"},
		),
		SubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formhub",
				Name:      "submissions_total",
				Help:      "Form submissions by outcome.",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(p.RequestsTotal, p.RequestsDuration, p.InFlight, p.SaveDuration, p.SaveErrorsTotal, p.SubmissionsTotal)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}

// ObserveSave times fn as one save on the named backend.
func (p *Prom) ObserveSave(backend string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.SaveErrorsTotal.WithLabelValues(backend, errorCode(err)).Inc()
	}
	p.SaveDuration.WithLabelValues(backend, status).Observe(time.Since(start).Seconds())
	return err
}

// Submission counts one finished submission.
func (p *Prom) Submission(outcome string) {
	if p == nil {
		return
	}
	p.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

func errorCode(err error) string {
	var coded interface{ ErrorCode() string }

	if errors.As(err, &coded) && coded.ErrorCode() != "" {
		return coded.ErrorCode()
	}

	return "unknown"
}
