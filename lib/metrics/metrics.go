package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Жизненный цикл идей
var (
	ideasSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ideas_submitted_total",
		Help: "Total number of submitted ideas.",
	})

	ideaTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_transitions_total",
			Help: "Idea status transitions by stage and reviewer role.",
		},
		[]string{"stage", "role"},
	)

	ideaRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "idea_rejections_total",
		Help: "Ideas moved to the rejected archive.",
	})

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Outbound e-mail notifications by result.",
		},
		[]string{"result"},
	)

	otpVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "OTP verification attempts by result.",
		},
		[]string{"result"},
	)
)

const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
	ResultSkipped = "skipped"
)

var registerOnce sync.Once

// Init регистрация метрик в default-регистре
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight, httpRequestsTotal, httpRequestDuration,
			ideasSubmittedTotal, ideaTransitionsTotal, ideaRejectionsTotal,
			notificationsTotal, otpVerificationsTotal,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func HttpRequestStarted() {
	httpInFlight.Inc()
}

func HttpRequestFinished(method, path, status string, seconds float64) {
	httpInFlight.Dec()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
}

func IdeaSubmitted() {
	ideasSubmittedTotal.Inc()
}

func IdeaTransition(stage, role string) {
	ideaTransitionsTotal.WithLabelValues(stage, role).Inc()
}

func IdeaRejected() {
	ideaRejectionsTotal.Inc()
}

func Notification(result string) {
	notificationsTotal.WithLabelValues(result).Inc()
}

func OtpVerification(result string) {
	otpVerificationsTotal.WithLabelValues(result).Inc()
}
