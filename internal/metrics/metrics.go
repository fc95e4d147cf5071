package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	authRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)
	goalsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goals_completed_total",
			Help: "Goals that reached Completed, by category and trigger",
		},
		[]string{"category", "trigger"},
	)
	pointsAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "Points granted for completed goals",
		},
	)
	pointsReversed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "points_reversed_total",
			Help: "Points taken back when completed goals were deleted",
		},
	)
	levelChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "level_changes_total",
			Help: "User level changes, by direction",
		},
		[]string{"direction"},
	)
	lifestyleScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lifestyle_score",
			Help:    "Lifestyle scores computed for saved fitness logs",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	registerOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			authRejections,
			goalsCompleted,
			pointsAwarded,
			pointsReversed,
			levelChanges,
			lifestyleScores,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveRequest(path, method string, status int, seconds float64) {
	httpRequestsTotal.WithLabelValues(path, method, http.StatusText(status)).Inc()
	httpRequestDuration.WithLabelValues(path, method).Observe(seconds)
	switch status {
	case http.StatusUnauthorized:
		authRejections.WithLabelValues("401_unauthorized").Inc()
	case http.StatusForbidden:
		authRejections.WithLabelValues("403_forbidden").Inc()
	}
}

func GoalCompleted(category, trigger string, points int) {
	goalsCompleted.WithLabelValues(category, trigger).Inc()
	pointsAwarded.Add(float64(points))
}

func PointsReversed(points int) {
	pointsReversed.Add(float64(points))
}

func LevelChanged(previous, next int) {
	switch {
	case next > previous:
		levelChanges.WithLabelValues("up").Inc()
	case next < previous:
		levelChanges.WithLabelValues("down").Inc()
	}
}

func LifestyleScore(score int) {
	lifestyleScores.Observe(float64(score))
}
