// Package observability provides metrics instrumentation.
package observability

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tidepool_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PromotedScheduledPosts counts scheduled posts promoted into live posts.
	PromotedScheduledPosts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tidepool_scheduled_posts_promoted_total",
		Help: "Total number of scheduled posts promoted into live posts",
	})

	// FailedPromotions counts scheduled-post promotions that failed and were skipped.
	FailedPromotions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tidepool_scheduled_posts_promotion_failures_total",
		Help: "Total number of scheduled-post promotions that failed",
	})

	// LikeToggles counts like toggle operations by outcome.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tidepool_like_toggles_total",
		Help: "Total number of like toggles by outcome",
	}, []string{"outcome"})

	// FollowToggles counts follow toggle operations by outcome.
	FollowToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tidepool_follow_toggles_total",
		Help: "Total number of follow toggles by outcome",
	}, []string{"outcome"})
)

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the Prometheus HTTP middleware for the given service
// name. The middleware registers collectors in the default registry, so the
// instance is created once and shared by every caller.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New(serviceName)
	})
	return promMiddleware
}
