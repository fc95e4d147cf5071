package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balasutharsan1247/student-fitness-app/internal/auth"
	"github.com/balasutharsan1247/student-fitness-app/internal/metrics"
	"github.com/balasutharsan1247/student-fitness-app/internal/response"
)

type RouterOptions struct {
	// Limiter throttles /api per client IP. Nil disables throttling.
	Limiter *RateLimiter
	Metrics bool
}

func NewRouter(app App, provider auth.Provider, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(app.Logger()))
	if opts.Metrics {
		metrics.Init()
		r.Use(MetricsMiddleware())
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	apiGroup := r.Group("/api")
	if opts.Limiter != nil {
		apiGroup.Use(opts.Limiter.Middleware())
	}
	apiGroup.GET("/health", Health(app))

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", Register(app))
	authGroup.POST("/login", Login(app))

	protected := apiGroup.Group("")
	protected.Use(auth.AuthMiddleware(provider))

	me := protected.Group("/auth")
	me.GET("/me", GetMe(app))
	me.PUT("/updateprofile", UpdateProfile(app))
	me.PUT("/updatepassword", UpdatePassword(app))
	me.PUT("/recalculate-level", RecalculateLevel(app))

	fitness := protected.Group("/fitness")
	fitness.POST("/log", PostFitnessLog(app))
	fitness.GET("/log/today", GetTodayLog(app))
	fitness.GET("/log/date/:date", GetLogByDate(app))
	fitness.GET("/log/range", GetLogRange(app))
	fitness.GET("/log/all", GetAllLogs(app))
	fitness.PUT("/log/:id", PutFitnessLog(app))
	fitness.DELETE("/log/:id", DeleteFitnessLog(app))
	fitness.GET("/stats/week", GetWeeklyStats(app))
	fitness.GET("/stats/month", GetMonthlyStats(app))
	fitness.GET("/dashboard", GetDashboard(app))

	goals := protected.Group("/goals")
	goals.POST("", PostGoal(app))
	goals.GET("", ListGoals(app))
	goals.GET("/active", ListActiveGoals(app))
	goals.GET("/completed", ListCompletedGoals(app))
	goals.GET("/stats", GetGoalStats(app))
	goals.GET("/:id", GetGoal(app))
	goals.PUT("/:id", PutGoal(app))
	goals.PUT("/:id/progress", PutGoalProgress(app))
	goals.PUT("/:id/complete", CompleteGoal(app))
	goals.PUT("/:id/abandon", AbandonGoal(app))
	goals.DELETE("/:id", DeleteGoal(app))

	return r
}

func Health(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := app.Ping(ctx); err != nil {
			app.Logger().Errorf("health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, response.NewAppError(http.StatusServiceUnavailable, "storage unavailable"))
			return
		}
		c.JSON(http.StatusOK, response.Success(gin.H{"status": "ok"}, nil))
	}
}
