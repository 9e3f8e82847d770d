package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/config"
	"github.com/nc-news-api/internal/metrics"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/service"
	"github.com/nc-news-api/pkg/logger"
	"github.com/rs/zerolog"
)

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// healthTimeout bounds the database ping made by /health
const healthTimeout = 2 * time.Second

// NewRouter creates and configures the Gin router. m and db may be nil, in
// which case /metrics is not mounted and /health skips the database ping.
func NewRouter(services *service.Services, cfg *config.Config, m *metrics.Metrics, db HealthChecker, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(recoveryMiddleware(log))
	router.Use(corsMiddleware(cfg.CORS))
	if cfg.RateLimit.Enabled {
		router.Use(rateLimitMiddleware(cfg.RateLimit))
	}
	if m != nil {
		router.Use(metricsMiddleware(m))
	}
	router.Use(errorMiddleware(log))

	router.NoRoute(func(c *gin.Context) {
		c.Error(models.ErrRouteNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		c.Error(models.ErrInvalidMethod)
	})

	// Handlers
	topicHandler := NewTopicHandler(services)
	userHandler := NewUserHandler(services)
	articleHandler := NewArticleHandler(services, log)
	commentHandler := NewCommentHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(db))
	if m != nil && cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(m.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("", getEndpoints)

		api.GET("/topics", topicHandler.ListTopics)

		users := api.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:username", userHandler.GetUser)
		}

		articles := api.Group("/articles")
		{
			articles.GET("", articleHandler.ListArticles)
			articles.GET("/:article_id", articleHandler.GetArticle)
			articles.PATCH("/:article_id", articleHandler.PatchArticleVotes)
			articles.GET("/:article_id/comments", commentHandler.ListArticleComments)
			articles.POST("/:article_id/comments", commentHandler.PostComment)
		}

		comments := api.Group("/comments")
		{
			comments.GET("/:comment_id", commentHandler.GetComment)
			comments.PATCH("/:comment_id", commentHandler.PatchCommentVotes)
			comments.DELETE("/:comment_id", commentHandler.DeleteComment)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		database := "skipped"

		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()

			database = "up"
			if err := db.HealthCheck(ctx); err != nil {
				status, code, database = "unhealthy", http.StatusServiceUnavailable, "down"
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"database":  database,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
		})
	}
}
