package app

import (
	"github.com/gin-gonic/gin"

	"github.com/dailytaiyari/backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:         handlers.Auth,
		AuthMiddleware:      middleware.Auth,
		HealthcheckHandler:  handlers.Healthcheck,
		ProfileHandler:      handlers.Profile,
		ActivityHandler:     handlers.Activity,
		GamificationHandler: handlers.Gamification,
		LeaderboardHandler:  handlers.Leaderboard,
		AnalyticsHandler:    handlers.Analytics,
		StudySessionHandler: handlers.StudySession,
		MediaDir:            cfg.MediaDir,
	})
}
