package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/dailytaiyari/backend/internal/handlers"
	"github.com/dailytaiyari/backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	HealthcheckHandler  *handlers.HealthcheckHandler
	ProfileHandler      *handlers.ProfileHandler
	ActivityHandler     *handlers.ActivityHandler
	GamificationHandler *handlers.GamificationHandler
	LeaderboardHandler  *handlers.LeaderboardHandler
	AnalyticsHandler    *handlers.AnalyticsHandler
	StudySessionHandler *handlers.StudySessionHandler
	MediaDir            string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("dailytaiyari-backend"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	if cfg.MediaDir != "" {
		router.Static("/media", cfg.MediaDir)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Profile and catalog
	protected.GET("/me", cfg.ProfileHandler.Me)
	protected.PATCH("/me", cfg.ProfileHandler.Update)
	protected.POST("/me/avatar", cfg.ProfileHandler.UploadAvatar)
	protected.GET("/exams", cfg.ProfileHandler.ListExams)
	protected.GET("/exams/:id/topics", cfg.ProfileHandler.ListTopics)
	// Activity absorption
	protected.POST("/activity/quiz", cfg.ActivityHandler.CompleteQuiz)
	// Gamification
	protected.GET("/badges", cfg.GamificationHandler.BadgeCatalog)
	protected.GET("/badges/me", cfg.GamificationHandler.MyBadges)
	protected.POST("/badges/check", cfg.GamificationHandler.CheckNewBadges)
	protected.GET("/xp/history", cfg.GamificationHandler.XPHistory)
	protected.GET("/xp/summary", cfg.GamificationHandler.XPSummary)
	// Leaderboard
	protected.GET("/leaderboard", cfg.LeaderboardHandler.Get)
	protected.GET("/leaderboard/me", cfg.LeaderboardHandler.MyRank)
	protected.POST("/leaderboard/refresh", cfg.LeaderboardHandler.Refresh)
	// Analytics
	protected.GET("/dashboard", cfg.AnalyticsHandler.Dashboard)
	protected.GET("/reports/weekly", cfg.AnalyticsHandler.ListWeeklyReports)
	protected.POST("/reports/weekly", cfg.AnalyticsHandler.WeeklyReport)
	// Study sessions
	protected.POST("/sessions", cfg.StudySessionHandler.Start)
	protected.POST("/sessions/:id/heartbeat", cfg.StudySessionHandler.Heartbeat)
	protected.POST("/sessions/:id/end", cfg.StudySessionHandler.End)

	return router
}
