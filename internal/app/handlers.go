package app

import (
	"github.com/dailytaiyari/backend/internal/handlers"
	"github.com/dailytaiyari/backend/internal/logger"
)

type Handlers struct {
	Healthcheck  *handlers.HealthcheckHandler
	Auth         *handlers.AuthHandler
	Profile      *handlers.ProfileHandler
	Activity     *handlers.ActivityHandler
	Gamification *handlers.GamificationHandler
	Leaderboard  *handlers.LeaderboardHandler
	Analytics    *handlers.AnalyticsHandler
	StudySession *handlers.StudySessionHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Healthcheck:  handlers.NewHealthcheckHandler(),
		Auth:         handlers.NewAuthHandler(s.Auth),
		Profile:      handlers.NewProfileHandler(s.Student),
		Activity:     handlers.NewActivityHandler(s.Activity),
		Gamification: handlers.NewGamificationHandler(s.Gamification),
		Leaderboard:  handlers.NewLeaderboardHandler(s.Leaderboard),
		Analytics:    handlers.NewAnalyticsHandler(s.Analytics),
		StudySession: handlers.NewStudySessionHandler(s.StudySession),
	}
}
