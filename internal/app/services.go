package app

import (
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/services"
)

type Services struct {
	Avatar       services.AvatarService
	Auth         services.AuthService
	Student      services.StudentService
	Gamification services.GamificationService
	Activity     services.ActivityService
	Leaderboard  services.LeaderboardService
	Analytics    services.AnalyticsService
	StudySession services.StudySessionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	avatar, err := services.NewAvatarService(db, log, clients.Media)
	if err != nil {
		return Services{}, err
	}

	auth := services.NewAuthService(db, log, r.User, r.StudentProfile, avatar, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	student := services.NewStudentService(db, log, r.User, r.StudentProfile, r.Exam, avatar)
	gamification := services.NewGamificationService(db, log, r.StudentProfile, r.XPTransaction, r.Badge, r.StudentBadge, r.TopicMastery, r.Streak)
	activity := services.NewActivityService(db, log, r.StudentProfile, r.TopicMastery, r.Streak, r.DailyActivity, gamification)
	leaderboard := services.NewLeaderboardService(db, log, r.DailyActivity, r.Leaderboard, r.Exam, clients.LeaderboardCache)
	analytics := services.NewAnalyticsService(db, log, r.StudentProfile, r.TopicMastery, r.Streak, r.DailyActivity, r.StudentBadge, r.WeeklyReport)
	studySession := services.NewStudySessionService(db, log, r.StudySession, activity)

	return Services{
		Avatar:       avatar,
		Auth:         auth,
		Student:      student,
		Gamification: gamification,
		Activity:     activity,
		Leaderboard:  leaderboard,
		Analytics:    analytics,
		StudySession: studySession,
	}, nil
}
