package app

import (
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	UserToken      repos.UserTokenRepo
	StudentProfile repos.StudentProfileRepo
	Exam           repos.ExamRepo
	TopicMastery   repos.TopicMasteryRepo
	Streak         repos.StreakRepo
	DailyActivity  repos.DailyActivityRepo
	XPTransaction  repos.XPTransactionRepo
	Badge          repos.BadgeRepo
	StudentBadge   repos.StudentBadgeRepo
	Leaderboard    repos.LeaderboardRepo
	StudySession   repos.StudySessionRepo
	WeeklyReport   repos.WeeklyReportRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		StudentProfile: repos.NewStudentProfileRepo(db, log),
		Exam:           repos.NewExamRepo(db, log),
		TopicMastery:   repos.NewTopicMasteryRepo(db, log),
		Streak:         repos.NewStreakRepo(db, log),
		DailyActivity:  repos.NewDailyActivityRepo(db, log),
		XPTransaction:  repos.NewXPTransactionRepo(db, log),
		Badge:          repos.NewBadgeRepo(db, log),
		StudentBadge:   repos.NewStudentBadgeRepo(db, log),
		Leaderboard:    repos.NewLeaderboardRepo(db, log),
		StudySession:   repos.NewStudySessionRepo(db, log),
		WeeklyReport:   repos.NewWeeklyReportRepo(db, log),
	}
}
