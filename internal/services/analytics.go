package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/progression"
	"github.com/dailytaiyari/backend/internal/repos"
	"github.com/dailytaiyari/backend/internal/types"
)

// Dashboard is the student's progression overview.
type Dashboard struct {
	Profile         *types.StudentProfile  `json:"profile"`
	OverallAccuracy float64                `json:"overall_accuracy"`
	NextLevelXP     int                    `json:"next_level_xp"`
	Streak          *types.Streak          `json:"streak,omitempty"`
	Mastery         []*types.TopicMastery  `json:"mastery"`
	NeedsRevision   []*types.TopicMastery  `json:"needs_revision"`
	RecentActivity  []*types.DailyActivity `json:"recent_activity"`
	BadgeCount      int64                  `json:"badge_count"`
}

type topicBreakdownEntry struct {
	TopicID            uuid.UUID `json:"topic_id"`
	AccuracyPercentage float64   `json:"accuracy_percentage"`
	MasteryLevel       int       `json:"mastery_level"`
	QuestionsAttempted int       `json:"questions_attempted"`
}

type AnalyticsService interface {
	GetDashboard(ctx context.Context, studentID uuid.UUID) (*Dashboard, error)
	GenerateWeeklyReport(ctx context.Context, studentID uuid.UUID, weekStart time.Time) (*types.WeeklyReport, error)
	ListWeeklyReports(ctx context.Context, studentID uuid.UUID, limit int) ([]*types.WeeklyReport, error)
}

type analyticsService struct {
	db               *gorm.DB
	log              *logger.Logger
	profileRepo      repos.StudentProfileRepo
	masteryRepo      repos.TopicMasteryRepo
	streakRepo       repos.StreakRepo
	activityRepo     repos.DailyActivityRepo
	studentBadgeRepo repos.StudentBadgeRepo
	reportRepo       repos.WeeklyReportRepo
}

func NewAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.StudentProfileRepo,
	masteryRepo repos.TopicMasteryRepo,
	streakRepo repos.StreakRepo,
	activityRepo repos.DailyActivityRepo,
	studentBadgeRepo repos.StudentBadgeRepo,
	reportRepo repos.WeeklyReportRepo,
) AnalyticsService {
	serviceLog := log.With("service", "AnalyticsService")
	return &analyticsService{
		db:               db,
		log:              serviceLog,
		profileRepo:      profileRepo,
		masteryRepo:      masteryRepo,
		streakRepo:       streakRepo,
		activityRepo:     activityRepo,
		studentBadgeRepo: studentBadgeRepo,
		reportRepo:       reportRepo,
	}
}

func (an *analyticsService) GetDashboard(ctx context.Context, studentID uuid.UUID) (*Dashboard, error) {
	profile, pErr := an.profileRepo.GetByID(ctx, nil, studentID)
	if pErr != nil {
		return nil, fmt.Errorf("failed to load profile: %w", pErr)
	}
	if profile == nil {
		return nil, fmt.Errorf("student profile not found")
	}

	streak, sErr := an.streakRepo.Get(ctx, nil, studentID, nil)
	if sErr != nil {
		return nil, fmt.Errorf("failed to load streak: %w", sErr)
	}
	mastery, mErr := an.masteryRepo.ListByStudent(ctx, nil, studentID)
	if mErr != nil {
		return nil, fmt.Errorf("failed to load mastery: %w", mErr)
	}
	revision, rErr := an.masteryRepo.ListNeedingRevision(ctx, nil, studentID)
	if rErr != nil {
		return nil, fmt.Errorf("failed to load revision list: %w", rErr)
	}
	today := progression.DateOf(time.Now())
	recent, aErr := an.activityRepo.ListRange(ctx, nil, studentID, today.AddDate(0, 0, -13), today)
	if aErr != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", aErr)
	}
	badgeCount, bErr := an.studentBadgeRepo.CountByStudent(ctx, nil, studentID)
	if bErr != nil {
		return nil, fmt.Errorf("failed to count badges: %w", bErr)
	}

	return &Dashboard{
		Profile:         profile,
		OverallAccuracy: profile.OverallAccuracy(),
		NextLevelXP:     progression.NextLevelThreshold(profile.CurrentLevel),
		Streak:          streak,
		Mastery:         mastery,
		NeedsRevision:   revision,
		RecentActivity:  recent,
		BadgeCount:      badgeCount,
	}, nil
}

// GenerateWeeklyReport materializes the Monday-to-Sunday summary for the
// week containing weekStart. Regenerating overwrites the stored row.
func (an *analyticsService) GenerateWeeklyReport(ctx context.Context, studentID uuid.UUID, weekStart time.Time) (*types.WeeklyReport, error) {
	if studentID == uuid.Nil {
		return nil, fmt.Errorf("student id required")
	}
	day := progression.DateOf(weekStart)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)

	days, aErr := an.activityRepo.ListRange(ctx, nil, studentID, monday, sunday)
	if aErr != nil {
		return nil, fmt.Errorf("failed to load weekly activity: %w", aErr)
	}

	report := &types.WeeklyReport{
		ID:          uuid.New(),
		StudentID:   studentID,
		WeekStart:   monday,
		GeneratedAt: time.Now().UTC(),
	}
	for _, d := range days {
		report.QuestionsAnswered += d.QuestionsAnswered
		report.CorrectAnswers += d.CorrectAnswers
		report.StudyTimeMinutes += d.StudyTimeMinutes
		report.XPEarned += d.XPEarned
		if d.QuestionsAnswered > 0 || d.StudyTimeMinutes > 0 {
			report.ActiveDays++
		}
	}

	var badgeCount int64
	if err := an.db.WithContext(ctx).
		Model(&types.StudentBadge{}).
		Where("student_id = ? AND earned_at >= ? AND earned_at < ?", studentID, monday, sunday.AddDate(0, 0, 1)).
		Count(&badgeCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count weekly badges: %w", err)
	}
	report.BadgesEarned = int(badgeCount)

	mastery, mErr := an.masteryRepo.ListByStudent(ctx, nil, studentID)
	if mErr != nil {
		return nil, fmt.Errorf("failed to load mastery: %w", mErr)
	}
	breakdown := make([]topicBreakdownEntry, 0, len(mastery))
	for _, m := range mastery {
		breakdown = append(breakdown, topicBreakdownEntry{
			TopicID:            m.TopicID,
			AccuracyPercentage: m.AccuracyPercentage,
			MasteryLevel:       m.MasteryLevel,
			QuestionsAttempted: m.TotalQuestionsAttempted,
		})
	}
	raw, jErr := json.Marshal(breakdown)
	if jErr != nil {
		return nil, fmt.Errorf("failed to marshal topic breakdown: %w", jErr)
	}
	report.TopicBreakdown = raw

	if uErr := an.reportRepo.Upsert(ctx, nil, report); uErr != nil {
		return nil, fmt.Errorf("failed to store weekly report: %w", uErr)
	}
	return report, nil
}

func (an *analyticsService) ListWeeklyReports(ctx context.Context, studentID uuid.UUID, limit int) ([]*types.WeeklyReport, error) {
	return an.reportRepo.ListByStudent(ctx, nil, studentID, limit)
}
