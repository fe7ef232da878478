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

type GamificationService interface {
	AwardXP(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, txType progression.TransactionType, amount int, description string, referenceID *uuid.UUID) (*progression.AwardResult, error)
	CheckBadges(ctx context.Context, studentID uuid.UUID, evctx progression.EventContext) ([]*types.Badge, error)
	CheckNewBadges(ctx context.Context, studentID uuid.UUID) ([]*types.Badge, error)
	BadgeCatalog(ctx context.Context, studentID uuid.UUID) ([]*types.Badge, error)
	ListBadges(ctx context.Context, studentID uuid.UUID) ([]*types.StudentBadge, error)
	XPHistory(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*types.XPTransaction, error)
	XPSummary(ctx context.Context, studentID uuid.UUID) (*XPSummary, error)
}

// XPSummary is the aggregate view behind the XP summary endpoint.
type XPSummary struct {
	TotalXP      int            `json:"total_xp"`
	CurrentLevel int            `json:"current_level"`
	NextLevelXP  int            `json:"next_level_xp"`
	ByType       map[string]int `json:"by_type"`
}

type gamificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	profileRepo      repos.StudentProfileRepo
	xpRepo           repos.XPTransactionRepo
	badgeRepo        repos.BadgeRepo
	studentBadgeRepo repos.StudentBadgeRepo
	masteryRepo      repos.TopicMasteryRepo
	streakRepo       repos.StreakRepo
}

func NewGamificationService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.StudentProfileRepo,
	xpRepo repos.XPTransactionRepo,
	badgeRepo repos.BadgeRepo,
	studentBadgeRepo repos.StudentBadgeRepo,
	masteryRepo repos.TopicMasteryRepo,
	streakRepo repos.StreakRepo,
) GamificationService {
	serviceLog := log.With("service", "GamificationService")
	return &gamificationService{
		db:               db,
		log:              serviceLog,
		profileRepo:      profileRepo,
		xpRepo:           xpRepo,
		badgeRepo:        badgeRepo,
		studentBadgeRepo: studentBadgeRepo,
		masteryRepo:      masteryRepo,
		streakRepo:       streakRepo,
	}
}

// AwardXP applies one ledger award under a row lock on the profile. When
// tx is nil it runs in its own transaction.
func (gs *gamificationService) AwardXP(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, txType progression.TransactionType, amount int, description string, referenceID *uuid.UUID) (*progression.AwardResult, error) {
	if studentID == uuid.Nil {
		return nil, fmt.Errorf("student id required")
	}

	var result *progression.AwardResult
	run := func(transaction *gorm.DB) error {
		profile, pErr := gs.profileRepo.GetByIDForUpdate(ctx, transaction, studentID)
		if pErr != nil {
			return fmt.Errorf("failed to lock student profile: %w", pErr)
		}
		if profile == nil {
			return fmt.Errorf("student profile not found")
		}

		totals := progression.XPTotals{
			TotalXP:      profile.TotalXP,
			CurrentLevel: profile.CurrentLevel,
		}
		res, aErr := progression.Award(totals, amount, txType, description, referenceID)
		if aErr != nil {
			return aErr
		}

		rows := make([]*types.XPTransaction, 0, len(res.Rows))
		now := time.Now().UTC()
		for i, row := range res.Rows {
			rows = append(rows, &types.XPTransaction{
				ID:              uuid.New(),
				StudentID:       studentID,
				TransactionType: string(row.Type),
				Amount:          row.Amount,
				Description:     row.Description,
				ReferenceID:     row.ReferenceID,
				BalanceAfter:    row.BalanceAfter,
				CreatedAt:       now.Add(time.Duration(i) * time.Microsecond),
			})
		}
		if _, cErr := gs.xpRepo.Create(ctx, transaction, rows); cErr != nil {
			return fmt.Errorf("failed to write xp ledger: %w", cErr)
		}
		if uErr := gs.profileRepo.SetXPAndLevel(ctx, transaction, studentID, res.NewBalance, res.NewLevel); uErr != nil {
			return fmt.Errorf("failed to update profile totals: %w", uErr)
		}
		result = &res
		return nil
	}

	if tx != nil {
		if err := run(tx); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := gs.db.WithContext(ctx).Transaction(run); err != nil {
		return nil, err
	}
	return result, nil
}

// CheckBadges evaluates the catalog against the student's current stats
// and awards anything newly earned. Badge XP goes through AwardXP but
// never triggers another evaluation round.
func (gs *gamificationService) CheckBadges(ctx context.Context, studentID uuid.UUID, evctx progression.EventContext) ([]*types.Badge, error) {
	if studentID == uuid.Nil {
		return nil, fmt.Errorf("student id required")
	}

	stats, sErr := gs.loadStudentStats(ctx, studentID)
	if sErr != nil {
		return nil, sErr
	}
	earned, eErr := gs.studentBadgeRepo.EarnedSet(ctx, nil, studentID)
	if eErr != nil {
		return nil, fmt.Errorf("failed to load earned badges: %w", eErr)
	}
	catalogRows, cErr := gs.badgeRepo.ListActive(ctx, nil)
	if cErr != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", cErr)
	}

	catalog := make([]progression.BadgeRule, 0, len(catalogRows))
	byID := make(map[uuid.UUID]*types.Badge, len(catalogRows))
	for _, row := range catalogRows {
		var reqs map[string]float64
		if err := json.Unmarshal(row.Requirements, &reqs); err != nil {
			gs.log.Warn("Skipping badge with malformed requirements", "badge", row.Code, "error", err)
			continue
		}
		catalog = append(catalog, progression.BadgeRule{
			ID:           row.ID,
			Name:         row.Name,
			Requirements: reqs,
			XPReward:     row.XPReward,
		})
		byID[row.ID] = row
	}

	qualified := progression.EvaluateBadges(*stats, evctx, earned, catalog)
	awarded := make([]*types.Badge, 0, len(qualified))
	for _, rule := range qualified {
		badge := byID[rule.ID]
		if badge == nil {
			continue
		}
		err := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			created, awErr := gs.studentBadgeRepo.AwardOnce(ctx, tx, &types.StudentBadge{
				StudentID: studentID,
				BadgeID:   badge.ID,
				EarnedAt:  time.Now().UTC(),
			})
			if awErr != nil {
				return awErr
			}
			if !created {
				return nil
			}
			if badge.XPReward > 0 {
				refID := badge.ID
				if _, xErr := gs.AwardXP(ctx, tx, studentID, progression.TxBadgeEarned, badge.XPReward, fmt.Sprintf("Badge earned: %s", badge.Name), &refID); xErr != nil {
					return xErr
				}
			}
			awarded = append(awarded, badge)
			return nil
		})
		if err != nil {
			gs.log.Warn("Failed to award badge", "badge", badge.Code, "error", err)
		}
	}
	return awarded, nil
}

func (gs *gamificationService) loadStudentStats(ctx context.Context, studentID uuid.UUID) (*progression.StudentStats, error) {
	profile, pErr := gs.profileRepo.GetByID(ctx, nil, studentID)
	if pErr != nil {
		return nil, fmt.Errorf("failed to load profile: %w", pErr)
	}
	if profile == nil {
		return nil, fmt.Errorf("student profile not found")
	}

	streak, stErr := gs.streakRepo.Get(ctx, nil, studentID, nil)
	if stErr != nil {
		return nil, fmt.Errorf("failed to load streak: %w", stErr)
	}
	currentStreak := 0
	if streak != nil {
		currentStreak = streak.CurrentStreak
	}

	mastered, mErr := gs.masteryRepo.CountMastered(ctx, nil, studentID, 4)
	if mErr != nil {
		return nil, fmt.Errorf("failed to count mastered topics: %w", mErr)
	}

	var quizCount, mockCount int64
	if err := gs.db.WithContext(ctx).
		Model(&types.XPTransaction{}).
		Where("student_id = ? AND transaction_type = ?", studentID, string(progression.TxQuizComplete)).
		Count(&quizCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count quizzes: %w", err)
	}
	if err := gs.db.WithContext(ctx).
		Model(&types.XPTransaction{}).
		Where("student_id = ? AND transaction_type = ?", studentID, string(progression.TxMockTest)).
		Count(&mockCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count mock tests: %w", err)
	}

	return &progression.StudentStats{
		CurrentStreak:      currentStreak,
		QuizzesCompleted:   int(quizCount),
		MockTestsCompleted: int(mockCount),
		QuestionsAnswered:  profile.TotalQuestionsAttempted,
		TotalXP:            profile.TotalXP,
		CurrentLevel:       profile.CurrentLevel,
		OverallAccuracy:    profile.OverallAccuracy(),
		TopicsMastered:     int(mastered),
		StudyTimeMinutes:   profile.TotalStudyTimeMinutes,
	}, nil
}

// CheckNewBadges runs a plain stats-based evaluation (no event flags) and
// marks anything it awards as seen, so callers get each badge exactly once.
func (gs *gamificationService) CheckNewBadges(ctx context.Context, studentID uuid.UUID) ([]*types.Badge, error) {
	awarded, err := gs.CheckBadges(ctx, studentID, progression.EventContext{})
	if err != nil {
		return nil, err
	}
	if len(awarded) == 0 {
		return awarded, nil
	}
	ids := make([]uuid.UUID, 0, len(awarded))
	for _, b := range awarded {
		ids = append(ids, b.ID)
	}
	if mErr := gs.studentBadgeRepo.MarkSeen(ctx, nil, studentID, ids); mErr != nil {
		gs.log.Warn("Failed to mark badges seen", "error", mErr)
	}
	return awarded, nil
}

// BadgeCatalog lists the active catalog. Secret badges stay hidden until
// the student has earned them.
func (gs *gamificationService) BadgeCatalog(ctx context.Context, studentID uuid.UUID) ([]*types.Badge, error) {
	rows, err := gs.badgeRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}
	earned, eErr := gs.studentBadgeRepo.EarnedSet(ctx, nil, studentID)
	if eErr != nil {
		return nil, fmt.Errorf("failed to load earned badges: %w", eErr)
	}
	visible := make([]*types.Badge, 0, len(rows))
	for _, row := range rows {
		if row.IsSecret && !earned[row.ID] {
			continue
		}
		visible = append(visible, row)
	}
	return visible, nil
}

func (gs *gamificationService) ListBadges(ctx context.Context, studentID uuid.UUID) ([]*types.StudentBadge, error) {
	return gs.studentBadgeRepo.ListByStudent(ctx, nil, studentID)
}

func (gs *gamificationService) XPHistory(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*types.XPTransaction, error) {
	return gs.xpRepo.ListByStudent(ctx, nil, studentID, limit, offset)
}

func (gs *gamificationService) XPSummary(ctx context.Context, studentID uuid.UUID) (*XPSummary, error) {
	profile, pErr := gs.profileRepo.GetByID(ctx, nil, studentID)
	if pErr != nil {
		return nil, fmt.Errorf("failed to load profile: %w", pErr)
	}
	if profile == nil {
		return nil, fmt.Errorf("student profile not found")
	}

	type typeSum struct {
		TransactionType string
		Total           int
	}
	var sums []typeSum
	if err := gs.db.WithContext(ctx).
		Model(&types.XPTransaction{}).
		Select("transaction_type, COALESCE(SUM(amount), 0) AS total").
		Where("student_id = ?", studentID).
		Group("transaction_type").
		Scan(&sums).Error; err != nil {
		return nil, fmt.Errorf("failed to sum xp by type: %w", err)
	}

	byType := make(map[string]int, len(sums))
	for _, s := range sums {
		byType[s.TransactionType] = s.Total
	}
	return &XPSummary{
		TotalXP:      profile.TotalXP,
		CurrentLevel: profile.CurrentLevel,
		NextLevelXP:  progression.NextLevelThreshold(profile.CurrentLevel),
		ByType:       byType,
	}, nil
}
