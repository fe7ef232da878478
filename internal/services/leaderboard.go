package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/clients/redis"
	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/progression"
	"github.com/dailytaiyari/backend/internal/repos"
	"github.com/dailytaiyari/backend/internal/types"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAllTime = "all_time"
)

var leaderboardPeriods = []string{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime}

// allTimeEpoch anchors the all_time window so its snapshot rows share one
// period_start.
var allTimeEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type LeaderboardService interface {
	Refresh(ctx context.Context, period string, examID *uuid.UUID) error
	RefreshAll(ctx context.Context) error
	Get(ctx context.Context, period string, examID *uuid.UUID, limit int) ([]*types.LeaderboardEntry, error)
	StudentRank(ctx context.Context, period string, examID *uuid.UUID, studentID uuid.UUID) (*types.LeaderboardEntry, error)
}

type leaderboardService struct {
	db              *gorm.DB
	log             *logger.Logger
	activityRepo    repos.DailyActivityRepo
	leaderboardRepo repos.LeaderboardRepo
	examRepo        repos.ExamRepo
	cache           redis.LeaderboardCache
}

func NewLeaderboardService(
	db *gorm.DB,
	log *logger.Logger,
	activityRepo repos.DailyActivityRepo,
	leaderboardRepo repos.LeaderboardRepo,
	examRepo repos.ExamRepo,
	cache redis.LeaderboardCache,
) LeaderboardService {
	serviceLog := log.With("service", "LeaderboardService")
	return &leaderboardService{
		db:              db,
		log:             serviceLog,
		activityRepo:    activityRepo,
		leaderboardRepo: leaderboardRepo,
		examRepo:        examRepo,
		cache:           cache,
	}
}

// PeriodWindow computes [start, end] calendar dates for a ranking window,
// relative to now. Weekly windows start on Monday.
func PeriodWindow(period string, now time.Time) (time.Time, time.Time, error) {
	today := progression.DateOf(now)
	switch period {
	case PeriodDaily:
		return today, today, nil
	case PeriodWeekly:
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return start, today, nil
	case PeriodMonthly:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, today, nil
	case PeriodAllTime:
		return allTimeEpoch, today, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown leaderboard period %q", period)
	}
}

// Refresh recomputes one window's snapshot from daily activity and swaps it
// in atomically, then repopulates the cache. A nil examID refreshes the
// global board; otherwise only students on that exam are ranked.
func (ls *leaderboardService) Refresh(ctx context.Context, period string, examID *uuid.UUID) error {
	tracer := otel.Tracer("leaderboard")
	ctx, span := tracer.Start(ctx, "leaderboard.refresh")
	span.SetAttributes(attribute.String("leaderboard.period", period))
	if examID != nil {
		span.SetAttributes(attribute.String("leaderboard.exam_id", examID.String()))
	}
	defer span.End()

	start, end, wErr := PeriodWindow(period, time.Now())
	if wErr != nil {
		return wErr
	}

	sums, sErr := ls.activityRepo.SumRange(ctx, nil, start, end, examID)
	if sErr != nil {
		return fmt.Errorf("failed to aggregate activity: %w", sErr)
	}

	metrics := make(map[uuid.UUID]progression.WindowMetrics, len(sums))
	for _, s := range sums {
		metrics[s.StudentID] = progression.WindowMetrics{
			XPEarned:          s.XPEarned,
			QuestionsAnswered: s.QuestionsAnswered,
			CorrectAnswers:    s.CorrectAnswers,
			StudyTimeMinutes:  s.StudyTimeMinutes,
		}
	}

	previous, pErr := ls.leaderboardRepo.PreviousRanks(ctx, nil, period, start, examID)
	if pErr != nil {
		return fmt.Errorf("failed to load previous ranks: %w", pErr)
	}

	ranked := progression.Rank(metrics, previous)

	now := time.Now().UTC()
	rows := make([]*types.LeaderboardEntry, 0, len(ranked))
	for _, entry := range ranked {
		rows = append(rows, &types.LeaderboardEntry{
			ID:                uuid.New(),
			Period:            period,
			PeriodStart:       start,
			ExamID:            examID,
			StudentID:         entry.StudentID,
			XPEarned:          entry.XPEarned,
			QuestionsAnswered: entry.QuestionsAnswered,
			Accuracy:          entry.Accuracy,
			StudyTimeMinutes:  entry.StudyTimeMinutes,
			Rank:              entry.Rank,
			PreviousRank:      entry.PreviousRank,
			RankChange:        entry.RankChange,
			ComputedAt:        now,
		})
	}

	if rErr := ls.leaderboardRepo.ReplaceSnapshot(ctx, nil, period, start, examID, rows); rErr != nil {
		return fmt.Errorf("failed to replace snapshot: %w", rErr)
	}
	span.SetAttributes(attribute.Int("leaderboard.entries", len(rows)))

	if ls.cache != nil {
		if cErr := ls.cache.Set(ctx, period, start, examID, rows); cErr != nil {
			ls.log.Warn("Failed to cache leaderboard snapshot", "period", period, "error", cErr)
		}
	}
	ls.log.Info("Leaderboard refreshed", "period", period, "entries", len(rows))
	return nil
}

// RefreshAll rebuilds the global board and every exam board for each
// period.
func (ls *leaderboardService) RefreshAll(ctx context.Context) error {
	exams, eErr := ls.examRepo.List(ctx, nil)
	if eErr != nil {
		return fmt.Errorf("failed to list exams: %w", eErr)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, period := range leaderboardPeriods {
		period := period
		g.Go(func() error {
			return ls.Refresh(gctx, period, nil)
		})
		for _, exam := range exams {
			examID := exam.ID
			g.Go(func() error {
				return ls.Refresh(gctx, period, &examID)
			})
		}
	}
	return g.Wait()
}

func (ls *leaderboardService) Get(ctx context.Context, period string, examID *uuid.UUID, limit int) ([]*types.LeaderboardEntry, error) {
	start, _, wErr := PeriodWindow(period, time.Now())
	if wErr != nil {
		return nil, wErr
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	if ls.cache != nil {
		rows, hit, cErr := ls.cache.Get(ctx, period, start, examID)
		if cErr != nil {
			ls.log.Warn("Leaderboard cache read failed", "period", period, "error", cErr)
		} else if hit {
			if len(rows) > limit {
				rows = rows[:limit]
			}
			return rows, nil
		}
	}
	return ls.leaderboardRepo.ListTop(ctx, nil, period, start, examID, limit)
}

func (ls *leaderboardService) StudentRank(ctx context.Context, period string, examID *uuid.UUID, studentID uuid.UUID) (*types.LeaderboardEntry, error) {
	start, _, wErr := PeriodWindow(period, time.Now())
	if wErr != nil {
		return nil, wErr
	}
	return ls.leaderboardRepo.GetStudentEntry(ctx, nil, period, start, examID, studentID)
}
