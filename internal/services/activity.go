package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/progression"
	"github.com/dailytaiyari/backend/internal/repos"
	"github.com/dailytaiyari/backend/internal/types"
)

// QuizResult is one completed quiz or mock test to absorb.
type QuizResult struct {
	StudentID       uuid.UUID
	TopicID         uuid.UUID
	ExamID          *uuid.UUID
	CorrectAnswers  int
	TotalQuestions  int
	AvgTimeSeconds  int
	DurationMinutes int
	MockTest        bool
	DailyChallenge  bool
	CompletedAt     time.Time
}

// QuizOutcome reports everything the absorption changed, for the response
// payload.
type QuizOutcome struct {
	Mastery       *types.TopicMastery `json:"mastery"`
	Streak        *types.Streak       `json:"streak"`
	XPAwarded     int                 `json:"xp_awarded"`
	StreakBonusXP int                 `json:"streak_bonus_xp"`
	GoalBonusXP   int                 `json:"goal_bonus_xp"`
	LeveledUp     bool                `json:"leveled_up"`
	NewLevel      int                 `json:"new_level"`
	TotalXP       int                 `json:"total_xp"`
	BadgesAwarded []*types.Badge      `json:"badges_awarded"`
}

const (
	dailyGoalBonusXP = 50

	speedQuizMaxAvgSeconds = 20
	earlyStudyEndHour      = 7
	nightStudyStartHour    = 23
	comebackGapDays        = 7
)

type ActivityService interface {
	RecordQuizCompletion(ctx context.Context, result QuizResult) (*QuizOutcome, error)
	RecordStudyTime(ctx context.Context, studentID uuid.UUID, minutes int, at time.Time) error
}

type activityService struct {
	db           *gorm.DB
	log          *logger.Logger
	profileRepo  repos.StudentProfileRepo
	masteryRepo  repos.TopicMasteryRepo
	streakRepo   repos.StreakRepo
	activityRepo repos.DailyActivityRepo
	gamification GamificationService
}

func NewActivityService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.StudentProfileRepo,
	masteryRepo repos.TopicMasteryRepo,
	streakRepo repos.StreakRepo,
	activityRepo repos.DailyActivityRepo,
	gamification GamificationService,
) ActivityService {
	serviceLog := log.With("service", "ActivityService")
	return &activityService{
		db:           db,
		log:          serviceLog,
		profileRepo:  profileRepo,
		masteryRepo:  masteryRepo,
		streakRepo:   streakRepo,
		activityRepo: activityRepo,
		gamification: gamification,
	}
}

// RecordQuizCompletion folds one quiz into mastery, streak, daily activity
// and the XP ledger in a single transaction, then evaluates badges outside
// it. A failure anywhere in the transaction rolls back every effect.
func (vs *activityService) RecordQuizCompletion(ctx context.Context, result QuizResult) (*QuizOutcome, error) {
	if result.StudentID == uuid.Nil || result.TopicID == uuid.Nil {
		return nil, fmt.Errorf("student and topic required")
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now().UTC()
	}
	day := progression.DateOf(result.CompletedAt)

	outcome := &QuizOutcome{BadgesAwarded: []*types.Badge{}}
	var prevStreak int
	var prevLastActivity *time.Time

	err := vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Mastery
		masteryRow, mErr := vs.masteryRepo.GetForUpdate(ctx, tx, result.StudentID, result.TopicID)
		if mErr != nil {
			return fmt.Errorf("failed to load topic mastery: %w", mErr)
		}
		state := progression.MasteryState{}
		if masteryRow != nil {
			state = progression.MasteryState{
				TotalQuestionsAttempted: masteryRow.TotalQuestionsAttempted,
				TotalCorrectAnswers:     masteryRow.TotalCorrectAnswers,
				AccuracyPercentage:      masteryRow.AccuracyPercentage,
				AverageTimePerQuestion:  masteryRow.AverageTimePerQuestion,
				MasteryScore:            masteryRow.MasteryScore,
				MasteryLevel:            masteryRow.MasteryLevel,
				NeedsRevision:           masteryRow.NeedsRevision,
				StreakCorrect:           masteryRow.StreakCorrect,
				LastAttempted:           masteryRow.LastAttempted,
			}
		}
		newState, raErr := progression.RecordAttempt(state, result.CorrectAnswers, result.TotalQuestions, result.AvgTimeSeconds, result.CompletedAt)
		if raErr != nil {
			return raErr
		}
		if masteryRow == nil {
			masteryRow = &types.TopicMastery{
				ID:        uuid.New(),
				StudentID: result.StudentID,
				TopicID:   result.TopicID,
				CreatedAt: time.Now().UTC(),
			}
		}
		masteryRow.TotalQuestionsAttempted = newState.TotalQuestionsAttempted
		masteryRow.TotalCorrectAnswers = newState.TotalCorrectAnswers
		masteryRow.AccuracyPercentage = newState.AccuracyPercentage
		masteryRow.AverageTimePerQuestion = newState.AverageTimePerQuestion
		masteryRow.MasteryScore = newState.MasteryScore
		masteryRow.MasteryLevel = newState.MasteryLevel
		masteryRow.NeedsRevision = newState.NeedsRevision
		masteryRow.StreakCorrect = newState.StreakCorrect
		masteryRow.LastAttempted = newState.LastAttempted
		masteryRow.UpdatedAt = time.Now().UTC()
		if uErr := vs.masteryRepo.Upsert(ctx, tx, masteryRow); uErr != nil {
			return fmt.Errorf("failed to upsert topic mastery: %w", uErr)
		}
		outcome.Mastery = masteryRow

		// Streak. The global streak drives bonuses; an exam-scoped streak
		// is tracked alongside when the quiz names its exam.
		streakRow, prev, prevLast, stErr := vs.updateStreak(ctx, tx, result.StudentID, nil, result.CompletedAt)
		if stErr != nil {
			return stErr
		}
		prevStreak = prev
		prevLastActivity = prevLast
		outcome.Streak = streakRow
		if result.ExamID != nil {
			if _, _, _, exErr := vs.updateStreak(ctx, tx, result.StudentID, result.ExamID, result.CompletedAt); exErr != nil {
				return exErr
			}
		}

		// Quiz XP
		accuracy := 0.0
		if result.TotalQuestions > 0 {
			accuracy = float64(result.CorrectAnswers) / float64(result.TotalQuestions) * 100
		}
		quizXP := progression.XPForQuiz(accuracy, result.TotalQuestions, result.DailyChallenge)
		txType := progression.TxQuizComplete
		desc := "Quiz completed"
		if result.MockTest {
			txType = progression.TxMockTest
			desc = "Mock test completed"
		}
		awardRes, axErr := vs.gamification.AwardXP(ctx, tx, result.StudentID, txType, quizXP, desc, nil)
		if axErr != nil {
			return axErr
		}
		outcome.XPAwarded = quizXP
		outcome.LeveledUp = awardRes.LeveledUp
		outcome.NewLevel = awardRes.NewLevel
		outcome.TotalXP = awardRes.NewBalance
		totalDayXP := quizXP + awardRes.LevelBonus

		// Streak bonus only when the streak actually advanced
		if streakRow.CurrentStreak > prevStreak {
			bonus := progression.StreakBonus(streakRow.CurrentStreak)
			if bonus > 0 {
				bonusRes, bErr := vs.gamification.AwardXP(ctx, tx, result.StudentID, progression.TxStreakBonus, bonus, fmt.Sprintf("%d-day streak", streakRow.CurrentStreak), nil)
				if bErr != nil {
					return bErr
				}
				outcome.StreakBonusXP = bonus
				outcome.LeveledUp = outcome.LeveledUp || bonusRes.LeveledUp
				outcome.NewLevel = bonusRes.NewLevel
				outcome.TotalXP = bonusRes.NewBalance
				totalDayXP += bonus + bonusRes.LevelBonus
			}
		}

		// Daily activity and profile totals
		if daErr := vs.activityRepo.UpsertDelta(ctx, tx, result.StudentID, day,
			result.TotalQuestions, result.CorrectAnswers, result.DurationMinutes, 1, totalDayXP); daErr != nil {
			return fmt.Errorf("failed to upsert daily activity: %w", daErr)
		}
		if ptErr := vs.profileRepo.AddTotals(ctx, tx, result.StudentID, result.TotalQuestions, result.CorrectAnswers, result.DurationMinutes); ptErr != nil {
			return fmt.Errorf("failed to bump profile totals: %w", ptErr)
		}

		// Daily goal latch
		goalXP, gErr := vs.maybeAwardDailyGoal(ctx, tx, result.StudentID, day)
		if gErr != nil {
			return gErr
		}
		if goalXP > 0 {
			outcome.GoalBonusXP = goalXP
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	evctx := vs.buildEventContext(result, prevLastActivity)
	awarded, bErr := vs.gamification.CheckBadges(ctx, result.StudentID, evctx)
	if bErr != nil {
		// Badge evaluation is best-effort; the absorbed quiz is committed.
		vs.log.Warn("Badge evaluation failed", "error", bErr)
	} else {
		outcome.BadgesAwarded = awarded
	}
	return outcome, nil
}

// RecordStudyTime absorbs session minutes that did not come from a quiz.
func (vs *activityService) RecordStudyTime(ctx context.Context, studentID uuid.UUID, minutes int, at time.Time) error {
	if studentID == uuid.Nil {
		return fmt.Errorf("student id required")
	}
	if minutes <= 0 {
		return nil
	}
	day := progression.DateOf(at)
	return vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := vs.activityRepo.UpsertDelta(ctx, tx, studentID, day, 0, 0, minutes, 0, 0); err != nil {
			return fmt.Errorf("failed to upsert daily activity: %w", err)
		}
		if err := vs.profileRepo.AddTotals(ctx, tx, studentID, 0, 0, minutes); err != nil {
			return fmt.Errorf("failed to bump profile totals: %w", err)
		}
		_, gErr := vs.maybeAwardDailyGoal(ctx, tx, studentID, day)
		return gErr
	})
}

// updateStreak folds an activity date into the (student, exam) streak row
// under a row lock, creating the row on first activity. It returns the
// updated row plus the pre-update streak length and last activity date.
func (vs *activityService) updateStreak(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, examID *uuid.UUID, at time.Time) (*types.Streak, int, *time.Time, error) {
	streakRow, sErr := vs.streakRepo.GetForUpdate(ctx, tx, studentID, examID)
	if sErr != nil {
		return nil, 0, nil, fmt.Errorf("failed to load streak: %w", sErr)
	}
	state := progression.StreakState{}
	if streakRow != nil {
		state = progression.StreakState{
			CurrentStreak:      streakRow.CurrentStreak,
			LastActivityDate:   streakRow.LastActivityDate,
			LongestStreak:      streakRow.LongestStreak,
			LongestStreakStart: streakRow.LongestStreakStart,
			LongestStreakEnd:   streakRow.LongestStreakEnd,
			TotalActiveDays:    streakRow.TotalActiveDays,
		}
	}
	prevStreak := state.CurrentStreak
	prevLastActivity := state.LastActivityDate

	newState := progression.RecordActivity(state, at)
	if streakRow == nil {
		streakRow = &types.Streak{
			ID:        uuid.New(),
			StudentID: studentID,
			ExamID:    examID,
			CreatedAt: time.Now().UTC(),
		}
		if _, cErr := vs.streakRepo.Create(ctx, tx, streakRow); cErr != nil {
			return nil, 0, nil, fmt.Errorf("failed to create streak: %w", cErr)
		}
	}
	streakRow.CurrentStreak = newState.CurrentStreak
	streakRow.LastActivityDate = newState.LastActivityDate
	streakRow.LongestStreak = newState.LongestStreak
	streakRow.LongestStreakStart = newState.LongestStreakStart
	streakRow.LongestStreakEnd = newState.LongestStreakEnd
	streakRow.TotalActiveDays = newState.TotalActiveDays
	streakRow.UpdatedAt = time.Now().UTC()
	if uErr := vs.streakRepo.Update(ctx, tx, streakRow); uErr != nil {
		return nil, 0, nil, fmt.Errorf("failed to update streak: %w", uErr)
	}
	return streakRow, prevStreak, prevLastActivity, nil
}

// maybeAwardDailyGoal awards the goal bonus at most once per day, using the
// goal_met column as the latch.
func (vs *activityService) maybeAwardDailyGoal(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, day time.Time) (int, error) {
	profile, pErr := vs.profileRepo.GetByID(ctx, tx, studentID)
	if pErr != nil {
		return 0, fmt.Errorf("failed to load profile: %w", pErr)
	}
	if profile == nil || profile.DailyStudyGoalMinutes <= 0 {
		return 0, nil
	}
	activity, aErr := vs.activityRepo.Get(ctx, tx, studentID, day)
	if aErr != nil {
		return 0, fmt.Errorf("failed to load daily activity: %w", aErr)
	}
	if activity == nil || activity.GoalMet || activity.StudyTimeMinutes < profile.DailyStudyGoalMinutes {
		return 0, nil
	}
	flipped, mErr := vs.activityRepo.MarkGoalMet(ctx, tx, studentID, day)
	if mErr != nil {
		return 0, fmt.Errorf("failed to mark goal met: %w", mErr)
	}
	if !flipped {
		return 0, nil
	}
	if _, xErr := vs.gamification.AwardXP(ctx, tx, studentID, progression.TxDailyGoal, dailyGoalBonusXP, "Daily study goal met", nil); xErr != nil {
		return 0, xErr
	}
	return dailyGoalBonusXP, nil
}

func (vs *activityService) buildEventContext(result QuizResult, prevLastActivity *time.Time) progression.EventContext {
	completed := result.CompletedAt.UTC()
	hour := completed.Hour()
	weekday := completed.Weekday()

	comeback := false
	if prevLastActivity != nil {
		gap := progression.DateOf(completed).Sub(progression.DateOf(*prevLastActivity))
		comeback = gap >= comebackGapDays*24*time.Hour
	}

	return progression.EventContext{
		PerfectQuiz:  result.TotalQuestions > 0 && result.CorrectAnswers == result.TotalQuestions,
		SpeedQuiz:    result.TotalQuestions > 0 && result.AvgTimeSeconds > 0 && result.AvgTimeSeconds <= speedQuizMaxAvgSeconds,
		EarlyStudy:   hour < earlyStudyEndHour,
		NightStudy:   hour >= nightStudyStartHour,
		WeekendStudy: weekday == time.Saturday || weekday == time.Sunday,
		Comeback:     comeback,
	}
}
