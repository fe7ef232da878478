package progression

import "github.com/google/uuid"

// BadgeRule is the declarative unlock rule for one catalog badge: a single
// requirement key compared against the student's stats or the one-shot
// event context, plus the XP credited on award.
type BadgeRule struct {
	ID           uuid.UUID
	Name         string
	Requirements map[string]float64
	XPReward     int
}

// StudentStats are the cumulative counters badge requirements compare
// against. They are read-only inputs assembled by the caller.
type StudentStats struct {
	CurrentStreak      int
	QuizzesCompleted   int
	MockTestsCompleted int
	QuestionsAnswered  int
	TotalXP            int
	CurrentLevel       int
	OverallAccuracy    float64 // 0-100
	TopicsMastered     int     // mastery level 4+
	StudyTimeMinutes   int
}

// EventContext carries the one-shot flags describing the event that
// triggered this evaluation. Context-dependent badges only qualify when the
// matching flag is explicitly set for this call; they are never inferred
// from stored history.
type EventContext struct {
	PerfectQuiz  bool
	SpeedQuiz    bool
	EarlyStudy   bool
	NightStudy   bool
	WeekendStudy bool
	Comeback     bool
	TopTen       bool
}

// EvaluateBadges returns the catalog badges the student newly qualifies
// for, skipping already-earned ones. Each badge carries exactly one
// requirement key; badges with zero, multiple or unrecognized keys never
// qualify. Badges awarded by one pass are not re-checked within that pass.
func EvaluateBadges(stats StudentStats, evctx EventContext, earned map[uuid.UUID]bool, catalog []BadgeRule) []BadgeRule {
	var awarded []BadgeRule
	for _, rule := range catalog {
		if earned[rule.ID] {
			continue
		}
		if qualifies(rule, stats, evctx) {
			awarded = append(awarded, rule)
		}
	}
	return awarded
}

func qualifies(rule BadgeRule, stats StudentStats, evctx EventContext) bool {
	if len(rule.Requirements) != 1 {
		return false
	}
	for key, want := range rule.Requirements {
		switch key {
		case "streak_days":
			return float64(stats.CurrentStreak) >= want
		case "quizzes_completed":
			return float64(stats.QuizzesCompleted) >= want
		case "mock_tests_completed":
			return float64(stats.MockTestsCompleted) >= want
		case "questions_answered":
			return float64(stats.QuestionsAnswered) >= want
		case "total_xp":
			return float64(stats.TotalXP) >= want
		case "level":
			return float64(stats.CurrentLevel) >= want
		case "min_accuracy":
			return stats.OverallAccuracy >= want
		case "topics_mastered":
			return float64(stats.TopicsMastered) >= want
		case "study_time_minutes":
			return float64(stats.StudyTimeMinutes) >= want
		case "perfect_quiz":
			return evctx.PerfectQuiz
		case "speed_quiz":
			return evctx.SpeedQuiz
		case "early_study":
			return evctx.EarlyStudy
		case "night_study":
			return evctx.NightStudy
		case "weekend_study":
			return evctx.WeekendStudy
		case "comeback":
			return evctx.Comeback
		case "top_10":
			return evctx.TopTen
		default:
			// Unknown requirement shapes never qualify.
			return false
		}
	}
	return false
}
