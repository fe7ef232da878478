package progression

import (
	"fmt"
	"time"
)

// MasteryState is the per (student, topic) aggregate the mastery rules
// operate on. It mirrors the persisted TopicMastery row.
type MasteryState struct {
	TotalQuestionsAttempted int
	TotalCorrectAnswers     int
	AccuracyPercentage      float64 // 0-100
	AverageTimePerQuestion  int     // seconds
	MasteryScore            float64 // 0-100
	MasteryLevel            int     // 1-5
	NeedsRevision           bool
	StreakCorrect           int
	LastAttempted           time.Time
}

const (
	// masteryVolumeCeiling is the attempt count at which the volume factor
	// saturates: below it, even perfect accuracy cannot reach full score.
	masteryVolumeCeiling = 50
)

// RecordAttempt folds a batch of answered questions for one topic into the
// state: correct of total questions, averaging avgTimeSeconds per question.
//
// The average-time update is a half-weight smoothing of the previous value
// with the new sample, not a true running mean. It is biased toward recent
// samples; the behavior is kept as-is because downstream score history
// depends on it.
func RecordAttempt(state MasteryState, correct, total, avgTimeSeconds int, at time.Time) (MasteryState, error) {
	if correct < 0 || total < 0 || avgTimeSeconds < 0 {
		return state, fmt.Errorf("%w: negative attempt counts (correct=%d total=%d avg_time=%d)", ErrInvalidInput, correct, total, avgTimeSeconds)
	}
	if correct > total {
		return state, fmt.Errorf("%w: correct=%d exceeds total=%d", ErrInvalidInput, correct, total)
	}

	state.TotalQuestionsAttempted += total
	state.TotalCorrectAnswers += correct
	if state.TotalCorrectAnswers > state.TotalQuestionsAttempted {
		return state, fmt.Errorf("%w: correct answers %d exceed attempts %d", ErrInconsistentState, state.TotalCorrectAnswers, state.TotalQuestionsAttempted)
	}

	if state.TotalQuestionsAttempted > 0 {
		state.AccuracyPercentage = float64(state.TotalCorrectAnswers) / float64(state.TotalQuestionsAttempted) * 100
	}

	if state.AverageTimePerQuestion == 0 {
		state.AverageTimePerQuestion = avgTimeSeconds
	} else {
		state.AverageTimePerQuestion = (state.AverageTimePerQuestion + avgTimeSeconds) / 2
	}

	volumeFactor := float64(state.TotalQuestionsAttempted) / masteryVolumeCeiling
	if volumeFactor > 1 {
		volumeFactor = 1
	}
	state.MasteryScore = state.AccuracyPercentage * (0.5 + 0.5*volumeFactor)
	state.MasteryLevel = masteryLevelForScore(state.MasteryScore)
	state.NeedsRevision = state.MasteryLevel <= 2

	if total > 0 {
		if correct == total {
			state.StreakCorrect += correct
		} else {
			state.StreakCorrect = 0
		}
	}

	state.LastAttempted = at
	return state, nil
}

func masteryLevelForScore(score float64) int {
	switch {
	case score >= 90:
		return 5
	case score >= 75:
		return 4
	case score >= 60:
		return 3
	case score >= 40:
		return 2
	default:
		return 1
	}
}
