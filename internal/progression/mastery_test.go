package progression

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestRecordAttempt_FirstBatch(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	state, err := RecordAttempt(MasteryState{}, 8, 10, 30, at)
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if state.AccuracyPercentage != 80 {
		t.Fatalf("accuracy: want=80 got=%v", state.AccuracyPercentage)
	}
	// 80 * (0.5 + 0.5*10/50) = 80 * 0.6
	if math.Abs(state.MasteryScore-48) > 1e-9 {
		t.Fatalf("mastery score: want=48 got=%v", state.MasteryScore)
	}
	if state.MasteryLevel != 2 {
		t.Fatalf("mastery level: want=2 got=%d", state.MasteryLevel)
	}
	if !state.NeedsRevision {
		t.Fatalf("expected needs_revision=true at level 2")
	}
	if state.AverageTimePerQuestion != 30 {
		t.Fatalf("average time: want=30 got=%d", state.AverageTimePerQuestion)
	}
	if !state.LastAttempted.Equal(at) {
		t.Fatalf("last_attempted: want=%v got=%v", at, state.LastAttempted)
	}
}

func TestRecordAttempt_AverageTimeHalfWeightSmoothing(t *testing.T) {
	at := time.Now()
	state, err := RecordAttempt(MasteryState{}, 5, 10, 40, at)
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	state, err = RecordAttempt(state, 5, 10, 20, at)
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	// (40 + 20) / 2, not a cumulative mean over 20 questions.
	if state.AverageTimePerQuestion != 30 {
		t.Fatalf("average time: want=30 got=%d", state.AverageTimePerQuestion)
	}
	state, err = RecordAttempt(state, 5, 10, 15, at)
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	// Integer division: (30 + 15) / 2 = 22.
	if state.AverageTimePerQuestion != 22 {
		t.Fatalf("average time: want=22 got=%d", state.AverageTimePerQuestion)
	}
}

func TestRecordAttempt_ZeroTotalLeavesAccuracyUnchanged(t *testing.T) {
	at := time.Now()
	state, err := RecordAttempt(MasteryState{}, 8, 10, 30, at)
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	before := state.AccuracyPercentage
	state, err = RecordAttempt(state, 0, 0, 0, at)
	if err != nil {
		t.Fatalf("RecordAttempt with total=0: %v", err)
	}
	if state.AccuracyPercentage != before {
		t.Fatalf("accuracy changed on empty batch: want=%v got=%v", before, state.AccuracyPercentage)
	}
}

func TestRecordAttempt_ZeroTotalOnFreshState(t *testing.T) {
	state, err := RecordAttempt(MasteryState{}, 0, 0, 0, time.Now())
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if state.AccuracyPercentage != 0 {
		t.Fatalf("accuracy: want=0 got=%v", state.AccuracyPercentage)
	}
}

func TestRecordAttempt_MonotoneInCorrectAnswers(t *testing.T) {
	at := time.Now()
	prevLevel := 0
	for correct := 0; correct <= 20; correct++ {
		state, err := RecordAttempt(MasteryState{}, correct, 20, 30, at)
		if err != nil {
			t.Fatalf("RecordAttempt(correct=%d): %v", correct, err)
		}
		if state.MasteryLevel < prevLevel {
			t.Fatalf("mastery level decreased from %d to %d at correct=%d", prevLevel, state.MasteryLevel, correct)
		}
		prevLevel = state.MasteryLevel
	}
}

func TestRecordAttempt_VolumeFactorCapsEarlyScores(t *testing.T) {
	state, err := RecordAttempt(MasteryState{}, 2, 2, 10, time.Now())
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	// 100% accuracy on 2 questions: 100 * (0.5 + 0.5*2/50) = 52.
	if math.Abs(state.MasteryScore-52) > 1e-9 {
		t.Fatalf("mastery score: want=52 got=%v", state.MasteryScore)
	}
	if state.MasteryLevel != 2 {
		t.Fatalf("mastery level: want=2 got=%d", state.MasteryLevel)
	}
}

func TestRecordAttempt_LevelThresholds(t *testing.T) {
	cases := []struct {
		score float64
		level int
	}{
		{95, 5}, {90, 5}, {89.99, 4}, {75, 4}, {74.99, 3},
		{60, 3}, {59.99, 2}, {40, 2}, {39.99, 1}, {0, 1},
	}
	for _, tc := range cases {
		if got := masteryLevelForScore(tc.score); got != tc.level {
			t.Fatalf("level for score %v: want=%d got=%d", tc.score, tc.level, got)
		}
	}
}

func TestRecordAttempt_StreakCorrect(t *testing.T) {
	at := time.Now()
	state, err := RecordAttempt(MasteryState{}, 5, 5, 30, at)
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if state.StreakCorrect != 5 {
		t.Fatalf("streak_correct: want=5 got=%d", state.StreakCorrect)
	}
	state, err = RecordAttempt(state, 3, 3, 30, at)
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if state.StreakCorrect != 8 {
		t.Fatalf("streak_correct: want=8 got=%d", state.StreakCorrect)
	}
	state, err = RecordAttempt(state, 2, 3, 30, at)
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if state.StreakCorrect != 0 {
		t.Fatalf("streak_correct after a miss: want=0 got=%d", state.StreakCorrect)
	}
}

func TestRecordAttempt_RejectsInvalidInput(t *testing.T) {
	at := time.Now()
	cases := []struct {
		name                    string
		correct, total, avgTime int
	}{
		{"negative correct", -1, 10, 30},
		{"negative total", 0, -1, 30},
		{"negative time", 5, 10, -1},
		{"correct exceeds total", 11, 10, 30},
	}
	for _, tc := range cases {
		before := MasteryState{TotalQuestionsAttempted: 4, TotalCorrectAnswers: 2}
		after, err := RecordAttempt(before, tc.correct, tc.total, tc.avgTime, at)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: want ErrInvalidInput, got %v", tc.name, err)
		}
		if after != before {
			t.Fatalf("%s: state mutated on rejected input", tc.name)
		}
	}
}
