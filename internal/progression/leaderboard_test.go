package progression

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestRank_XPPrimaryAccuracyTieBreak(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()
	metrics := map[uuid.UUID]WindowMetrics{
		a: {XPEarned: 500, QuestionsAnswered: 100, CorrectAnswers: 80},
		b: {XPEarned: 500, QuestionsAnswered: 100, CorrectAnswers: 90},
		c: {XPEarned: 300, QuestionsAnswered: 50, CorrectAnswers: 50},
	}
	entries := Rank(metrics, nil)
	if len(entries) != 3 {
		t.Fatalf("entries: want=3 got=%d", len(entries))
	}
	if entries[0].StudentID != b || entries[0].Rank != 1 {
		t.Fatalf("rank 1: want student B, got %+v", entries[0])
	}
	if entries[1].StudentID != a || entries[1].Rank != 2 {
		t.Fatalf("rank 2: want student A, got %+v", entries[1])
	}
	if entries[2].StudentID != c || entries[2].Rank != 3 {
		t.Fatalf("rank 3: want student C, got %+v", entries[2])
	}
	if entries[2].Accuracy != 100 {
		t.Fatalf("accuracy for C: want=100 got=%v", entries[2].Accuracy)
	}
}

func TestRank_Deterministic(t *testing.T) {
	metrics := map[uuid.UUID]WindowMetrics{}
	for i := 0; i < 50; i++ {
		// Heavy exact ties: same XP and accuracy for everyone.
		metrics[uuid.New()] = WindowMetrics{XPEarned: 100, QuestionsAnswered: 10, CorrectAnswers: 5}
	}
	first := Rank(metrics, nil)
	for run := 0; run < 5; run++ {
		again := Rank(metrics, nil)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different ordering", run)
		}
	}
	for i, e := range first {
		if e.Rank != i+1 {
			t.Fatalf("dense rank: want=%d got=%d", i+1, e.Rank)
		}
	}
}

func TestRank_ExcludesZeroActivity(t *testing.T) {
	active := uuid.New()
	idle := uuid.New()
	metrics := map[uuid.UUID]WindowMetrics{
		active: {XPEarned: 10},
		idle:   {StudyTimeMinutes: 300},
	}
	entries := Rank(metrics, nil)
	if len(entries) != 1 || entries[0].StudentID != active {
		t.Fatalf("zero-activity student was ranked: %+v", entries)
	}
}

func TestRank_QuestionsWithoutXPStillRanked(t *testing.T) {
	s := uuid.New()
	entries := Rank(map[uuid.UUID]WindowMetrics{
		s: {QuestionsAnswered: 5, CorrectAnswers: 2},
	}, nil)
	if len(entries) != 1 {
		t.Fatalf("student with answered questions but no XP was excluded")
	}
}

func TestRank_RankChange(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	metrics := map[uuid.UUID]WindowMetrics{
		a: {XPEarned: 200},
		b: {XPEarned: 100},
	}
	previous := map[uuid.UUID]int{a: 3, b: 1}
	entries := Rank(metrics, previous)

	if entries[0].StudentID != a {
		t.Fatalf("rank 1: want student A")
	}
	if entries[0].PreviousRank == nil || *entries[0].PreviousRank != 3 {
		t.Fatalf("previous rank for A: %+v", entries[0].PreviousRank)
	}
	if entries[0].RankChange != 2 {
		t.Fatalf("rank change for A: want=+2 got=%d", entries[0].RankChange)
	}
	if entries[1].RankChange != -1 {
		t.Fatalf("rank change for B: want=-1 got=%d", entries[1].RankChange)
	}
}

func TestRank_NewEntrantHasZeroRankChange(t *testing.T) {
	s := uuid.New()
	entries := Rank(map[uuid.UUID]WindowMetrics{s: {XPEarned: 5}}, map[uuid.UUID]int{})
	if entries[0].PreviousRank != nil || entries[0].RankChange != 0 {
		t.Fatalf("new entrant: %+v", entries[0])
	}
}

func TestRank_AccuracyZeroWhenNoQuestions(t *testing.T) {
	s := uuid.New()
	entries := Rank(map[uuid.UUID]WindowMetrics{s: {XPEarned: 50}}, nil)
	if entries[0].Accuracy != 0 {
		t.Fatalf("accuracy with no questions: want=0 got=%v", entries[0].Accuracy)
	}
}
