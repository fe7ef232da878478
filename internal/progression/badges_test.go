package progression

import (
	"testing"

	"github.com/google/uuid"
)

func rule(name, key string, want float64) BadgeRule {
	return BadgeRule{
		ID:           uuid.New(),
		Name:         name,
		Requirements: map[string]float64{key: want},
		XPReward:     100,
	}
}

func TestEvaluateBadges_StatRequirements(t *testing.T) {
	stats := StudentStats{
		CurrentStreak:      7,
		QuizzesCompleted:   10,
		MockTestsCompleted: 2,
		QuestionsAnswered:  120,
		TotalXP:            5400,
		CurrentLevel:       6,
		OverallAccuracy:    82.5,
		TopicsMastered:     3,
		StudyTimeMinutes:   900,
	}
	catalog := []BadgeRule{
		rule("Week Warrior", "streak_days", 7),
		rule("Fortnight Fighter", "streak_days", 14),
		rule("Quiz Explorer", "quizzes_completed", 10),
		rule("Question Hunter", "questions_answered", 100),
		rule("XP Collector", "total_xp", 5000),
		rule("Sharp Shooter", "min_accuracy", 80),
		rule("Topic Beginner", "topics_mastered", 1),
		rule("Mock Test Warrior", "mock_tests_completed", 5),
	}
	awarded := EvaluateBadges(stats, EventContext{}, nil, catalog)

	got := map[string]bool{}
	for _, b := range awarded {
		got[b.Name] = true
	}
	for _, want := range []string{"Week Warrior", "Quiz Explorer", "Question Hunter", "XP Collector", "Sharp Shooter", "Topic Beginner"} {
		if !got[want] {
			t.Fatalf("expected %q to be awarded, got %v", want, got)
		}
	}
	if got["Fortnight Fighter"] || got["Mock Test Warrior"] {
		t.Fatalf("awarded badges whose thresholds are not met: %v", got)
	}
}

func TestEvaluateBadges_ContextFlagsOnly(t *testing.T) {
	// A stored history of perfect quizzes must not qualify context badges;
	// only the explicit flag for this event does.
	catalog := []BadgeRule{
		rule("Perfect Score", "perfect_quiz", 1),
		rule("Speed Demon", "speed_quiz", 1),
		rule("Early Bird", "early_study", 1),
		rule("Night Owl", "night_study", 1),
		rule("Weekend Warrior", "weekend_study", 1),
		rule("Comeback King", "comeback", 1),
		rule("Top 10", "top_10", 1),
	}
	stats := StudentStats{QuizzesCompleted: 500, OverallAccuracy: 100}

	if awarded := EvaluateBadges(stats, EventContext{}, nil, catalog); len(awarded) != 0 {
		t.Fatalf("empty context awarded %d context badges", len(awarded))
	}

	awarded := EvaluateBadges(stats, EventContext{PerfectQuiz: true, TopTen: true}, nil, catalog)
	if len(awarded) != 2 {
		t.Fatalf("want 2 awards, got %d", len(awarded))
	}
	names := map[string]bool{awarded[0].Name: true, awarded[1].Name: true}
	if !names["Perfect Score"] || !names["Top 10"] {
		t.Fatalf("unexpected awards: %v", names)
	}
}

func TestEvaluateBadges_AtMostOnce(t *testing.T) {
	catalog := []BadgeRule{rule("Week Warrior", "streak_days", 7)}
	stats := StudentStats{CurrentStreak: 10}

	first := EvaluateBadges(stats, EventContext{}, nil, catalog)
	if len(first) != 1 {
		t.Fatalf("first pass: want 1 award, got %d", len(first))
	}

	earned := map[uuid.UUID]bool{first[0].ID: true}
	second := EvaluateBadges(stats, EventContext{}, earned, catalog)
	if len(second) != 0 {
		t.Fatalf("second pass re-awarded %d badges", len(second))
	}
}

func TestEvaluateBadges_MalformedRequirementsNeverQualify(t *testing.T) {
	stats := StudentStats{CurrentStreak: 100, TotalXP: 1 << 30}
	catalog := []BadgeRule{
		{ID: uuid.New(), Name: "no keys", Requirements: map[string]float64{}},
		{ID: uuid.New(), Name: "two keys", Requirements: map[string]float64{"streak_days": 1, "total_xp": 1}},
		{ID: uuid.New(), Name: "unknown key", Requirements: map[string]float64{"moon_phase": 1}},
		{ID: uuid.New(), Name: "nil requirements"},
	}
	if awarded := EvaluateBadges(stats, EventContext{}, nil, catalog); len(awarded) != 0 {
		t.Fatalf("malformed requirements qualified: %d awards", len(awarded))
	}
}

func TestEvaluateBadges_LevelRequirement(t *testing.T) {
	catalog := []BadgeRule{rule("High Five", "level", 5)}
	if awarded := EvaluateBadges(StudentStats{CurrentLevel: 4}, EventContext{}, nil, catalog); len(awarded) != 0 {
		t.Fatalf("level 4 qualified for level-5 badge")
	}
	if awarded := EvaluateBadges(StudentStats{CurrentLevel: 5}, EventContext{}, nil, catalog); len(awarded) != 1 {
		t.Fatalf("level 5 did not qualify for level-5 badge")
	}
}
