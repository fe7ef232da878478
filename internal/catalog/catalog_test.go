package catalog

import (
	"encoding/json"
	"testing"
)

func TestParseBadges_Valid(t *testing.T) {
	raw := []byte(`
badges:
  - code: first_steps
    name: First Steps
    description: Complete your first quiz
    category: milestone
    tier: bronze
    xp_reward: 25
    requirements:
      quizzes_completed: 1
  - code: week_warrior
    name: Week Warrior
    xp_reward: 100
    secret: true
    requirements:
      streak_days: 7
`)
	badges, err := ParseBadges(raw)
	if err != nil {
		t.Fatalf("ParseBadges: %v", err)
	}
	if len(badges) != 2 {
		t.Fatalf("badge count: want=2 got=%d", len(badges))
	}

	first := badges[0]
	if first.Code != "first_steps" || first.XPReward != 25 {
		t.Fatalf("first badge: got code=%q xp=%d", first.Code, first.XPReward)
	}
	var reqs map[string]float64
	if err := json.Unmarshal(first.Requirements, &reqs); err != nil {
		t.Fatalf("unmarshal requirements: %v", err)
	}
	if reqs["quizzes_completed"] != 1 {
		t.Fatalf("requirement: want=1 got=%v", reqs["quizzes_completed"])
	}

	second := badges[1]
	if second.Category != "general" || second.Tier != "bronze" {
		t.Fatalf("defaults: got category=%q tier=%q", second.Category, second.Tier)
	}
	if second.SortOrder != 1 {
		t.Fatalf("sort order: want=1 got=%d", second.SortOrder)
	}
	if first.IsSecret || !second.IsSecret {
		t.Fatalf("secret flags: got first=%v second=%v", first.IsSecret, second.IsSecret)
	}
}

func TestParseBadges_RejectsMultipleRequirements(t *testing.T) {
	raw := []byte(`
badges:
  - code: bad
    name: Bad
    requirements:
      streak_days: 7
      level: 5
`)
	if _, err := ParseBadges(raw); err == nil {
		t.Fatalf("expected error for multi-key requirements")
	}
}

func TestParseBadges_RejectsDuplicateCodes(t *testing.T) {
	raw := []byte(`
badges:
  - code: dup
    name: One
    requirements:
      level: 1
  - code: dup
    name: Two
    requirements:
      level: 2
`)
	if _, err := ParseBadges(raw); err == nil {
		t.Fatalf("expected error for duplicate code")
	}
}

func TestParseBadges_RejectsEmptyCatalog(t *testing.T) {
	if _, err := ParseBadges([]byte("badges: []")); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}

func TestParseBadges_RejectsMissingRequirements(t *testing.T) {
	raw := []byte(`
badges:
  - code: no_reqs
    name: No Requirements
`)
	if _, err := ParseBadges(raw); err == nil {
		t.Fatalf("expected error for missing requirements")
	}
}
