package redis

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCacheKey_ScopedByExam(t *testing.T) {
	start := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	global := cacheKey("weekly", start, nil)
	if global != "leaderboard:weekly:global:2026-08-28" {
		t.Fatalf("global key: got %q", global)
	}

	exam := uuid.MustParse("3e7c2c86-41dd-4b8f-9a2e-5b1f6d3f9a01")
	scoped := cacheKey("weekly", start, &exam)
	want := "leaderboard:weekly:" + exam.String() + ":2026-08-28"
	if scoped != want {
		t.Fatalf("exam key: want %q got %q", want, scoped)
	}
	if scoped == global {
		t.Fatalf("exam and global boards must not share a cache key")
	}
}
