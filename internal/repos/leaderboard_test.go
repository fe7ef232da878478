package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

func newLeaderboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection so the in-memory database is shared across queries.
	sqlDB.SetMaxOpenConns(1)

	ddl := `CREATE TABLE leaderboard_entry (
		id TEXT PRIMARY KEY,
		period TEXT NOT NULL,
		period_start DATETIME NOT NULL,
		exam_id TEXT,
		student_id TEXT NOT NULL,
		xp_earned INTEGER NOT NULL DEFAULT 0,
		questions_answered INTEGER NOT NULL DEFAULT 0,
		accuracy REAL NOT NULL DEFAULT 0,
		study_time_minutes INTEGER NOT NULL DEFAULT 0,
		"rank" INTEGER NOT NULL,
		previous_rank INTEGER,
		rank_change INTEGER NOT NULL DEFAULT 0,
		computed_at DATETIME
	)`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func snapshotRow(period string, start time.Time, examID *uuid.UUID, studentID uuid.UUID, rank int) *types.LeaderboardEntry {
	return &types.LeaderboardEntry{
		ID:          uuid.New(),
		Period:      period,
		PeriodStart: start,
		ExamID:      examID,
		StudentID:   studentID,
		XPEarned:    1000 - rank,
		Rank:        rank,
		ComputedAt:  time.Now().UTC(),
	}
}

func TestPreviousRanks_UsesLatestEarlierWindow(t *testing.T) {
	repo := NewLeaderboardRepo(newLeaderboardTestDB(t), newTestLogger(t))
	ctx := context.Background()

	dayN := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	dayN1 := dayN.AddDate(0, 0, 1)
	alice := uuid.New()
	bob := uuid.New()

	seed := []*types.LeaderboardEntry{
		snapshotRow("daily", dayN, nil, alice, 1),
		snapshotRow("daily", dayN, nil, bob, 2),
	}
	if err := repo.ReplaceSnapshot(ctx, nil, "daily", dayN, nil, seed); err != nil {
		t.Fatalf("ReplaceSnapshot: %v", err)
	}

	// First refresh of the next day's window sees yesterday's board.
	ranks, err := repo.PreviousRanks(ctx, nil, "daily", dayN1, nil)
	if err != nil {
		t.Fatalf("PreviousRanks: %v", err)
	}
	if len(ranks) != 2 {
		t.Fatalf("prior window ranks: want=2 got=%d", len(ranks))
	}
	if ranks[alice] != 1 || ranks[bob] != 2 {
		t.Fatalf("prior window ranks: got alice=%d bob=%d", ranks[alice], ranks[bob])
	}

	// A refresh within the same window sees the snapshot it replaces.
	sameDay, err := repo.PreviousRanks(ctx, nil, "daily", dayN, nil)
	if err != nil {
		t.Fatalf("PreviousRanks same day: %v", err)
	}
	if sameDay[alice] != 1 {
		t.Fatalf("same-window rank: want=1 got=%d", sameDay[alice])
	}

	// No snapshot at or before the date means no previous ranks.
	before, err := repo.PreviousRanks(ctx, nil, "daily", dayN.AddDate(0, 0, -1), nil)
	if err != nil {
		t.Fatalf("PreviousRanks before: %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("ranks before first snapshot: want=0 got=%d", len(before))
	}
}

func TestPreviousRanks_ScopedByExam(t *testing.T) {
	repo := NewLeaderboardRepo(newLeaderboardTestDB(t), newTestLogger(t))
	ctx := context.Background()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	exam := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	if err := repo.ReplaceSnapshot(ctx, nil, "daily", day, nil,
		[]*types.LeaderboardEntry{snapshotRow("daily", day, nil, alice, 1)}); err != nil {
		t.Fatalf("ReplaceSnapshot global: %v", err)
	}
	if err := repo.ReplaceSnapshot(ctx, nil, "daily", day, &exam,
		[]*types.LeaderboardEntry{snapshotRow("daily", day, &exam, bob, 1)}); err != nil {
		t.Fatalf("ReplaceSnapshot exam: %v", err)
	}

	examRanks, err := repo.PreviousRanks(ctx, nil, "daily", day.AddDate(0, 0, 1), &exam)
	if err != nil {
		t.Fatalf("PreviousRanks exam: %v", err)
	}
	if len(examRanks) != 1 || examRanks[bob] != 1 {
		t.Fatalf("exam board ranks: got %v", examRanks)
	}
	if _, leaked := examRanks[alice]; leaked {
		t.Fatalf("global entry leaked into exam board")
	}
}

func TestReplaceSnapshot_KeepsExamBoardsSeparate(t *testing.T) {
	repo := NewLeaderboardRepo(newLeaderboardTestDB(t), newTestLogger(t))
	ctx := context.Background()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	exam := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	if err := repo.ReplaceSnapshot(ctx, nil, "weekly", day, nil,
		[]*types.LeaderboardEntry{snapshotRow("weekly", day, nil, alice, 1)}); err != nil {
		t.Fatalf("ReplaceSnapshot global: %v", err)
	}
	if err := repo.ReplaceSnapshot(ctx, nil, "weekly", day, &exam,
		[]*types.LeaderboardEntry{snapshotRow("weekly", day, &exam, bob, 1)}); err != nil {
		t.Fatalf("ReplaceSnapshot exam: %v", err)
	}

	// Replacing the global board must leave the exam board untouched.
	if err := repo.ReplaceSnapshot(ctx, nil, "weekly", day, nil,
		[]*types.LeaderboardEntry{snapshotRow("weekly", day, nil, carol, 1)}); err != nil {
		t.Fatalf("ReplaceSnapshot global again: %v", err)
	}

	examTop, err := repo.ListTop(ctx, nil, "weekly", day, &exam, 10)
	if err != nil {
		t.Fatalf("ListTop exam: %v", err)
	}
	if len(examTop) != 1 || examTop[0].StudentID != bob {
		t.Fatalf("exam board after global replace: got %d rows", len(examTop))
	}

	globalTop, err := repo.ListTop(ctx, nil, "weekly", day, nil, 10)
	if err != nil {
		t.Fatalf("ListTop global: %v", err)
	}
	if len(globalTop) != 1 || globalTop[0].StudentID != carol {
		t.Fatalf("global board after replace: got %d rows", len(globalTop))
	}

	entry, err := repo.GetStudentEntry(ctx, nil, "weekly", day, &exam, bob)
	if err != nil {
		t.Fatalf("GetStudentEntry exam: %v", err)
	}
	if entry == nil || entry.Rank != 1 {
		t.Fatalf("exam entry: got %+v", entry)
	}
	missing, err := repo.GetStudentEntry(ctx, nil, "weekly", day, nil, bob)
	if err != nil {
		t.Fatalf("GetStudentEntry global: %v", err)
	}
	if missing != nil {
		t.Fatalf("student on exam board only: want nil global entry")
	}
}
