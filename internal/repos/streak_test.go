package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/types"
)

func newStreakTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := newLeaderboardTestDB(t)
	ddl := `CREATE TABLE streak (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		exam_id TEXT,
		current_streak INTEGER NOT NULL DEFAULT 0,
		last_activity_date DATETIME,
		longest_streak INTEGER NOT NULL DEFAULT 0,
		longest_streak_start DATETIME,
		longest_streak_end DATETIME,
		total_active_days INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create streak table: %v", err)
	}
	return db
}

func TestStreakRepo_GlobalAndExamRowsAreSeparate(t *testing.T) {
	repo := NewStreakRepo(newStreakTestDB(t), newTestLogger(t))
	ctx := context.Background()

	student := uuid.New()
	exam := uuid.New()
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	global := &types.Streak{
		ID:               uuid.New(),
		StudentID:        student,
		CurrentStreak:    5,
		LastActivityDate: &day,
	}
	if _, err := repo.Create(ctx, nil, global); err != nil {
		t.Fatalf("create global streak: %v", err)
	}
	scoped := &types.Streak{
		ID:               uuid.New(),
		StudentID:        student,
		ExamID:           &exam,
		CurrentStreak:    2,
		LastActivityDate: &day,
	}
	if _, err := repo.Create(ctx, nil, scoped); err != nil {
		t.Fatalf("create exam streak: %v", err)
	}

	gotGlobal, err := repo.Get(ctx, nil, student, nil)
	if err != nil {
		t.Fatalf("get global streak: %v", err)
	}
	if gotGlobal == nil || gotGlobal.CurrentStreak != 5 || gotGlobal.ExamID != nil {
		t.Fatalf("global streak: got %+v", gotGlobal)
	}

	gotExam, err := repo.Get(ctx, nil, student, &exam)
	if err != nil {
		t.Fatalf("get exam streak: %v", err)
	}
	if gotExam == nil || gotExam.CurrentStreak != 2 {
		t.Fatalf("exam streak: got %+v", gotExam)
	}

	// Updating the exam row must not touch the global one.
	gotExam.CurrentStreak = 3
	if err := repo.Update(ctx, nil, gotExam); err != nil {
		t.Fatalf("update exam streak: %v", err)
	}
	gotGlobal, err = repo.Get(ctx, nil, student, nil)
	if err != nil {
		t.Fatalf("reload global streak: %v", err)
	}
	if gotGlobal.CurrentStreak != 5 {
		t.Fatalf("global streak after exam update: want=5 got=%d", gotGlobal.CurrentStreak)
	}

	// An exam with no streak yet is a miss, not the global row.
	other := uuid.New()
	missing, err := repo.Get(ctx, nil, student, &other)
	if err != nil {
		t.Fatalf("get unknown exam streak: %v", err)
	}
	if missing != nil {
		t.Fatalf("unknown exam streak: want nil got %+v", missing)
	}
}
