package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/repos"
	"github.com/dailytaiyari/backend/internal/types"
)

const staleHeartbeatAfter = 10 * time.Minute

type StudySessionService interface {
	Start(ctx context.Context, studentID uuid.UUID, examID *uuid.UUID) (*types.StudySession, error)
	Heartbeat(ctx context.Context, studentID, sessionID uuid.UUID) error
	End(ctx context.Context, studentID, sessionID uuid.UUID) (*types.StudySession, error)
	CloseStale(ctx context.Context) (int, error)
}

type studySessionService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.StudySessionRepo
	activity    ActivityService
}

func NewStudySessionService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.StudySessionRepo,
	activity ActivityService,
) StudySessionService {
	serviceLog := log.With("service", "StudySessionService")
	return &studySessionService{
		db:          db,
		log:         serviceLog,
		sessionRepo: sessionRepo,
		activity:    activity,
	}
}

// Start opens a session, closing any forgotten open one first so a
// student never accrues time on two sessions at once.
func (ss *studySessionService) Start(ctx context.Context, studentID uuid.UUID, examID *uuid.UUID) (*types.StudySession, error) {
	if studentID == uuid.Nil {
		return nil, fmt.Errorf("student id required")
	}

	open, oErr := ss.sessionRepo.GetOpen(ctx, nil, studentID)
	if oErr != nil {
		return nil, fmt.Errorf("failed to check open sessions: %w", oErr)
	}
	if open != nil {
		if _, cErr := ss.End(ctx, studentID, open.ID); cErr != nil {
			return nil, fmt.Errorf("failed to close previous session: %w", cErr)
		}
	}

	now := time.Now().UTC()
	row := &types.StudySession{
		ID:              uuid.New(),
		StudentID:       studentID,
		ExamID:          examID,
		StartedAt:       now,
		LastHeartbeatAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return ss.sessionRepo.Create(ctx, nil, row)
}

func (ss *studySessionService) Heartbeat(ctx context.Context, studentID, sessionID uuid.UUID) error {
	session, sErr := ss.sessionRepo.GetByID(ctx, nil, sessionID)
	if sErr != nil {
		return fmt.Errorf("failed to load session: %w", sErr)
	}
	if session == nil || session.StudentID != studentID {
		return fmt.Errorf("session not found")
	}
	if session.EndedAt != nil {
		return fmt.Errorf("session already ended")
	}
	return ss.sessionRepo.Heartbeat(ctx, nil, sessionID, time.Now().UTC())
}

// End closes the session and feeds its minutes into the activity path.
// Credited time stops at the last heartbeat when it went stale.
func (ss *studySessionService) End(ctx context.Context, studentID, sessionID uuid.UUID) (*types.StudySession, error) {
	session, sErr := ss.sessionRepo.GetByID(ctx, nil, sessionID)
	if sErr != nil {
		return nil, fmt.Errorf("failed to load session: %w", sErr)
	}
	if session == nil || session.StudentID != studentID {
		return nil, fmt.Errorf("session not found")
	}
	if session.EndedAt != nil {
		return session, nil
	}

	now := time.Now().UTC()
	endedAt := now
	if now.Sub(session.LastHeartbeatAt) > staleHeartbeatAfter {
		endedAt = session.LastHeartbeatAt
	}
	minutes := int(endedAt.Sub(session.StartedAt).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	if cErr := ss.sessionRepo.Close(ctx, nil, sessionID, endedAt, minutes); cErr != nil {
		return nil, fmt.Errorf("failed to close session: %w", cErr)
	}
	if minutes > 0 {
		if aErr := ss.activity.RecordStudyTime(ctx, studentID, minutes, endedAt); aErr != nil {
			return nil, fmt.Errorf("failed to record study time: %w", aErr)
		}
	}

	session.EndedAt = &endedAt
	session.DurationMinutes = minutes
	return session, nil
}

// CloseStale ends every open session whose heartbeat went quiet. Called
// from the scheduler.
func (ss *studySessionService) CloseStale(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-staleHeartbeatAfter)
	stale, lErr := ss.sessionRepo.ListStale(ctx, nil, cutoff)
	if lErr != nil {
		return 0, fmt.Errorf("failed to list stale sessions: %w", lErr)
	}
	closed := 0
	for _, session := range stale {
		if _, err := ss.End(ctx, session.StudentID, session.ID); err != nil {
			ss.log.Warn("Failed to close stale session", "session_id", session.ID, "error", err)
			continue
		}
		closed++
	}
	return closed, nil
}
