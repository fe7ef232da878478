package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/repos"
	"github.com/dailytaiyari/backend/internal/types"
)

// ProfileUpdate carries the editable student settings. Nil fields are
// left untouched.
type ProfileUpdate struct {
	DailyStudyGoalMinutes *int
	PrimaryExamID         *uuid.UUID
	FirstName             *string
	LastName              *string
}

type StudentService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, *types.StudentProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*types.StudentProfile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error)
	ListExams(ctx context.Context) ([]*types.Exam, error)
	ListTopics(ctx context.Context, examID uuid.UUID) ([]*types.Topic, error)
}

type studentService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	profileRepo   repos.StudentProfileRepo
	examRepo      repos.ExamRepo
	avatarService AvatarService
}

func NewStudentService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	profileRepo repos.StudentProfileRepo,
	examRepo repos.ExamRepo,
	avatarService AvatarService,
) StudentService {
	serviceLog := log.With("service", "StudentService")
	return &studentService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		examRepo:      examRepo,
		avatarService: avatarService,
	}
}

func (st *studentService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, *types.StudentProfile, error) {
	user, uErr := st.userRepo.GetByID(ctx, nil, userID)
	if uErr != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", uErr)
	}
	if user == nil {
		return nil, nil, fmt.Errorf("user not found")
	}
	profile, pErr := st.profileRepo.GetByUserID(ctx, nil, userID)
	if pErr != nil {
		return nil, nil, fmt.Errorf("failed to load student profile: %w", pErr)
	}
	if profile == nil {
		return nil, nil, fmt.Errorf("student profile not found")
	}
	user.Password = ""
	return user, profile, nil
}

func (st *studentService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*types.StudentProfile, error) {
	var profile *types.StudentProfile
	err := st.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, uErr := st.userRepo.GetByID(ctx, tx, userID)
		if uErr != nil {
			return fmt.Errorf("failed to load user: %w", uErr)
		}
		if user == nil {
			return fmt.Errorf("user not found")
		}
		if update.FirstName != nil || update.LastName != nil {
			if update.FirstName != nil {
				user.FirstName = *update.FirstName
			}
			if update.LastName != nil {
				user.LastName = *update.LastName
			}
			if err := st.userRepo.Update(ctx, tx, user); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		row, pErr := st.profileRepo.GetByUserID(ctx, tx, userID)
		if pErr != nil {
			return fmt.Errorf("failed to load student profile: %w", pErr)
		}
		if row == nil {
			return fmt.Errorf("student profile not found")
		}
		if update.DailyStudyGoalMinutes != nil {
			if *update.DailyStudyGoalMinutes < 0 {
				return fmt.Errorf("daily study goal cannot be negative")
			}
			row.DailyStudyGoalMinutes = *update.DailyStudyGoalMinutes
		}
		if update.PrimaryExamID != nil {
			exam, eErr := st.examRepo.GetByID(ctx, tx, *update.PrimaryExamID)
			if eErr != nil {
				return fmt.Errorf("failed to look up exam: %w", eErr)
			}
			if exam == nil {
				return fmt.Errorf("unknown exam")
			}
			row.PrimaryExamID = update.PrimaryExamID
		}
		if err := st.profileRepo.Update(ctx, tx, row); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		profile = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (st *studentService) UploadAvatar(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error) {
	var user *types.User
	err := st.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, uErr := st.userRepo.GetByID(ctx, tx, userID)
		if uErr != nil {
			return fmt.Errorf("failed to load user: %w", uErr)
		}
		if row == nil {
			return fmt.Errorf("user not found")
		}
		if err := st.avatarService.CreateUserAvatarFromImage(ctx, tx, row, raw); err != nil {
			return err
		}
		if err := st.userRepo.Update(ctx, tx, row); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		user = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (st *studentService) ListExams(ctx context.Context) ([]*types.Exam, error) {
	return st.examRepo.List(ctx, nil)
}

func (st *studentService) ListTopics(ctx context.Context, examID uuid.UUID) ([]*types.Topic, error) {
	return st.examRepo.ListTopics(ctx, nil, examID)
}
