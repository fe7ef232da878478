// Package scheduler runs the background maintenance jobs: leaderboard
// refreshes and stale study-session cleanup.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/services"
	"github.com/dailytaiyari/backend/internal/utils"
)

type Scheduler struct {
	log         *logger.Logger
	cron        *gocron.Scheduler
	leaderboard services.LeaderboardService
	sessions    services.StudySessionService
}

func New(log *logger.Logger, leaderboard services.LeaderboardService, sessions services.StudySessionService) *Scheduler {
	return &Scheduler{
		log:         log.With("service", "Scheduler"),
		cron:        gocron.NewScheduler(time.UTC),
		leaderboard: leaderboard,
		sessions:    sessions,
	}
}

// Start registers the jobs and runs them asynchronously. The leaderboard
// job also fires once immediately so a fresh deploy has boards to serve.
func (s *Scheduler) Start() error {
	refreshMinutes := utils.GetEnvAsInt("LEADERBOARD_REFRESH_MINUTES", 30, s.log)
	if refreshMinutes <= 0 {
		refreshMinutes = 30
	}

	if _, err := s.cron.Every(refreshMinutes).Minutes().StartImmediately().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.leaderboard.RefreshAll(ctx); err != nil {
			s.log.Error("Leaderboard refresh failed", "error", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.Every(5).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		closed, err := s.sessions.CloseStale(ctx)
		if err != nil {
			s.log.Error("Stale session cleanup failed", "error", err)
			return
		}
		if closed > 0 {
			s.log.Info("Closed stale study sessions", "count", closed)
		}
	}); err != nil {
		return err
	}

	s.cron.StartAsync()
	s.log.Info("Scheduler started", "leaderboard_refresh_minutes", refreshMinutes)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
