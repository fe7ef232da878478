package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

// LeaderboardCache keeps the most recent ranking snapshot per window in
// Redis so reads skip the database between refreshes.
type LeaderboardCache interface {
	Set(ctx context.Context, period string, periodStart time.Time, examID *uuid.UUID, rows []*types.LeaderboardEntry) error
	Get(ctx context.Context, period string, periodStart time.Time, examID *uuid.UUID) ([]*types.LeaderboardEntry, bool, error)
	Invalidate(ctx context.Context, period string, periodStart time.Time, examID *uuid.UUID) error
	Close() error
}

type leaderboardCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewLeaderboardCache(log *logger.Logger) (LeaderboardCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 45 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("LEADERBOARD_CACHE_TTL_MINUTES")); raw != "" {
		var minutes int
		if _, err := fmt.Sscanf(raw, "%d", &minutes); err == nil && minutes > 0 {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &leaderboardCache{
		log: log.With("service", "RedisLeaderboardCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(period string, periodStart time.Time, examID *uuid.UUID) string {
	scope := "global"
	if examID != nil {
		scope = examID.String()
	}
	return fmt.Sprintf("leaderboard:%s:%s:%s", period, scope, periodStart.Format("2006-01-02"))
}

func (c *leaderboardCache) Set(ctx context.Context, period string, periodStart time.Time, examID *uuid.UUID, rows []*types.LeaderboardEntry) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("leaderboard cache not initialized")
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(period, periodStart, examID), raw, c.ttl).Err()
}

func (c *leaderboardCache) Get(ctx context.Context, period string, periodStart time.Time, examID *uuid.UUID) ([]*types.LeaderboardEntry, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, fmt.Errorf("leaderboard cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, cacheKey(period, periodStart, examID)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var rows []*types.LeaderboardEntry
	if err := json.Unmarshal(raw, &rows); err != nil {
		c.log.Warn("bad leaderboard cache payload", "error", err)
		return nil, false, nil
	}
	return rows, true, nil
}

func (c *leaderboardCache) Invalidate(ctx context.Context, period string, periodStart time.Time, examID *uuid.UUID) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, cacheKey(period, periodStart, examID)).Err()
}

func (c *leaderboardCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
