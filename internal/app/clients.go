package app

import (
	"os"
	"strings"

	"github.com/dailytaiyari/backend/internal/clients/media"
	"github.com/dailytaiyari/backend/internal/clients/redis"
	"github.com/dailytaiyari/backend/internal/logger"
)

type Clients struct {
	Media            media.Store
	LeaderboardCache redis.LeaderboardCache
}

// wireClients builds the external clients. Redis is optional: without
// REDIS_ADDR the leaderboard is served straight from the database.
func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	store, err := media.NewLocalStore(log)
	if err != nil {
		return Clients{}, err
	}

	var cache redis.LeaderboardCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		cache, err = redis.NewLeaderboardCache(log)
		if err != nil {
			log.Warn("Redis unavailable, leaderboard cache disabled", "error", err)
			cache = nil
		}
	} else {
		log.Info("REDIS_ADDR not set, leaderboard cache disabled")
	}

	return Clients{
		Media:            store,
		LeaderboardCache: cache,
	}, nil
}
