package app

import (
	"time"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/utils"
)

type Config struct {
	JWTSecretKey     string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	BadgeCatalogPath string
	MediaDir         string
	Environment      string
	Version          string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	badgeCatalogPath := utils.GetEnv("BADGE_CATALOG_PATH", "config/badges.yaml", log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "./media", log)
	environment := utils.GetEnv("APP_ENV", "development", log)
	version := utils.GetEnv("APP_VERSION", "dev", log)
	return Config{
		JWTSecretKey:     jwtSecretKey,
		AccessTokenTTL:   time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:  time.Duration(refreshTokenTTLSeconds) * time.Second,
		BadgeCatalogPath: badgeCatalogPath,
		MediaDir:         mediaDir,
		Environment:      environment,
		Version:          version,
	}
}
