package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
	"github.com/dailytaiyari/backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPostgresService opens the primary database. DB_DRIVER=sqlite swaps
// in an embedded file database for local development and CI.
func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	driver := utils.GetEnv("DB_DRIVER", "postgres", log)
	if driver == "sqlite" {
		path := utils.GetEnv("SQLITE_PATH", "dailytaiyari.db", log)
		log.Info("Connecting to SQLite...", "path", path)
		gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			log.Error("Failed to open SQLite database", "error", err)
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return &PostgresService{db: gdb, log: serviceLog}, nil
	}

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "dailytaiyari", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}
	log.Info("uuid-ossp extension enabled")

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.StudentProfile{},
		&types.Exam{},
		&types.Topic{},
		&types.TopicMastery{},
		&types.Streak{},
		&types.DailyActivity{},
		&types.XPTransaction{},
		&types.Badge{},
		&types.StudentBadge{},
		&types.LeaderboardEntry{},
		&types.StudySession{},
		&types.WeeklyReport{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
