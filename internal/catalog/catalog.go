// Package catalog loads the badge catalog from its YAML seed file and
// seeds it into the database on startup.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/repos"
	"github.com/dailytaiyari/backend/internal/types"
)

type badgeSpec struct {
	Code         string             `yaml:"code"`
	Name         string             `yaml:"name"`
	Description  string             `yaml:"description"`
	Category     string             `yaml:"category"`
	Tier         string             `yaml:"tier"`
	IconKey      string             `yaml:"icon_key"`
	XPReward     int                `yaml:"xp_reward"`
	Secret       bool               `yaml:"secret"`
	Requirements map[string]float64 `yaml:"requirements"`
}

type catalogFile struct {
	Badges []badgeSpec `yaml:"badges"`
}

// LoadBadges parses the YAML catalog. Every badge must carry exactly one
// requirement key; anything else is a seed-file bug worth failing on.
func LoadBadges(path string) ([]*types.Badge, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read badge catalog: %w", err)
	}
	return ParseBadges(raw)
}

func ParseBadges(raw []byte) ([]*types.Badge, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse badge catalog: %w", err)
	}
	if len(file.Badges) == 0 {
		return nil, fmt.Errorf("badge catalog is empty")
	}

	seen := make(map[string]bool, len(file.Badges))
	badges := make([]*types.Badge, 0, len(file.Badges))
	for i, spec := range file.Badges {
		if spec.Code == "" || spec.Name == "" {
			return nil, fmt.Errorf("badge %d: code and name required", i)
		}
		if seen[spec.Code] {
			return nil, fmt.Errorf("badge %q: duplicate code", spec.Code)
		}
		seen[spec.Code] = true
		if len(spec.Requirements) != 1 {
			return nil, fmt.Errorf("badge %q: expected exactly one requirement, got %d", spec.Code, len(spec.Requirements))
		}
		reqJSON, jErr := json.Marshal(spec.Requirements)
		if jErr != nil {
			return nil, fmt.Errorf("badge %q: %w", spec.Code, jErr)
		}
		category := spec.Category
		if category == "" {
			category = "general"
		}
		tier := spec.Tier
		if tier == "" {
			tier = "bronze"
		}
		badges = append(badges, &types.Badge{
			Code:         spec.Code,
			Name:         spec.Name,
			Description:  spec.Description,
			Category:     category,
			Tier:         tier,
			IconKey:      spec.IconKey,
			Requirements: reqJSON,
			XPReward:     spec.XPReward,
			IsActive:     true,
			IsSecret:     spec.Secret,
			SortOrder:    i,
		})
	}
	return badges, nil
}

// Seed loads the catalog file and upserts it by code.
func Seed(ctx context.Context, log *logger.Logger, badgeRepo repos.BadgeRepo, path string) error {
	badges, err := LoadBadges(path)
	if err != nil {
		return err
	}
	if err := badgeRepo.UpsertByCode(ctx, nil, badges); err != nil {
		return fmt.Errorf("seed badge catalog: %w", err)
	}
	log.Info("Badge catalog seeded", "badges", len(badges))
	return nil
}
