package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/utils"
)

// Store persists generated media (avatars, badge icons) on the local
// filesystem and serves it from MEDIA_BASE_URL.
type Store interface {
	Save(key string, data []byte) error
	Delete(key string) error
	PublicURL(key string) string
}

type localStore struct {
	log     *logger.Logger
	root    string
	baseURL string
}

func NewLocalStore(log *logger.Logger) (Store, error) {
	storeLog := log.With("service", "MediaStore")

	root := utils.GetEnv("MEDIA_DIR", "./media", log)
	baseURL := strings.TrimRight(utils.GetEnv("MEDIA_BASE_URL", "/media", log), "/")

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &localStore{log: storeLog, root: root, baseURL: baseURL}, nil
}

func (s *localStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("empty media key")
	}
	return filepath.Join(s.root, clean), nil
}

func (s *localStore) Save(key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

func (s *localStore) Delete(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *localStore) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}
