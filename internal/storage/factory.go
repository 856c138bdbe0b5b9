package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/missionctl/engine/internal/config"
	"github.com/missionctl/engine/internal/database"
	"github.com/missionctl/engine/internal/storage/file"
	"github.com/missionctl/engine/internal/storage/memory"
	"github.com/missionctl/engine/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration.
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "file":
		return file.New(cfg.File), nil
	case "sqlite":
		return sqlite.New(database.NewManager(log, cfg.SQLite.Path)), nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
