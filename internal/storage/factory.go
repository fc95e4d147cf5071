package storage

import (
	"context"
	"fmt"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/config"
)

func NewFileRepositories(dataDir string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewFileStorage(dataDir, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Users: storage,
		Goals: storage,
		Logs:  storage,
		close: storage.Close,
	}, nil
}

func NewPostgresRepositories(ctx context.Context, dsn string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewPostgresStorage(ctx, dsn, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Users:   storage,
		Goals:   storage,
		Logs:    storage,
		ping:    storage.Ping,
		migrate: storage.Migrate,
		close:   storage.Close,
	}, nil
}

// New opens the backend selected by cfg.DBType.
func New(ctx context.Context, cfg *config.Config, logger internal.Logger) (*Repositories, error) {
	switch cfg.DBType {
	case "file":
		return NewFileRepositories(cfg.DataDir, logger)
	case "postgres":
		return NewPostgresRepositories(ctx, cfg.DBDSN, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.DBType)
	}
}
