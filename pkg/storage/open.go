package storage

import (
	"context"

	"github.com/vango-dev/signup/internal/config"
	"github.com/vango-dev/signup/internal/errors"
)

// Open builds the store selected by cfg.Backend. The caller closes it.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil

	case config.BackendFile:
		return NewFileStore(cfg.File.Path), nil

	case config.BackendRedis:
		ttl, err := cfg.RedisTTL()
		if err != nil {
			return nil, err
		}
		store := NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			WithPrefix(cfg.Redis.Prefix),
			WithTTL(ttl),
		)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil

	case config.BackendSQLite:
		return OpenSQLiteStore(ctx, cfg.SQLite.Path, cfg.SQLite.Table)

	case config.BackendS3:
		client := NewS3Client(S3ClientOptions{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		return NewS3Store(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	}

	return nil, errors.New("E104").WithDetailf("backend %q", cfg.Backend)
}
