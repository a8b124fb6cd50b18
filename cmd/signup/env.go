package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/vango-dev/signup/internal/config"
	"github.com/vango-dev/signup/pkg/signup"
	"github.com/vango-dev/signup/pkg/storage"
)

// env is what every command needs: configuration, a logger and the draft store.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  storage.Store
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(c config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func openEnv(ctx context.Context, configPath string, logOut io.Writer) (*env, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	logger.Debug("storage opened", "backend", cfg.Storage.Backend, "key", cfg.Storage.Key)
	return &env{cfg: cfg, logger: logger, store: store}, nil
}

// newForm restores the saved draft and builds a form persisting to the
// configured store.
func (e *env) newForm(ctx context.Context, opts ...signup.Option) (*signup.Form, error) {
	window, err := e.cfg.DebounceWindow()
	if err != nil {
		return nil, err
	}

	draft := signup.LoadDraft(ctx, e.store, e.cfg.Storage.Key, e.logger)
	base := []signup.Option{
		signup.WithStore(e.store),
		signup.WithStorageKey(e.cfg.Storage.Key),
		signup.WithDebounce(window),
		signup.WithLogger(e.logger),
	}
	return signup.New(draft, append(base, opts...)...), nil
}

func (e *env) Close() error {
	return e.store.Close()
}
