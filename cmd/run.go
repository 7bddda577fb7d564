package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/coinquest/internal/cache"
	"github.com/abhisek/coinquest/internal/catalog"
	"github.com/abhisek/coinquest/internal/config"
	"github.com/abhisek/coinquest/internal/engine"
	"github.com/abhisek/coinquest/internal/logger"
	"github.com/abhisek/coinquest/internal/profile"
	"github.com/abhisek/coinquest/internal/store"
)

// runtime is everything a command needs once configuration is resolved.
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *store.Store
	profile *profile.Service
	closers []func() error
}

func (r *runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	r.log.Sync()
	return errors.Join(errs...)
}

// openRuntime wires config, logging, storage, catalog and the engine.
// tui sends logs to COINQUEST_LOG_FILE (or nowhere) so they cannot
// corrupt the terminal.
func openRuntime(cmd *cobra.Command, tui bool) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg, tui)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	rt := &runtime{cfg: cfg, log: log}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	rt.store = st
	rt.closers = append(rt.closers, st.Close)

	accounts := st.AccountRepo()
	if cfg.Backend == config.BackendRedis {
		repo, err := cache.Open(ctxOf(cmd), cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			rt.Close()
			return nil, err
		}
		accounts = repo
		rt.closers = append(rt.closers, repo.Close)
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		rt.Close()
		return nil, err
	}

	eng := engine.New(cat, engine.WithLogger(log))
	rt.profile = profile.NewService(eng, accounts, st.EventRepo(), log)
	log.Debug("runtime ready", "db", dbPath, "backend", cfg.Backend, "catalog", cat.Version(), "lessons", cat.Len())
	return rt, nil
}

func newLogger(cfg *config.Config, tui bool) (*logger.Logger, error) {
	switch {
	case cfg.LogFile != "":
		return logger.New(cfg.LogMode, cfg.LogFile)
	case tui:
		return logger.Nop(), nil
	default:
		return logger.New(cfg.LogMode, "")
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
