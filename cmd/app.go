package main

import (
	"context"
	"errors"

	"github.com/JhonesBR/go-ledger/internal/api/tools"
	"github.com/JhonesBR/go-ledger/internal/config"
	"github.com/JhonesBR/go-ledger/internal/db"
	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/JhonesBR/go-ledger/internal/ledger/memstore"
	"github.com/JhonesBR/go-ledger/internal/ledger/pgstore"
	"github.com/JhonesBR/go-ledger/internal/logging"
	"github.com/JhonesBR/go-ledger/internal/proxy"
	"go.uber.org/zap"
)

// app holds everything built once at process start. The store handle is
// passed down explicitly; nothing below reaches for a global.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   ledger.Store
	engine  *ledger.Engine
	queries *ledger.Queries
	tools   *tools.Toolbox
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, func() { _ = log.Sync() })

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.engine = ledger.NewEngine(a.store,
		ledger.WithLogger(log.Named("ledger")),
		ledger.WithRetry(cfg.Ledger.Retries),
	)
	a.queries = ledger.NewQueries(a.store, a.store)

	var px *proxy.Client
	if len(cfg.APIs) > 0 {
		px = proxy.New(cfg.APIs, proxy.WithLogger(log.Named("proxy")))
	}
	a.tools = tools.New(a.engine, a.queries, px, cfg.Ledger.HistoryLimit)
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	if *inMemory {
		store := memstore.New()
		if a.cfg.Database.Seed {
			if _, err := store.Seed(ctx, ledger.DefaultSeed()); err != nil {
				return err
			}
		}
		a.log.Info("using in-memory ledger")
		a.store = store
		return nil
	}

	if a.cfg.Database.URL == "" {
		return errors.New("no database configured: set DATABASE_URL or database.url, or pass -memory")
	}

	pool, err := db.NewConnection(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, pool.Close)

	store := pgstore.New(pool,
		pgstore.WithLogger(a.log.Named("pgstore")),
		pgstore.WithTimeouts(a.cfg.Database.LockTimeout, a.cfg.Database.StatementTimeout),
	)
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	if a.cfg.Database.Seed {
		if _, err := store.Seed(ctx, ledger.DefaultSeed()); err != nil {
			return err
		}
	}
	a.store = store
	return nil
}
