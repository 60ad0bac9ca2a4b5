package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/smartmcq/smartmcq/internal/assessment"
	"github.com/smartmcq/smartmcq/internal/authoring"
	"github.com/smartmcq/smartmcq/internal/config"
	"github.com/smartmcq/smartmcq/internal/db"
	"github.com/smartmcq/smartmcq/internal/eventlog"
	"github.com/smartmcq/smartmcq/internal/logger"
	"github.com/smartmcq/smartmcq/internal/metrics"
	"github.com/smartmcq/smartmcq/internal/session"
)

// app holds the dependencies shared by serve and author.
type app struct {
	cfg      config.Config
	log      *logger.Logger
	db       *sql.DB
	store    *assessment.SQLStore
	events   *eventlog.Repo
	sessions session.Store
	metrics  *metrics.Recorder
	closers  []func() error
}

// newApp loads config and opens the database and session store. A nil log
// means one is built from the config.
func newApp(ctx context.Context, log *logger.Logger) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}
	if a.log == nil {
		if a.log, err = logger.New(cfg.LogMode); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		a.closers = append(a.closers, func() error { a.log.Sync(); return nil })
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	a.db, err = db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	a.closers = append(a.closers, a.db.Close)
	a.store = assessment.NewSQLStore(a.db)
	a.events = eventlog.NewRepo(a.db)

	switch cfg.SessionStore {
	case "redis":
		rs, err := session.NewRedisStore(openCtx, cfg.RedisAddr, cfg.SessionTTL)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("session store: %w", err)
		}
		a.sessions = rs
		a.closers = append(a.closers, rs.Close)
	default:
		a.sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	if cfg.MetricsEnabled {
		a.metrics = metrics.New()
	}
	return a, nil
}

func (a *app) authoring() *authoring.Service {
	return authoring.NewService(authoring.Deps{
		Store:    a.store,
		Sessions: a.sessions,
		Events:   a.events,
		Metrics:  a.metrics,
		Log:      a.log,
	})
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
