package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	api "github.com/smartmcq/smartmcq/internal/api/http"
	"github.com/smartmcq/smartmcq/internal/auth"
	"github.com/smartmcq/smartmcq/internal/logger"
	"github.com/smartmcq/smartmcq/internal/session"
)

const shutdownTimeout = 10 * time.Second

// Serve returns the serve command.
func Serve() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			router := api.NewRouter(api.Deps{
				Config:  a.cfg,
				DB:      a.db,
				Store:   a.store,
				Wizards: a.authoring(),
				Auth:    auth.NewService(a.cfg.AuthHMACSecret, a.cfg.TokenTTL),
				Users:   auth.NewUsers(a.db),
				Metrics: a.metrics,
				Log:     a.log,
			})
			srv := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			if ms, ok := a.sessions.(*session.MemoryStore); ok {
				go sweepSessions(ctx, ms, a.cfg.SessionTTL, a.log)
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			a.log.Info("listening", "addr", a.cfg.HTTPAddr, "mode", a.cfg.Mode, "db", a.cfg.DBDriver, "sessions", a.cfg.SessionStore)

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			a.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// sweepSessions evicts expired in-memory sessions until ctx ends.
func sweepSessions(ctx context.Context, ms *session.MemoryStore, ttl time.Duration, log *logger.Logger) {
	interval := max(ttl/4, time.Minute)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := ms.Sweep(); n > 0 {
				log.Debug("swept expired sessions", "count", n)
			}
		}
	}
}
