package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/activestate/internal/config"
	"github.com/comalice/activestate/internal/core"
	"github.com/comalice/activestate/internal/extensibility"
	"github.com/comalice/activestate/internal/production"
)

// session is a configured router with its tracked links.
type session struct {
	cfg       *config.Config
	logger    zerolog.Logger
	router    *core.Router
	persister core.Persister
	bindings  *config.Bindings
}

// newLogger returns a console logger at level, falling back to info for unknown levels.
func newLogger(level string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

func openSession(opts *rootOptions, logOut io.Writer) (*session, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := newLogger(level, logOut)

	s := &session{cfg: cfg, logger: logger}
	routerOpts := []core.Option{core.WithLogger(logger.With().Str("component", "router").Logger())}
	if cfg.SnapshotDir != "" {
		s.persister, err = newPersister(cfg)
		if err != nil {
			return nil, err
		}
		routerOpts = append(routerOpts, core.WithPersister(s.persister))
	}

	s.router, err = core.NewRouter(cfg.Tree, routerOpts...)
	if err != nil {
		return nil, err
	}
	for _, gc := range cfg.Guards {
		guard, err := extensibility.NewParamGuard(gc.State, gc.Expr)
		if err != nil {
			return nil, err
		}
		guard.Install(s.router)
	}

	s.bindings, err = config.Bind(s.router, cfg.Groups, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newPersister(cfg *config.Config) (core.Persister, error) {
	if cfg.SnapshotFormat == config.SnapshotJSON {
		return production.NewJSONPersister(cfg.SnapshotDir)
	}
	return production.NewYAMLPersister(cfg.SnapshotDir)
}

// resume restores the last saved snapshot, or starts at the initial state when there is none.
func (s *session) resume(ctx context.Context) error {
	if s.persister != nil {
		snap, err := s.persister.Load(ctx, s.router.ID())
		switch {
		case err == nil:
			if err := s.router.Restore(snap); err != nil {
				return fmt.Errorf("restore snapshot: %w", err)
			}
			s.logger.Info().Str("state", snap.Current.State).Msg("resumed from snapshot")
			return nil
		case !errors.Is(err, core.ErrNotFound):
			return err
		}
	}
	return s.router.Start(ctx)
}

// replay drives the configured script through the router.
func (s *session) replay(ctx context.Context, interval time.Duration) (int, error) {
	script := extensibility.NewScriptEventSource(s.cfg.Script, interval)
	defer script.Stop()
	return extensibility.NewChannelEventSource(script.Events(), s.logger).Run(ctx, s.router)
}

func (s *session) close() {
	if s.bindings != nil {
		s.bindings.Close()
	}
}
