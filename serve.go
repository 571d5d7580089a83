package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/tilewords/internal/httpserver"
	"github.com/robalobadob/tilewords/internal/store"
)

// ServeCmd runs the HTTP adapter.
type ServeCmd struct {
	Addr  string        `help:"Listen address (overrides PORT and the config file)"`
	Sweep time.Duration `default:"1m" help:"How often expired sessions are removed (0 disables)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	list, err := loadWords(cfg)
	if err != nil {
		return err
	}
	addr := cfg.Server.Address
	if c.Addr != "" {
		addr = c.Addr
	}

	mem := store.NewMemoryStore(nil)
	srv := httpserver.New(mem, list, cfg)

	log.Info().
		Str("address", addr).
		Str("scoring", string(cfg.Game.Scoring)).
		Dur("reveal_stagger", cfg.Game.Timing.Stagger).
		Dur("reveal_flip", cfg.Game.Timing.Flip).
		Dur("session_ttl", cfg.Server.SessionTTL).
		Msg("starting tilewords server")

	ctx := SetupSignalHandler(log.Logger)
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		return srv.SweepEvery(ctx, c.Sweep)
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
