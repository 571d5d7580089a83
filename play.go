package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"

	"github.com/robalobadob/tilewords/internal/game"
	"github.com/robalobadob/tilewords/internal/tui"
)

// PlayCmd runs a game in the terminal.
type PlayCmd struct {
	Daily   bool    `help:"Play today's daily puzzle"`
	Answer  string  `help:"Fixed target word (must be a known answer)"`
	Seed    *uint64 `help:"Deterministic seed for picking targets (optional)"`
	LogFile string  `type:"path" help:"Write UI logs to this file"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	list, err := loadWords(cfg)
	if err != nil {
		return err
	}
	if c.Seed != nil {
		list.WithSeed(*c.Seed)
	}

	answer := strings.ToLower(strings.TrimSpace(c.Answer))
	if answer != "" && !list.IsAnswer(answer) {
		return fmt.Errorf("%q is not in the answers list", c.Answer)
	}

	// The terminal belongs to the UI; its logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	level := log.InfoLevel
	if g.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(out, log.Options{Level: level, ReportTimestamp: true})

	first := true
	start := func() (*game.Controller, error) {
		target := list.PickTarget()
		switch {
		case answer != "" && first:
			target = answer
		case c.Daily && first:
			p, word := list.Daily(time.Now(), cfg.Game.DailySalt)
			logger.Info("Daily puzzle", "date", p.Date, "number", p.Number)
			target = word
		}
		first = false
		return game.New(target, list,
			game.WithTiming(cfg.Game.Timing),
			game.WithScoring(cfg.Game.Scoring),
		)
	}

	m, err := tui.New(start, logger)
	if err != nil {
		return err
	}
	return tui.Run(SetupSignalHandler(zerolog.Nop()), m)
}
