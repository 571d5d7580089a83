package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/tilewords/internal/daily"
)

// WordsCmd reports on the loaded word lists.
type WordsCmd struct {
	Check string `help:"Report whether WORD is an accepted guess and a possible answer" placeholder:"WORD"`
}

func (c *WordsCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	list, err := loadWords(cfg)
	if err != nil {
		return err
	}

	if c.Check != "" {
		w := strings.ToLower(strings.TrimSpace(c.Check))
		fmt.Printf("%s: guess=%t answer=%t\n", w, list.IsValidGuess(w), list.IsAnswer(w))
		return nil
	}

	a, allowed := list.Stats()
	now := time.Now()
	fmt.Printf("answers: %d\nallowed: %d\ndaily:   #%d (%s)\n", a, allowed, daily.Number(now), daily.DateKey(now))
	return nil
}
