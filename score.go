package main

import (
	"fmt"
	"strings"

	"github.com/robalobadob/tilewords/internal/game"
)

// ScoreCmd prints the verdicts for one guess.
type ScoreCmd struct {
	Guess     string `arg:"" help:"Guessed word"`
	Target    string `arg:"" help:"Target word"`
	Canonical bool   `help:"Allocate repeated letters one-for-one instead of the default heuristic"`
}

var squares = map[game.Verdict]string{
	game.VerdictCorrect: "🟩",
	game.VerdictPresent: "🟨",
	game.VerdictAbsent:  "⬛",
}

func (c *ScoreCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	guess := strings.ToLower(strings.TrimSpace(c.Guess))
	target := strings.ToLower(strings.TrimSpace(c.Target))
	for _, w := range []string{guess, target} {
		if !game.IsWord(w) {
			return fmt.Errorf("%q: want %d letters a-z", w, game.WordLength)
		}
	}

	scoring := cfg.Game.Scoring
	if c.Canonical {
		scoring = game.ScoringCanonical
	}
	vs := scoring.Func()(guess, target)

	var row strings.Builder
	names := make([]string, 0, game.WordLength)
	for _, v := range vs {
		row.WriteString(squares[v])
		names = append(names, v.String())
	}
	fmt.Printf("%s  %s\n", strings.ToUpper(guess), row.String())
	fmt.Println(strings.Join(names, " "))
	return nil
}
