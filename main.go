package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tilewords/internal/config"
	"github.com/robalobadob/tilewords/internal/words"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config string `short:"c" default:"tilewords.hcl" type:"path" help:"HCL config file (ignored when missing)"`
	Debug  bool   `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"1" help:"Play in the terminal"`
	Serve   ServeCmd         `cmd:"" help:"Serve games over HTTP and websockets"`
	Score   ScoreCmd         `cmd:"" help:"Score a guess against a target"`
	Words   WordsCmd         `cmd:"" help:"Inspect the word lists"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tilewords"),
		kong.Description("Five-letter word guessing game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// load reads .env, resolves the configuration and sets up logging.
func (g *Globals) load() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log.Logger = SetupLogger(g.Debug)
	if !g.Debug {
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			log.Logger = log.Logger.Level(lvl)
		}
	}
	return cfg, nil
}

// loadWords loads the word lists named by cfg, or the embedded ones.
func loadWords(cfg *config.Config) (*words.List, error) {
	list, err := words.Load(words.Sources{
		AnswersFile: cfg.Words.AnswersFile,
		AllowedFile: cfg.Words.AllowedFile,
	})
	if err != nil {
		return nil, fmt.Errorf("load word lists: %w", err)
	}
	a, g := list.Stats()
	log.Debug().Int("answers", a).Int("allowed", g).Msg("word lists loaded")
	return list, nil
}
