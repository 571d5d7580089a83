// Package config resolves settings from defaults, an optional HCL file and
// environment variables, in that order of precedence (later wins).
//
// Example file:
//
//	log_level = "debug"
//
//	words {
//	  answers_file = "lists/answers.txt"
//	  allowed_file = "lists/allowed.txt"
//	}
//
//	game {
//	  scoring        = "heuristic"
//	  reveal_stagger = "250ms"
//	  reveal_flip    = "250ms"
//	  daily_salt     = "change-me"
//	}
//
//	server {
//	  address       = ":5175"
//	  client_origin = "http://localhost:5173"
//	  token_secret  = "change-me"
//	  session_ttl   = "24h"
//	}
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/robalobadob/tilewords/internal/game"
)

// Environment variable names.
const (
	EnvLogLevel     = "LOG_LEVEL"
	EnvAnswersFile  = "WORDS_ANSWERS_FILE"
	EnvAllowedFile  = "WORDS_ALLOWED_FILE"
	EnvScoring      = "SCORING"
	EnvStagger      = "REVEAL_STAGGER"
	EnvFlip         = "REVEAL_FLIP"
	EnvDailySalt    = "DAILY_SALT"
	EnvPort         = "PORT"
	EnvClientOrigin = "CLIENT_ORIGIN"
	EnvTokenSecret  = "JWT_SECRET"
	EnvSessionTTL   = "SESSION_TTL"
	EnvCookieName   = "COOKIE_NAME"
)

// Config is the resolved configuration.
type Config struct {
	LogLevel string
	Words    Words
	Game     Game
	Server   Server
}

// Words names optional list files.
type Words struct {
	AnswersFile string
	AllowedFile string
}

// Game holds session settings.
type Game struct {
	Scoring   game.Scoring
	Timing    game.Timing
	DailySalt string
}

// Server holds HTTP adapter settings.
type Server struct {
	Address      string
	ClientOrigin string
	TokenSecret  string
	SessionTTL   time.Duration
	CookieName   string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Game: Game{
			Scoring:   game.ScoringHeuristic,
			Timing:    game.DefaultTiming,
			DailySalt: "local_dev_salt",
		},
		Server: Server{
			Address:      ":5175",
			ClientOrigin: "http://localhost:5173",
			TokenSecret:  "dev_secret_change_me",
			SessionTTL:   24 * time.Hour,
			CookieName:   "tilewords_session",
		},
	}
}

// fileConfig mirrors the HCL layout. Every block and attribute is optional.
type fileConfig struct {
	LogLevel string       `hcl:"log_level,optional"`
	Words    *wordsBlock  `hcl:"words,block"`
	Game     *gameBlock   `hcl:"game,block"`
	Server   *serverBlock `hcl:"server,block"`
}

type wordsBlock struct {
	AnswersFile string `hcl:"answers_file,optional"`
	AllowedFile string `hcl:"allowed_file,optional"`
}

type gameBlock struct {
	Scoring       string `hcl:"scoring,optional"`
	RevealStagger string `hcl:"reveal_stagger,optional"`
	RevealFlip    string `hcl:"reveal_flip,optional"`
	DailySalt     string `hcl:"daily_salt,optional"`
}

type serverBlock struct {
	Address      string `hcl:"address,optional"`
	ClientOrigin string `hcl:"client_origin,optional"`
	TokenSecret  string `hcl:"token_secret,optional"`
	SessionTTL   string `hcl:"session_ttl,optional"`
	CookieName   string `hcl:"cookie_name,optional"`
}

// Load resolves the configuration. A missing file is not an error; an empty
// path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	set := func(key string) (string, bool) {
		v := fc.lookup(key)
		return v, v != ""
	}
	if err := c.apply(set); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	return c.apply(get)
}

// lookup maps environment names onto the file's fields so both sources go
// through the same parsing.
func (fc *fileConfig) lookup(key string) string {
	switch key {
	case EnvLogLevel:
		return fc.LogLevel
	}
	if w := fc.Words; w != nil {
		switch key {
		case EnvAnswersFile:
			return w.AnswersFile
		case EnvAllowedFile:
			return w.AllowedFile
		}
	}
	if g := fc.Game; g != nil {
		switch key {
		case EnvScoring:
			return g.Scoring
		case EnvStagger:
			return g.RevealStagger
		case EnvFlip:
			return g.RevealFlip
		case EnvDailySalt:
			return g.DailySalt
		}
	}
	if s := fc.Server; s != nil {
		switch key {
		case EnvPort:
			if s.Address != "" {
				return s.Address
			}
		case EnvClientOrigin:
			return s.ClientOrigin
		case EnvTokenSecret:
			return s.TokenSecret
		case EnvSessionTTL:
			return s.SessionTTL
		case EnvCookieName:
			return s.CookieName
		}
	}
	return ""
}

func (c *Config) apply(get func(string) (string, bool)) error {
	if v, ok := get(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := get(EnvAnswersFile); ok {
		c.Words.AnswersFile = v
	}
	if v, ok := get(EnvAllowedFile); ok {
		c.Words.AllowedFile = v
	}
	if v, ok := get(EnvScoring); ok {
		s, err := game.ParseScoring(v)
		if err != nil {
			return err
		}
		c.Game.Scoring = s
	}
	if v, ok := get(EnvStagger); ok {
		d, err := parseDuration(EnvStagger, v)
		if err != nil {
			return err
		}
		c.Game.Timing.Stagger = d
	}
	if v, ok := get(EnvFlip); ok {
		d, err := parseDuration(EnvFlip, v)
		if err != nil {
			return err
		}
		c.Game.Timing.Flip = d
	}
	if v, ok := get(EnvDailySalt); ok {
		c.Game.DailySalt = v
	}
	if v, ok := get(EnvPort); ok {
		c.Server.Address = addressFor(v)
	}
	if v, ok := get(EnvClientOrigin); ok {
		c.Server.ClientOrigin = v
	}
	if v, ok := get(EnvTokenSecret); ok {
		c.Server.TokenSecret = v
	}
	if v, ok := get(EnvSessionTTL); ok {
		d, err := parseDuration(EnvSessionTTL, v)
		if err != nil {
			return err
		}
		c.Server.SessionTTL = d
	}
	if v, ok := get(EnvCookieName); ok {
		c.Server.CookieName = v
	}
	return nil
}

// addressFor accepts a bare port ("8080") or a listen address (":8080").
func addressFor(v string) string {
	if strings.Contains(v, ":") {
		return v
	}
	return ":" + v
}

func parseDuration(name, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s value: negative duration %s", name, v)
	}
	return d, nil
}
