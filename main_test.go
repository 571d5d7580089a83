package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli, kong.Name("tilewords"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	return parser
}

func TestCLIParsing(t *testing.T) {
	t.Run("play is the default command", func(t *testing.T) {
		var cli CLI
		ctx, err := newParser(t, &cli).Parse([]string{"--debug"})
		require.NoError(t, err)
		assert.Equal(t, "play", ctx.Command())
		assert.True(t, cli.Debug)
	})

	t.Run("play flags", func(t *testing.T) {
		var cli CLI
		_, err := newParser(t, &cli).Parse([]string{"play", "--daily", "--seed", "42"})
		require.NoError(t, err)
		assert.True(t, cli.Play.Daily)
		require.NotNil(t, cli.Play.Seed)
		assert.Equal(t, uint64(42), *cli.Play.Seed)
	})

	t.Run("score arguments", func(t *testing.T) {
		var cli CLI
		ctx, err := newParser(t, &cli).Parse([]string{"score", "speed", "crane", "--canonical"})
		require.NoError(t, err)
		assert.Equal(t, "score <guess> <target>", ctx.Command())
		assert.Equal(t, "speed", cli.Score.Guess)
		assert.Equal(t, "crane", cli.Score.Target)
		assert.True(t, cli.Score.Canonical)
	})

	t.Run("serve address", func(t *testing.T) {
		var cli CLI
		_, err := newParser(t, &cli).Parse([]string{"serve", "--addr", ":9999"})
		require.NoError(t, err)
		assert.Equal(t, ":9999", cli.Serve.Addr)
	})

	t.Run("score needs both words", func(t *testing.T) {
		var cli CLI
		_, err := newParser(t, &cli).Parse([]string{"score", "speed"})
		assert.Error(t, err)
	})
}
