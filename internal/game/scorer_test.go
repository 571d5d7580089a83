package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	C = VerdictCorrect
	P = VerdictPresent
	A = VerdictAbsent
)

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		guess, target string
		want          Verdicts
	}{
		{"trace against crane", "trace", "crane", Verdicts{A, C, C, P, C}},
		{"exact match", "apple", "apple", Verdicts{C, C, C, C, C}},
		{"no shared letters", "bully", "crane", Verdicts{A, A, A, A, A}},
		{"repeated letters both supplied", "label", "allow", Verdicts{P, P, A, A, P}},
		{"repeated target letter", "virus", "class", Verdicts{A, A, A, A, C}},
		{"over-supplied letter is absent", "speed", "crane", Verdicts{A, A, A, A, A}},
		{"over-supplied letter next to correct", "bobby", "abbey", Verdicts{A, A, C, A, C}},
		{"single occurrence", "ocean", "crane", Verdicts{A, P, P, P, P}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.guess, tt.target))
		})
	}
}

func TestScoreCanonical(t *testing.T) {
	tests := []struct {
		name          string
		guess, target string
		want          Verdicts
	}{
		{"trace against crane", "trace", "crane", Verdicts{A, C, C, P, C}},
		{"first duplicate present", "speed", "crane", Verdicts{A, A, P, A, A}},
		{"unused copy present", "bobby", "abbey", Verdicts{P, A, C, A, C}},
		{"label against allow", "label", "allow", Verdicts{P, P, A, A, P}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreCanonical(tt.guess, tt.target))
		})
	}
}

func TestScoreProperties(t *testing.T) {
	words := []string{"crane", "apple", "trace", "speed", "allow", "label", "class", "virus", "abbey"}

	t.Run("word against itself is all correct", func(t *testing.T) {
		for _, w := range words {
			assert.True(t, Score(w, w).AllCorrect(), w)
			assert.True(t, ScoreCanonical(w, w).AllCorrect(), w)
		}
	})

	t.Run("disjoint letters are all absent", func(t *testing.T) {
		for _, w := range words {
			for _, v := range Score("qjzxk", w) {
				assert.Equal(t, VerdictAbsent, v, w)
			}
		}
	})

	t.Run("scoring is deterministic", func(t *testing.T) {
		for _, g := range words {
			for _, w := range words {
				assert.Equal(t, Score(g, w), Score(g, w))
			}
		}
	})
}

func TestParseScoring(t *testing.T) {
	s, err := ParseScoring("")
	require.NoError(t, err)
	assert.Equal(t, ScoringHeuristic, s)

	s, err = ParseScoring(" Canonical ")
	require.NoError(t, err)
	assert.Equal(t, ScoringCanonical, s)
	assert.Equal(t, Verdicts{A, A, P, A, A}, s.Func()("speed", "crane"))

	_, err = ParseScoring("fuzzy")
	assert.Error(t, err)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		input    string
		expected Verdict
		hasError bool
	}{
		{"correct", VerdictCorrect, false},
		{"PRESENT", VerdictPresent, false},
		{"present-elsewhere", VerdictPresent, false},
		{"absent", VerdictAbsent, false},
		{"unset", VerdictUnset, false},
		{"green", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseVerdict(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestKeyboardNeverDowngrades(t *testing.T) {
	k := KeyboardState{}
	assert.True(t, k.Apply('r', VerdictAbsent))
	assert.True(t, k.Apply('r', VerdictCorrect))
	assert.False(t, k.Apply('r', VerdictPresent))
	assert.False(t, k.Apply('r', VerdictAbsent))
	assert.Equal(t, VerdictCorrect, k.Get('r'))
	assert.Equal(t, VerdictUnset, k.Get('z'))
}
