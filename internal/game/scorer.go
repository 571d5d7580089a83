package game

import (
	"fmt"
	"strings"
)

// Scoring selects the duplicate-letter policy used to score guesses.
type Scoring string

const (
	// ScoringHeuristic marks a misplaced letter present only while the guess
	// does not use it more often than the target does.
	ScoringHeuristic Scoring = "heuristic"
	// ScoringCanonical allocates each target letter to at most one guess tile.
	ScoringCanonical Scoring = "canonical"
)

// ParseScoring converts a config value into a Scoring. Empty means heuristic.
func ParseScoring(s string) (Scoring, error) {
	switch Scoring(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScoringHeuristic:
		return ScoringHeuristic, nil
	case ScoringCanonical:
		return ScoringCanonical, nil
	}
	return "", fmt.Errorf("unknown scoring %q (want heuristic or canonical)", s)
}

// ScoreFunc scores a guess against a target. Both are WordLength lowercase letters.
type ScoreFunc func(guess, target string) Verdicts

// Func returns the scorer for the policy.
func (s Scoring) Func() ScoreFunc {
	if s == ScoringCanonical {
		return ScoreCanonical
	}
	return Score
}

// Score evaluates guess against target letter by letter.
//
//   - Exact position match → correct.
//   - Otherwise the letter is present when the target contains it and either
//     the guess uses it no more often than the target, or it occurs in the
//     guess exactly once at this position.
//   - Everything else is absent.
//
// Repeated letters are not allocated across positions, so some arrangements
// (for example SPEED against CRANE) score differently than ScoreCanonical.
func Score(guess, target string) Verdicts {
	var out Verdicts
	for i := 0; i < WordLength; i++ {
		c := guess[i]
		switch {
		case c == target[i]:
			out[i] = VerdictCorrect
		case strings.IndexByte(target, c) >= 0 &&
			(strings.Count(guess, string(c)) <= strings.Count(target, string(c)) ||
				(i == strings.IndexByte(guess, c) && i == strings.LastIndexByte(guess, c))):
			out[i] = VerdictPresent
		default:
			out[i] = VerdictAbsent
		}
	}
	return out
}

// ScoreCanonical implements the two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as correct.
//   - Count remaining (non-correct) target letters.
//
// Pass 2:
//   - For each non-correct guess letter: if there is remaining count for that
//     letter, mark present and decrement; otherwise absent.
func ScoreCanonical(guess, target string) Verdicts {
	var out Verdicts
	var counts [26]int

	for i := 0; i < WordLength; i++ {
		if guess[i] == target[i] {
			out[i] = VerdictCorrect
		} else {
			counts[idx(target[i])]++
		}
	}

	for i := 0; i < WordLength; i++ {
		if out[i] == VerdictCorrect {
			continue
		}
		j := idx(guess[i])
		if j >= 0 && j < 26 && counts[j] > 0 {
			out[i] = VerdictPresent
			counts[j]--
		} else {
			out[i] = VerdictAbsent
		}
	}
	return out
}

// idx maps a lowercase ASCII letter to 0..25.
func idx(c byte) int { return int(c) - 'a' }

// IsWord reports whether s is WordLength lowercase a–z letters.
func IsWord(s string) bool {
	if len(s) != WordLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
