// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Verdict: per-letter result of a scored guess (correct/present/absent).
//   - Status:  coarse session outcome (in-progress/won/lost).
//   - Phase:   controller input state (idle/scoring/won/lost).
//   - Slot, GuessRow: one letter cell and one attempt.

package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// WordLength is the number of letters in a guess and in the target.
	WordLength = 5
	// MaxGuesses is the number of rows a session offers.
	MaxGuesses = 6
)

// Verdict represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "unset":   not scored yet.
//   - "correct": letter is in the target at this position.
//   - "present": letter is in the target, elsewhere.
//   - "absent":  letter is not in the target (or is over-supplied).
type Verdict string

const (
	VerdictUnset   Verdict = "unset"
	VerdictCorrect Verdict = "correct"
	VerdictPresent Verdict = "present"
	VerdictAbsent  Verdict = "absent"
)

func (v Verdict) String() string { return string(v) }

// IsValid reports whether v is one of the defined verdicts.
func (v Verdict) IsValid() bool {
	switch v {
	case VerdictUnset, VerdictCorrect, VerdictPresent, VerdictAbsent:
		return true
	}
	return false
}

// rank orders verdicts for keyboard hints; higher never gives way to lower.
func (v Verdict) rank() int {
	switch v {
	case VerdictCorrect:
		return 3
	case VerdictPresent:
		return 2
	case VerdictAbsent:
		return 1
	}
	return 0
}

// ParseVerdict converts a string into a Verdict, case-insensitively.
// "present-elsewhere" is accepted as an alias for "present".
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(strings.ToLower(strings.TrimSpace(s)))
	if v == "present-elsewhere" {
		return VerdictPresent, nil
	}
	if !v.IsValid() {
		return "", fmt.Errorf("invalid verdict %q", s)
	}
	return v, nil
}

// Verdicts is the scored result of one guess, in position order.
type Verdicts [WordLength]Verdict

// AllCorrect reports whether every position is VerdictCorrect.
func (vs Verdicts) AllCorrect() bool {
	for _, v := range vs {
		if v != VerdictCorrect {
			return false
		}
	}
	return true
}

// MarshalJSON encodes as a plain JSON array of strings.
func (vs Verdicts) MarshalJSON() ([]byte, error) {
	return json.Marshal(vs[:])
}

// Status is the outcome of a session. It only moves forward.
type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

func (s Status) String() string { return string(s) }

// Over reports whether s is terminal.
func (s Status) Over() bool { return s == StatusWon || s == StatusLost }

// Phase is the controller's input state.
//
//	idle --valid submit--> scoring --verdicts applied--> idle | won | lost
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseScoring Phase = "scoring"
	PhaseWon     Phase = "won"
	PhaseLost    Phase = "lost"
)

func (p Phase) String() string { return string(p) }

// AcceptsInput reports whether letters, deletes and submits are taken in p.
func (p Phase) AcceptsInput() bool { return p == PhaseIdle }

// Slot is one letter cell of a row. Letter is 0 while the cell is empty.
type Slot struct {
	Letter  rune    `json:"-"`
	Verdict Verdict `json:"verdict"`
}

// MarshalJSON renders the letter as a one-character string ("" when empty).
func (s Slot) MarshalJSON() ([]byte, error) {
	letter := ""
	if s.Letter != 0 {
		letter = string(s.Letter)
	}
	return json.Marshal(struct {
		Letter  string  `json:"letter"`
		Verdict Verdict `json:"verdict"`
	}{letter, s.Verdict})
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (s *Slot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Letter  string  `json:"letter"`
		Verdict Verdict `json:"verdict"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Letter = 0
	for _, r := range raw.Letter {
		s.Letter = r
		break
	}
	s.Verdict = raw.Verdict
	return nil
}

// GuessRow is one attempt. It accepts letters until it is scored.
type GuessRow struct {
	Slots  [WordLength]Slot `json:"slots"`
	Filled int              `json:"filled"`
	Scored bool             `json:"scored"`
}

func newRow() GuessRow {
	var r GuessRow
	for i := range r.Slots {
		r.Slots[i].Verdict = VerdictUnset
	}
	return r
}

// Word returns the letters typed so far.
func (r GuessRow) Word() string {
	var b strings.Builder
	for i := 0; i < r.Filled; i++ {
		b.WriteRune(r.Slots[i].Letter)
	}
	return b.String()
}

// Full reports whether every slot holds a letter.
func (r GuessRow) Full() bool { return r.Filled == WordLength }

// Verdicts returns the row's per-slot verdicts.
func (r GuessRow) Verdicts() Verdicts {
	var vs Verdicts
	for i, s := range r.Slots {
		vs[i] = s.Verdict
	}
	return vs
}

func (r *GuessRow) push(ch rune) bool {
	if r.Scored || r.Filled >= WordLength {
		return false
	}
	r.Slots[r.Filled].Letter = ch
	r.Filled++
	return true
}

func (r *GuessRow) pop() bool {
	if r.Scored || r.Filled == 0 {
		return false
	}
	r.Filled--
	r.Slots[r.Filled].Letter = 0
	return true
}
