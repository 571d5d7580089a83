package game

import (
	"encoding/json"
	"fmt"
)

// KeyboardState maps each letter to the best verdict seen across scored
// tiles. A key never downgrades: once correct it stays correct.
type KeyboardState map[rune]Verdict

// Get returns the verdict for letter, or VerdictUnset.
func (k KeyboardState) Get(letter rune) Verdict {
	if v, ok := k[letter]; ok {
		return v
	}
	return VerdictUnset
}

// Apply records v for letter if it outranks the current hint.
// Reports whether the hint changed.
func (k KeyboardState) Apply(letter rune, v Verdict) bool {
	if v.rank() <= k.Get(letter).rank() {
		return false
	}
	k[letter] = v
	return true
}

// Clone returns an independent copy.
func (k KeyboardState) Clone() KeyboardState {
	out := make(KeyboardState, len(k))
	for l, v := range k {
		out[l] = v
	}
	return out
}

// MarshalJSON encodes keys as one-letter strings.
func (k KeyboardState) MarshalJSON() ([]byte, error) {
	m := make(map[string]Verdict, len(k))
	for l, v := range k {
		m[string(l)] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (k *KeyboardState) UnmarshalJSON(data []byte) error {
	var m map[string]Verdict
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := make(KeyboardState, len(m))
	for l, v := range m {
		r := []rune(l)
		if len(r) != 1 {
			return fmt.Errorf("invalid keyboard key %q", l)
		}
		out[r[0]] = v
	}
	*k = out
	return nil
}
