// internal/words/words.go
//
// Word list collaborator for the game engine.
//
// Responsibilities:
//   - Load answer and allowed guess lists from files or fall back to the embedded defaults.
//   - Maintain sets for quick lookups (answers only, answers∪guesses).
//   - Supply PickTarget, IsValidGuess, IsAnswer, Daily and Stats.
//
// Word Lists:
//   - "answers": the target pool (exactly 5 lowercase letters).
//   - "allowed": valid guesses (always includes answers).
//
// Loading behavior (Load):
//  1. If both AnswersFile and AllowedFile are set,
//     load answers from the first and allowed guesses from the second.
//  2. If only AllowedFile is set,
//     load that file and use it for both answers and allowed guesses.
//  3. Otherwise use the lists embedded in the assets package.
//
// Constraints:
//   - Words must be 5 alphabetic letters (a–z); other lines are dropped.
//   - Lists are normalized to lowercase.
package words

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/tilewords/assets"
)

const wordLength = 5

// ErrNoAnswers is returned when the target pool ends up empty.
var ErrNoAnswers = errors.New("words: answers list is empty")

// Sources names optional list files. Empty fields fall back as described above.
type Sources struct {
	AnswersFile string
	AllowedFile string
}

// List is an immutable pair of answer and allowed-guess lists.
// It is safe for concurrent use.
type List struct {
	answers    []string
	answersSet map[string]struct{}
	allowedSet map[string]struct{} // answers ∪ guesses

	mu  sync.Mutex
	rng *mrand.Rand // nil means crypto/rand
}

// Load builds a List from src.
func Load(src Sources) (*List, error) {
	var ansList, allowList []string
	var err error

	switch {
	case src.AnswersFile != "" && src.AllowedFile != "":
		if ansList, err = readWordFile(src.AnswersFile); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(src.AllowedFile); err != nil {
			return nil, err
		}

	case src.AllowedFile != "":
		if allowList, err = readWordFile(src.AllowedFile); err != nil {
			return nil, err
		}
		ansList = allowList

	default:
		if ansList, err = assets.AnswersList(); err != nil {
			return nil, fmt.Errorf("embedded answers: %w", err)
		}
		if allowList, err = assets.AllowedList(); err != nil {
			return nil, fmt.Errorf("embedded allowed: %w", err)
		}
	}

	return New(ansList, allowList)
}

// New builds a List from in-memory word slices. Invalid words are dropped.
func New(answers, allowed []string) (*List, error) {
	l := &List{}
	l.answers = normalize(answers)
	l.answersSet = toSet(l.answers)

	// Ensure all answers are also marked as allowed
	l.allowedSet = toSet(l.answers)
	for _, w := range normalize(allowed) {
		l.allowedSet[w] = struct{}{}
	}

	if len(l.answers) == 0 {
		return nil, ErrNoAnswers
	}
	return l, nil
}

// WithSeed makes PickTarget deterministic. Used for reproducible sessions.
func (l *List) WithSeed(seed uint64) *List {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rng = mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return l
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	out, err := assets.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// normalize lowercases, trims, deduplicates and keeps valid 5-letter words.
func normalize(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.TrimSpace(strings.ToLower(w))
		if len(w) != wordLength || !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// PickTarget returns a random answer.
func (l *List) PickTarget() string {
	return l.answers[l.intn(len(l.answers))]
}

func (l *List) intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rng != nil {
		return l.rng.IntN(n)
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}

// IsValidGuess reports whether w is an accepted guess (answers ∪ guesses).
func (l *List) IsValidGuess(w string) bool {
	_, ok := l.allowedSet[strings.ToLower(w)]
	return ok
}

// IsAnswer reports whether w is in the target pool.
func (l *List) IsAnswer(w string) bool {
	_, ok := l.answersSet[strings.ToLower(w)]
	return ok
}

// Answers returns a copy of the target pool.
func (l *List) Answers() []string {
	return append([]string(nil), l.answers...)
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *List) Stats() (answersCount int, allowedCount int) {
	return len(l.answers), len(l.allowedSet)
}
