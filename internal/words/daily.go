package words

import (
	"time"

	"github.com/robalobadob/tilewords/internal/daily"
)

// Daily returns the puzzle for t and its target word.
func (l *List) Daily(t time.Time, salt string) (daily.Puzzle, string) {
	p := daily.For(t, salt, len(l.answers))
	return p, l.answers[p.Index]
}
