package game

import (
	"context"
	"time"
)

// Timing controls the staggered reveal of a scored row.
//
// Tile i is revealed Flip + i*Stagger after submission; the row completes
// one more Flip after the last tile. Zero values reveal everything at once.
type Timing struct {
	Stagger time.Duration
	Flip    time.Duration
}

// DefaultTiming matches a 500ms tile flip started every 250ms.
var DefaultTiming = Timing{Stagger: 250 * time.Millisecond, Flip: 250 * time.Millisecond}

// Instant reports whether no step waits on the clock.
func (t Timing) Instant() bool { return t.Stagger <= 0 && t.Flip <= 0 }

// Total is the time from submission to completion.
func (t Timing) Total() time.Duration {
	return 2*t.Flip + time.Duration(WordLength-1)*t.Stagger
}

// delay returns the wait before step (WordLength means completion).
func (t Timing) delay(step int) time.Duration {
	if step == 0 || step == WordLength {
		return t.Flip
	}
	return t.Stagger
}

// Reveal is one submitted row being disclosed. It runs to completion once
// started; Done is closed after the last verdict is applied, win/loss is
// evaluated and input is accepted again.
type Reveal struct {
	row      int
	word     string
	verdicts Verdicts
	done     chan struct{}
}

func newReveal(row int, word string, vs Verdicts) *Reveal {
	return &Reveal{row: row, word: word, verdicts: vs, done: make(chan struct{})}
}

// Row is the index of the row being revealed.
func (r *Reveal) Row() int { return r.row }

// Word is the submitted guess.
func (r *Reveal) Word() string { return r.word }

// Verdicts are the scores being revealed, left to right.
func (r *Reveal) Verdicts() Verdicts { return r.verdicts }

// Done is closed when the reveal has completed.
func (r *Reveal) Done() <-chan struct{} { return r.done }

// Wait blocks until the reveal completes or ctx ends.
func (r *Reveal) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
