package game

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wordSet map[string]bool

func (w wordSet) IsValidGuess(word string) bool { return w[word] }

var testWords = wordSet{
	"crane": true, "trace": true, "apple": true, "slate": true, "rates": true,
	"pious": true, "dough": true, "mount": true, "flick": true, "bully": true,
}

// recorder collects events delivered to a subscriber.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func newInstant(t *testing.T, target string) (*Controller, *recorder) {
	t.Helper()
	c, err := New(target, testWords, WithTiming(Timing{}))
	require.NoError(t, err)
	rec := &recorder{}
	c.Subscribe(rec.record)
	return c, rec
}

func typeWord(c *Controller, word string) {
	for _, r := range word {
		c.PressLetter(r)
	}
}

func submitWord(t *testing.T, c *Controller, word string) *Reveal {
	t.Helper()
	typeWord(c, word)
	rev, err := c.SubmitGuess()
	require.NoError(t, err)
	return rev
}

func TestNewRejectsBadTarget(t *testing.T) {
	for _, target := range []string{"", "cran", "cranes", "cr4ne"} {
		_, err := New(target, testWords)
		assert.Error(t, err, target)
	}

	c, err := New(" CRANE ", testWords)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, c.Snapshot().Status)
}

func TestPressAndDelete(t *testing.T) {
	t.Run("overflow is ignored", func(t *testing.T) {
		c, rec := newInstant(t, "crane")
		typeWord(c, "crane")
		assert.False(t, c.PressLetter('s'))
		assert.Equal(t, "crane", c.Snapshot().Rows[0].Word())
		assert.Len(t, rec.kinds(EventLetter), 5)
	})

	t.Run("upper case is folded and non-letters ignored", func(t *testing.T) {
		c, _ := newInstant(t, "crane")
		assert.True(t, c.PressLetter('C'))
		assert.False(t, c.PressLetter('1'))
		assert.False(t, c.PressLetter('é'))
		assert.Equal(t, "c", c.Snapshot().Rows[0].Word())
	})

	t.Run("delete removes the last letter", func(t *testing.T) {
		c, _ := newInstant(t, "crane")
		typeWord(c, "cra")
		assert.True(t, c.DeleteLetter())
		assert.Equal(t, "cr", c.Snapshot().Rows[0].Word())
	})

	t.Run("delete on empty row is a no-op", func(t *testing.T) {
		c, rec := newInstant(t, "crane")
		assert.False(t, c.DeleteLetter())
		assert.Empty(t, rec.kinds(EventLetter))
	})
}

func TestSubmitValidation(t *testing.T) {
	t.Run("incomplete guess", func(t *testing.T) {
		c, rec := newInstant(t, "crane")
		typeWord(c, "cran")

		rev, err := c.SubmitGuess()
		assert.Nil(t, rev)
		assert.ErrorIs(t, err, ErrIncompleteGuess)

		st := c.Snapshot()
		assert.Equal(t, "cran", st.Rows[0].Word())
		assert.False(t, st.Rows[0].Scored)
		assert.Equal(t, StatusInProgress, st.Status)
		assert.Equal(t, PhaseIdle, st.Phase)

		msgs := rec.kinds(EventMessage)
		require.Len(t, msgs, 1)
		assert.Equal(t, MsgIncompleteGuess, msgs[0].Message.Code)
		assert.Equal(t, MessageDuration, msgs[0].Message.Duration)
	})

	t.Run("not in list", func(t *testing.T) {
		c, rec := newInstant(t, "crane")
		typeWord(c, "zzzzz")

		_, err := c.SubmitGuess()
		assert.ErrorIs(t, err, ErrNotInList)
		assert.Equal(t, "zzzzz", c.Snapshot().Rows[0].Word())

		msgs := rec.kinds(EventMessage)
		require.Len(t, msgs, 1)
		assert.Equal(t, MsgNotInList, msgs[0].Message.Code)
		assert.Equal(t, "Not in word list", msgs[0].Message.Text)
	})

	t.Run("row stays editable after a failure", func(t *testing.T) {
		c, _ := newInstant(t, "crane")
		typeWord(c, "zzzzz")
		_, err := c.SubmitGuess()
		require.Error(t, err)

		for i := 0; i < WordLength; i++ {
			require.True(t, c.DeleteLetter())
		}
		rev := submitWord(t, c, "trace")
		assert.Equal(t, 0, rev.Row())
	})
}

func TestScoredRow(t *testing.T) {
	c, rec := newInstant(t, "crane")
	rev := submitWord(t, c, "trace")

	select {
	case <-rev.Done():
	default:
		t.Fatal("instant reveal should already be done")
	}

	st := c.Snapshot()
	assert.Equal(t, Verdicts{A, C, C, P, C}, st.Rows[0].Verdicts())
	assert.True(t, st.Rows[0].Scored)
	assert.Equal(t, 1, st.Active)
	assert.Equal(t, 1, st.Attempts)
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Empty(t, st.Target)

	assert.Equal(t, VerdictAbsent, st.Keyboard.Get('t'))
	assert.Equal(t, VerdictCorrect, st.Keyboard.Get('r'))
	assert.Equal(t, VerdictCorrect, st.Keyboard.Get('a'))
	assert.Equal(t, VerdictPresent, st.Keyboard.Get('c'))

	reveals := rec.kinds(EventReveal)
	require.Len(t, reveals, WordLength)
	for i, ev := range reveals {
		assert.Equal(t, i, ev.Index)
		assert.Equal(t, string("trace"[i]), ev.Letter)
	}

	// A scored row no longer changes.
	assert.True(t, c.PressLetter('s'))
	assert.Equal(t, "trace", c.Snapshot().Rows[0].Word())
	assert.Equal(t, "s", c.Snapshot().Rows[1].Word())
}

func TestKeyboardKeepsBestHint(t *testing.T) {
	c, _ := newInstant(t, "crane")
	submitWord(t, c, "trace") // r correct
	submitWord(t, c, "rates") // r present at 0

	st := c.Snapshot()
	assert.Equal(t, VerdictPresent, st.Rows[1].Slots[0].Verdict)
	assert.Equal(t, VerdictCorrect, st.Keyboard.Get('r'))
	assert.Equal(t, VerdictAbsent, st.Keyboard.Get('s'))
}

func TestWin(t *testing.T) {
	c, rec := newInstant(t, "apple")
	submitWord(t, c, "apple")

	st := c.Snapshot()
	assert.True(t, st.Rows[0].Verdicts().AllCorrect())
	assert.Equal(t, StatusWon, st.Status)
	assert.Equal(t, PhaseWon, st.Phase)
	assert.Equal(t, "apple", st.Target)

	statuses := rec.kinds(EventStatus)
	require.Len(t, statuses, 1)
	assert.Equal(t, StatusWon, statuses[0].Status)

	msgs := rec.kinds(EventMessage)
	require.Len(t, msgs, 1)
	assert.Equal(t, "No Way !", msgs[0].Message.Text)
	assert.Equal(t, WinMessageDuration, msgs[0].Message.Duration)

	// Terminal: nothing else is accepted.
	assert.False(t, c.PressLetter('a'))
	assert.False(t, c.DeleteLetter())
	_, err := c.SubmitGuess()
	assert.ErrorIs(t, err, ErrSessionOver)
	_, err = c.HandleKey("a")
	assert.ErrorIs(t, err, ErrSessionOver)
}

func TestWinPraiseByAttempt(t *testing.T) {
	c, rec := newInstant(t, "crane")
	submitWord(t, c, "slate")
	submitWord(t, c, "trace")
	submitWord(t, c, "crane")

	msgs := rec.kinds(EventMessage)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Genius", msgs[0].Message.Text)
	assert.Equal(t, 3, c.Snapshot().Attempts)
}

func TestLoss(t *testing.T) {
	c, rec := newInstant(t, "crane")
	guesses := []string{"slate", "trace", "rates", "pious", "dough", "mount"}
	for i, g := range guesses {
		submitWord(t, c, g)
		st := c.Snapshot()
		if i < len(guesses)-1 {
			require.Equal(t, StatusInProgress, st.Status, "after guess %d", i+1)
		}
	}

	st := c.Snapshot()
	assert.Equal(t, StatusLost, st.Status)
	assert.Equal(t, PhaseLost, st.Phase)
	assert.Equal(t, MaxGuesses, st.Attempts)
	assert.Equal(t, "crane", st.Target)

	msgs := rec.kinds(EventMessage)
	require.Len(t, msgs, 1)
	assert.Equal(t, MsgLost, msgs[0].Message.Code)
	assert.Equal(t, "CRANE", msgs[0].Message.Text)
	assert.Zero(t, msgs[0].Message.Duration)

	typeWord(c, "flick")
	_, err := c.SubmitGuess()
	assert.ErrorIs(t, err, ErrSessionOver)
	assert.Equal(t, MaxGuesses, c.Snapshot().Attempts)
}

func TestCanonicalScoringOption(t *testing.T) {
	dict := wordSet{"speed": true}
	c, err := New("crane", dict, WithTiming(Timing{}), WithScoring(ScoringCanonical))
	require.NoError(t, err)
	submitWord(t, c, "speed")
	assert.Equal(t, Verdicts{A, A, P, A, A}, c.Snapshot().Rows[0].Verdicts())
}

func TestHandleKey(t *testing.T) {
	c, rec := newInstant(t, "crane")

	for _, k := range []string{"t", "R", "a", "c", "x", "Backspace", "e"} {
		_, err := c.HandleKey(k)
		require.NoError(t, err, k)
	}
	assert.Equal(t, "trace", c.Snapshot().Rows[0].Word())

	_, err := c.HandleKey("F5")
	assert.ErrorIs(t, err, ErrInvalidKey)
	msgs := rec.kinds(EventMessage)
	require.Len(t, msgs, 1)
	assert.Equal(t, MsgInvalidKey, msgs[0].Message.Code)

	rev, err := c.HandleKey("Enter")
	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, "trace", rev.Word())
	assert.Equal(t, 1, c.Snapshot().Active)
}

func TestStateJSON(t *testing.T) {
	c, _ := newInstant(t, "crane")
	submitWord(t, c, "trace")

	raw, err := json.Marshal(c.Snapshot())
	require.NoError(t, err)

	var decoded struct {
		Rows []struct {
			Slots []struct {
				Letter  string `json:"letter"`
				Verdict string `json:"verdict"`
			} `json:"slots"`
		} `json:"rows"`
		Keyboard map[string]string `json:"keyboard"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Rows, MaxGuesses)
	assert.Equal(t, "t", decoded.Rows[0].Slots[0].Letter)
	assert.Equal(t, "absent", decoded.Rows[0].Slots[0].Verdict)
	assert.Equal(t, "correct", decoded.Keyboard["r"])
	assert.Equal(t, "", decoded.Rows[1].Slots[0].Letter)

	var back State
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, c.Snapshot(), back)
}

func TestStaggeredReveal(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	timing := Timing{Stagger: 250 * time.Millisecond, Flip: 250 * time.Millisecond}
	c, err := New("crane", testWords, WithClock(mClock), WithTiming(timing))
	require.NoError(t, err)
	rec := &recorder{}
	c.Subscribe(rec.record)

	rev := submitWord(t, c, "trace")
	assert.Equal(t, PhaseScoring, c.Snapshot().Phase)
	assert.Same(t, rev, c.Pending())

	// Input is locked until the last tile is revealed.
	assert.False(t, c.PressLetter('s'))
	assert.False(t, c.DeleteLetter())
	_, err = c.SubmitGuess()
	assert.ErrorIs(t, err, ErrInputLocked)
	_, err = c.HandleKey("s")
	assert.ErrorIs(t, err, ErrInputLocked)

	var elapsed time.Duration
	for i := 0; i < WordLength; i++ {
		d, w := mClock.AdvanceNext()
		w.MustWait(ctx)
		elapsed += d

		reveals := rec.kinds(EventReveal)
		require.Len(t, reveals, i+1)
		assert.Equal(t, i, reveals[i].Index)
		assert.Equal(t, Verdicts{A, C, C, P, C}[i], reveals[i].Verdict)

		select {
		case <-rev.Done():
			t.Fatalf("reveal done after tile %d", i)
		default:
		}
		assert.Equal(t, PhaseScoring, c.Snapshot().Phase)
	}

	d, w := mClock.AdvanceNext()
	w.MustWait(ctx)
	elapsed += d
	require.NoError(t, rev.Wait(ctx))
	assert.Equal(t, timing.Total(), elapsed)

	st := c.Snapshot()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, 1, st.Active)
	assert.Nil(t, c.Pending())
	assert.True(t, c.PressLetter('s'))

	inputs := rec.kinds(EventInput)
	require.Len(t, inputs, 2)
	assert.True(t, inputs[0].Locked)
	assert.False(t, inputs[1].Locked)
}

func TestSubscribeCancel(t *testing.T) {
	c, _ := newInstant(t, "crane")
	rec := &recorder{}
	cancel := c.Subscribe(rec.record)
	c.PressLetter('a')
	cancel()
	c.PressLetter('b')
	assert.Len(t, rec.kinds(EventLetter), 1)
}
