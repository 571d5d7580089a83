// internal/game/engine.go
//
// Game state controller for a single session.
// Responsibilities:
//   - Buffer letters into the active row (press/delete), ignoring overflow.
//   - Validate submissions (length, dictionary membership).
//   - Score guesses and reveal verdicts tile by tile on a clock.
//   - Keep the keyboard hints and track state transitions: in-progress → won/lost.
//
// Notes:
//   - Input is rejected while a row is being revealed; the reveal's completion
//     re-enables it and decides win/loss.
//   - Events reach subscribers outside the state lock, in the order the state
//     changed. Subscribers must not call back into the controller synchronously.
package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/coder/quartz"
)

// Dictionary decides which words are accepted as guesses.
type Dictionary interface {
	IsValidGuess(word string) bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock driving reveals (quartz.NewMock in tests).
func WithClock(clk quartz.Clock) Option { return func(c *Controller) { c.clock = clk } }

// WithTiming sets the reveal stagger and flip durations.
func WithTiming(t Timing) Option { return func(c *Controller) { c.timing = t } }

// WithScoring selects the duplicate-letter policy.
func WithScoring(s Scoring) Option { return func(c *Controller) { c.score = s.Func() } }

// Controller owns one session: the target, the rows, the keyboard hints and
// the input phase. All methods are safe for concurrent use.
type Controller struct {
	dict   Dictionary
	clock  quartz.Clock
	timing Timing
	score  ScoreFunc

	mu       sync.Mutex
	target   string
	rows     [MaxGuesses]GuessRow
	active   int
	status   Status
	phase    Phase
	keyboard KeyboardState
	reveal   *Reveal

	// emitMu keeps delivery order equal to mutation order.
	emitMu sync.Mutex
	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// New starts a session guessing target. The target must be WordLength letters.
func New(target string, dict Dictionary, opts ...Option) (*Controller, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if !IsWord(target) {
		return nil, fmt.Errorf("invalid target %q: want %d letters a-z", target, WordLength)
	}
	c := &Controller{
		dict:     dict,
		clock:    quartz.NewReal(),
		timing:   DefaultTiming,
		score:    Score,
		target:   target,
		status:   StatusInProgress,
		phase:    PhaseIdle,
		keyboard: KeyboardState{},
		subs:     make(map[int]func(Event)),
	}
	for i := range c.rows {
		c.rows[i] = newRow()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Timing returns the reveal timing in use.
func (c *Controller) Timing() Timing { return c.timing }

// Subscribe registers fn for events and returns a function removing it.
func (c *Controller) Subscribe(fn func(Event)) (cancel func()) {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()
	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// PressLetter appends ch to the active row. It is a no-op (false) when the
// row is full, ch is not a letter, or input is not accepted.
func (c *Controller) PressLetter(ch rune) bool {
	ch = toLower(ch)
	if ch < 'a' || ch > 'z' {
		return false
	}
	c.mu.Lock()
	if !c.phase.AcceptsInput() || !c.rows[c.active].push(ch) {
		c.mu.Unlock()
		return false
	}
	ev := c.letterEvent()
	c.unlockAndEmit(ev)
	return true
}

// DeleteLetter removes the last letter of the active row. It is a no-op
// (false) when the row is empty or input is not accepted.
func (c *Controller) DeleteLetter() bool {
	c.mu.Lock()
	if !c.phase.AcceptsInput() || !c.rows[c.active].pop() {
		c.mu.Unlock()
		return false
	}
	ev := c.letterEvent()
	c.unlockAndEmit(ev)
	return true
}

// SubmitGuess validates the active row and starts revealing its verdicts.
//
// Returns ErrIncompleteGuess or ErrNotInList (row stays active, a message
// event is emitted), ErrInputLocked while another row is being revealed, or
// ErrSessionOver once the session has ended.
func (c *Controller) SubmitGuess() (*Reveal, error) {
	c.mu.Lock()
	if err := c.inputErr(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	row := &c.rows[c.active]
	word := row.Word()

	var err error
	switch {
	case !row.Full():
		err = ErrIncompleteGuess
	case c.dict != nil && !c.dict.IsValidGuess(word):
		err = ErrNotInList
	}
	if err != nil {
		msg, _ := MessageFor(err)
		c.unlockAndEmit(Event{Kind: EventMessage, Row: c.active, Message: &msg})
		return nil, fmt.Errorf("%w: %q", err, word)
	}

	rev := newReveal(c.active, word, c.score(word, c.target))
	c.reveal = rev
	c.phase = PhaseScoring
	c.unlockAndEmit(Event{Kind: EventInput, Row: rev.row, Word: word, Locked: true})

	c.schedule(rev, 0)
	return rev, nil
}

// Pending returns the reveal in flight, or nil.
func (c *Controller) Pending() *Reveal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reveal
}

// State is a copy of the session for presentation.
type State struct {
	Rows     []GuessRow    `json:"rows"`
	Active   int           `json:"active"`
	Attempts int           `json:"attempts"`
	Status   Status        `json:"status"`
	Phase    Phase         `json:"phase"`
	Keyboard KeyboardState `json:"keyboard"`
	// Target is only filled in once the session is over.
	Target string `json:"target,omitempty"`
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		Rows:     append([]GuessRow(nil), c.rows[:]...),
		Active:   c.active,
		Attempts: c.attempts(),
		Status:   c.status,
		Phase:    c.phase,
		Keyboard: c.keyboard.Clone(),
	}
	if c.status.Over() {
		st.Target = c.target
	}
	return st
}

// schedule runs reveal step after its delay; step WordLength completes the row.
func (c *Controller) schedule(rev *Reveal, step int) {
	run := func() { c.advance(rev, step) }
	if c.timing.Instant() {
		run()
		return
	}
	c.clock.AfterFunc(c.timing.delay(step), run, "reveal")
}

// advance applies one verdict and chains the next step once its events
// have been delivered, so tiles always appear left to right.
func (c *Controller) advance(rev *Reveal, step int) {
	if step == WordLength {
		c.complete(rev)
		return
	}
	c.mu.Lock()
	slot := &c.rows[rev.row].Slots[step]
	slot.Verdict = rev.verdicts[step]
	c.keyboard.Apply(slot.Letter, slot.Verdict)
	ev := Event{
		Kind:    EventReveal,
		Row:     rev.row,
		Index:   step,
		Letter:  string(slot.Letter),
		Verdict: slot.Verdict,
	}
	c.unlockAndEmit(ev)
	c.schedule(rev, step+1)
}

// complete freezes the row, settles win/loss and re-enables input.
func (c *Controller) complete(rev *Reveal) {
	c.mu.Lock()
	c.rows[rev.row].Scored = true
	c.reveal = nil

	var evs []Event
	switch {
	case rev.word == c.target:
		c.status, c.phase = StatusWon, PhaseWon
		msg := winMessage(rev.row + 1)
		evs = append(evs,
			Event{Kind: EventStatus, Row: rev.row, Status: c.status},
			Event{Kind: EventMessage, Row: rev.row, Message: &msg})
	case rev.row+1 >= MaxGuesses:
		c.status, c.phase = StatusLost, PhaseLost
		msg := lossMessage(c.target)
		evs = append(evs,
			Event{Kind: EventStatus, Row: rev.row, Status: c.status},
			Event{Kind: EventMessage, Row: rev.row, Message: &msg})
	default:
		c.active = rev.row + 1
		c.phase = PhaseIdle
		evs = append(evs, Event{Kind: EventInput, Row: c.active, Locked: false})
	}
	c.unlockAndEmit(evs...)
	close(rev.done)
}

// notify emits a message event without changing state.
func (c *Controller) notify(msg Message) {
	c.mu.Lock()
	c.unlockAndEmit(Event{Kind: EventMessage, Row: c.active, Message: &msg})
}

// inputErr reports why input is refused. Callers hold mu.
func (c *Controller) inputErr() error {
	switch c.phase {
	case PhaseScoring:
		return ErrInputLocked
	case PhaseWon, PhaseLost:
		return ErrSessionOver
	}
	return nil
}

// attempts counts scored rows. Callers hold mu.
func (c *Controller) attempts() int {
	n := 0
	for _, r := range c.rows {
		if r.Scored {
			n++
		}
	}
	return n
}

func (c *Controller) letterEvent() Event {
	return Event{Kind: EventLetter, Row: c.active, Word: c.rows[c.active].Word()}
}

// unlockAndEmit releases mu and delivers evs before any later mutation's
// events. Callers hold mu.
func (c *Controller) unlockAndEmit(evs ...Event) {
	c.emitMu.Lock()
	c.mu.Unlock()
	defer c.emitMu.Unlock()

	c.subMu.Lock()
	subs := make([]func(Event), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	for _, ev := range evs {
		for _, fn := range subs {
			fn(ev)
		}
	}
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
