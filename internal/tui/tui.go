// Package tui is the terminal front end for a game session: the guess grid,
// an on-screen keyboard colored by the hints so far, and a message line.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/robalobadob/tilewords/internal/game"
)

// Starter creates the controller for a new game.
type Starter func() (*game.Controller, error)

// eventBacklog bounds controller events waiting for the UI loop. One guess
// produces fewer than ten.
const eventBacklog = 256

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

type keyMap struct {
	Submit  key.Binding
	Delete  key.Binding
	NewGame key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Delete, k.NewGame, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Delete:  key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("⌫", "delete")),
		NewGame: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new game"), key.WithDisabled()),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// eventMsg carries one controller event into the update loop, tagged with
// the game it came from.
type eventMsg struct {
	gen int
	ev  game.Event
}

// dismissMsg clears the message line if it still shows message seq.
type dismissMsg struct{ seq int }

// Model is the bubbletea model for one player.
type Model struct {
	start  Starter
	logger *log.Logger

	ctrl   *game.Controller
	gen    int
	cancel func()
	events chan eventMsg

	state    game.State
	message  *game.Message
	msgSeq   int
	quitting bool

	keys keyMap
	help help.Model
}

// New creates a model and starts the first game.
func New(start Starter, logger *log.Logger) (*Model, error) {
	m := &Model{
		start:  start,
		logger: logger.WithPrefix("tui"),
		events: make(chan eventMsg, eventBacklog),
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	if err := m.newGame(); err != nil {
		return nil, err
	}
	return m, nil
}

// Run shows the model until the player quits or ctx ends.
func Run(ctx context.Context, m *Model) error {
	defer m.Close()
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Close detaches from the current controller.
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// State returns the last snapshot the model rendered from.
func (m *Model) State() game.State { return m.state }

func (m *Model) newGame() error {
	ctrl, err := m.start()
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	m.Close()
	m.drain()
	m.ctrl = ctrl
	m.gen++
	gen := m.gen
	m.cancel = ctrl.Subscribe(func(ev game.Event) {
		m.forward(eventMsg{gen: gen, ev: ev})
	})
	m.state = ctrl.Snapshot()
	m.message = nil
	m.msgSeq++
	m.keys.NewGame.SetEnabled(false)
	m.logger.Debug("New game started")
	return nil
}

// forward hands events to the update loop. It never blocks: instant reveals
// emit from inside Update.
func (m *Model) forward(msg eventMsg) {
	select {
	case m.events <- msg:
	default:
		m.logger.Warn("Dropping event, UI is behind", "kind", msg.ev.Kind)
	}
}

// drain discards buffered events of the game being replaced.
func (m *Model) drain() {
	for {
		select {
		case <-m.events:
		default:
			return
		}
	}
}

// waitForEvent returns a command that delivers the next controller event.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Init starts listening for controller events.
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// Update handles key presses, controller events and message timeouts.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case eventMsg:
		cmd := m.handleEvent(msg)
		return m, tea.Batch(cmd, m.waitForEvent())

	case dismissMsg:
		if msg.seq == m.msgSeq {
			m.message = nil
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.NewGame):
		if err := m.newGame(); err != nil {
			m.logger.Error("Failed to start new game", "error", err)
		}
		return nil
	}

	name := msg.String()
	switch {
	case key.Matches(msg, m.keys.Submit):
		name = "Enter"
	case key.Matches(msg, m.keys.Delete):
		name = "Backspace"
	}

	_, err := m.ctrl.HandleKey(name)
	switch {
	case err == nil:
	case errors.Is(err, game.ErrInputLocked), errors.Is(err, game.ErrSessionOver):
		// Keys are ignored during a reveal and after the end.
	default:
		// The controller reports the reason as a message event.
		m.logger.Debug("Key rejected", "key", name, "error", err)
	}
	m.state = m.ctrl.Snapshot()
	return nil
}

func (m *Model) handleEvent(msg eventMsg) tea.Cmd {
	if msg.gen != m.gen {
		// In flight before the game was replaced.
		return nil
	}
	ev := msg.ev
	m.state = m.ctrl.Snapshot()
	switch ev.Kind {
	case game.EventStatus:
		m.keys.NewGame.SetEnabled(ev.Status.Over())
		m.logger.Info("Game over", "status", ev.Status, "attempts", m.state.Attempts)
	case game.EventMessage:
		m.message = ev.Message
		m.msgSeq++
		if d := ev.Message.Duration; d > 0 {
			seq := m.msgSeq
			return tea.Tick(d, func(time.Time) tea.Msg { return dismissMsg{seq: seq} })
		}
	}
	return nil
}

// View renders the grid, the message line, the keyboard and the help line.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("TILEWORDS"))
	b.WriteString("\n\n")

	for _, row := range m.state.Rows {
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.message != nil:
		b.WriteString(MessageStyle.Render(m.message.Text))
	case m.state.Phase == game.PhaseScoring:
		b.WriteString(InfoStyle.Render("…"))
	}
	b.WriteString("\n\n")

	for _, keys := range keyboardRows {
		var cells []string
		for _, r := range keys {
			cells = append(cells, keyStyle(m.state.Keyboard.Get(r)).Render(strings.ToUpper(string(r))))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.state.Status {
	case game.StatusWon:
		b.WriteString(SuccessStyle.Render(fmt.Sprintf("Solved in %d/%d", m.state.Attempts, game.MaxGuesses)))
		b.WriteString("\n")
	case game.StatusLost:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("X/%d", game.MaxGuesses)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderRow(row game.GuessRow) string {
	cells := make([]string, 0, game.WordLength)
	for _, s := range row.Slots {
		switch {
		case s.Letter == 0:
			cells = append(cells, EmptyTileStyle.Render("·"))
		case row.Scored || s.Verdict != game.VerdictUnset:
			cells = append(cells, verdictStyle(s.Verdict).Render(strings.ToUpper(string(s.Letter))))
		default:
			cells = append(cells, TypedTileStyle.Render(strings.ToUpper(string(s.Letter))))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
