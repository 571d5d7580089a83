package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/tilewords/internal/game"
)

// Static styles for content elements
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	tileBase = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			MarginRight(1)

	EmptyTileStyle = tileBase.
			Foreground(lipgloss.Color("#3A3A3C"))

	TypedTileStyle = tileBase.
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#565758"))

	CorrectStyle = tileBase.
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#538D4E"))

	PresentStyle = tileBase.
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#B59F3B"))

	AbsentStyle = tileBase.
			Foreground(lipgloss.Color("#818384")).
			Background(lipgloss.Color("#3A3A3C"))

	KeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#818384")).
			Padding(0, 1).
			MarginRight(1)

	MessageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#121213")).
			Background(lipgloss.Color("#FAFAFA")).
			Bold(true).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// verdictStyle picks the tile style for a scored slot.
func verdictStyle(v game.Verdict) lipgloss.Style {
	switch v {
	case game.VerdictCorrect:
		return CorrectStyle
	case game.VerdictPresent:
		return PresentStyle
	case game.VerdictAbsent:
		return AbsentStyle
	}
	return TypedTileStyle
}

// keyStyle colors an on-screen key by its best hint so far.
func keyStyle(v game.Verdict) lipgloss.Style {
	switch v {
	case game.VerdictCorrect:
		return KeyStyle.Background(CorrectStyle.GetBackground())
	case game.VerdictPresent:
		return KeyStyle.Background(PresentStyle.GetBackground())
	case game.VerdictAbsent:
		return KeyStyle.Background(AbsentStyle.GetBackground()).
			Foreground(AbsentStyle.GetForeground())
	}
	return KeyStyle
}
