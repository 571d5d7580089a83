package game

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Submission failures. The row stays active after each of them.
var (
	ErrIncompleteGuess = errors.New("incomplete guess")
	ErrNotInList       = errors.New("not in word list")
	ErrInputLocked     = errors.New("input locked while a guess is revealed")
	ErrSessionOver     = errors.New("session is over")
	ErrInvalidKey      = errors.New("invalid letter/key")
)

// MessageCode identifies a message shown to the player.
type MessageCode string

const (
	MsgIncompleteGuess MessageCode = "incomplete-guess"
	MsgNotInList       MessageCode = "not-in-list"
	MsgInvalidKey      MessageCode = "invalid-key"
	MsgWon             MessageCode = "won"
	MsgLost            MessageCode = "lost"
)

const (
	// MessageDuration is how long a transient message stays up.
	MessageDuration = time.Second
	// WinMessageDuration is how long the praise after a win stays up.
	WinMessageDuration = 5 * time.Second
)

// Message is a notice for the presentation layer. A zero Duration means it
// stays until the session is replaced.
type Message struct {
	Code     MessageCode   `json:"code"`
	Text     string        `json:"text"`
	Duration time.Duration `json:"-"`
}

// MarshalJSON adds the display duration in milliseconds.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code       MessageCode `json:"code"`
		Text       string      `json:"text"`
		DurationMs int64       `json:"durationMs"`
	}{m.Code, m.Text, m.Duration.Milliseconds()})
}

// praise is indexed by the number of the winning guess minus one.
var praise = [MaxGuesses]string{"No Way !", "Impressive", "Genius", "Splendid", "Nice", "That was close !"}

// MessageFor returns the notice shown for a rejected input, if it has one.
func MessageFor(err error) (Message, bool) {
	switch {
	case errors.Is(err, ErrIncompleteGuess):
		return Message{Code: MsgIncompleteGuess, Text: "Not enough letters", Duration: MessageDuration}, true
	case errors.Is(err, ErrNotInList):
		return Message{Code: MsgNotInList, Text: "Not in word list", Duration: MessageDuration}, true
	case errors.Is(err, ErrInvalidKey):
		return Message{Code: MsgInvalidKey, Text: "Invalid letter/key", Duration: MessageDuration}, true
	}
	return Message{}, false
}

func winMessage(attempt int) Message {
	text := praise[len(praise)-1]
	if attempt >= 1 && attempt <= len(praise) {
		text = praise[attempt-1]
	}
	return Message{Code: MsgWon, Text: text, Duration: WinMessageDuration}
}

func lossMessage(target string) Message {
	return Message{Code: MsgLost, Text: strings.ToUpper(target)}
}

// EventKind discriminates Event payloads.
type EventKind string

const (
	EventLetter  EventKind = "letter"  // active row changed (press or delete)
	EventReveal  EventKind = "reveal"  // one verdict applied
	EventStatus  EventKind = "status"  // session status changed
	EventMessage EventKind = "message" // transient or sticky notice
	EventInput   EventKind = "input"   // input locked or unlocked
)

// Event is delivered to subscribers in the order state changed.
type Event struct {
	Kind EventKind `json:"kind"`

	Row     int     `json:"row"`
	Index   int     `json:"index"`
	Letter  string  `json:"letter,omitempty"`
	Verdict Verdict `json:"verdict,omitempty"`
	Word    string  `json:"word,omitempty"`

	Status  Status   `json:"status,omitempty"`
	Message *Message `json:"message,omitempty"`
	Locked  bool     `json:"locked,omitempty"`
}
