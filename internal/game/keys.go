package game

import "unicode/utf8"

// HandleKey dispatches a raw key name from a keyboard or an on-screen key:
// "Enter" submits, "Backspace"/"Delete" removes a letter and a single letter
// is typed. Other keys produce an invalid-key message and ErrInvalidKey.
//
// The returned Reveal is non-nil only for a successful submit.
func (c *Controller) HandleKey(key string) (*Reveal, error) {
	c.mu.Lock()
	err := c.inputErr()
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	switch key {
	case "Enter", "enter":
		return c.SubmitGuess()
	case "Backspace", "backspace", "Delete", "delete":
		c.DeleteLetter()
		return nil, nil
	}

	if r, size := utf8.DecodeRuneInString(key); size == len(key) && isLetter(r) {
		c.PressLetter(r)
		return nil, nil
	}

	msg, _ := MessageFor(ErrInvalidKey)
	c.notify(msg)
	return nil, ErrInvalidKey
}

func isLetter(r rune) bool {
	r = toLower(r)
	return r >= 'a' && r <= 'z'
}
