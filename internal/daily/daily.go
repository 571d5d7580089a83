// Package daily derives the shared puzzle of the day from the date and a salt,
// so every player on the same UTC day gets the same target.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// Epoch is the UTC day numbered 1.
var Epoch = time.Date(2021, time.June, 19, 0, 0, 0, 0, time.UTC)

// Puzzle identifies the daily target for one UTC day.
type Puzzle struct {
	Date   string `json:"date"`
	Number int    `json:"number"`
	Index  int    `json:"-"`
}

// For returns the puzzle for t over a pool of n answers.
func For(t time.Time, salt string, n int) Puzzle {
	return Puzzle{
		Date:   DateKey(t),
		Number: Number(t),
		Index:  WordIndex(t, salt, n),
	}
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Number counts UTC days since Epoch, starting at 1.
func Number(t time.Time) int {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(Epoch)/(24*time.Hour)) + 1
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}
