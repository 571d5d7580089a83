// Package assets embeds the default word lists and the line format shared by
// list files: one word per line, blank lines and "#" comments skipped.
package assets

import (
	"bufio"
	"embed"
	"io"
	"strings"
)

const (
	AnswersFile = "answers.txt"
	AllowedFile = "allowed.txt"
)

//go:embed allowed.txt answers.txt
var FS embed.FS

// ReadLines returns the lowercased, trimmed words in r.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

func readEmbedded(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// AnswersList returns the embedded target pool.
func AnswersList() ([]string, error) {
	return readEmbedded(AnswersFile)
}

// AllowedList returns the embedded extra guesses.
func AllowedList() ([]string, error) {
	return readEmbedded(AllowedFile)
}
