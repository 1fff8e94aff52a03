// Package strength provides dictionary-strength checkers. Implementations
// satisfy policy.StrengthChecker and are selected by configuration at
// startup; when none is configured the complexity policy simply skips the
// check.
package strength

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Wordlist flags secrets found in a flat dictionary file, one entry per
// line. The list is loaded once at construction; lookups are case-folded.
type Wordlist struct {
	words map[string]struct{}
}

func NewWordlist(path string) (*Wordlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wordlist: %w", err)
	}
	defer f.Close()

	words := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words[strings.ToLower(word)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wordlist: %w", err)
	}

	return &Wordlist{words: words}, nil
}

// Len reports the number of loaded entries.
func (w *Wordlist) Len() int {
	return len(w.words)
}

func (w *Wordlist) Check(_ context.Context, secret string) (string, error) {
	if _, ok := w.words[strings.ToLower(secret)]; ok {
		return "it is based on a dictionary word", nil
	}
	return "", nil
}
