package reveal

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects the token boundary used when revealing a text.
type Mode string

const (
	// ModeChar reveals one rune per tick.
	ModeChar Mode = "char"
	// ModeWord reveals one space-delimited word, followed by a space, per tick.
	ModeWord Mode = "word"
)

// DefaultInterval returns the cadence observed for a mode.
func DefaultInterval(m Mode) time.Duration {
	if m == ModeChar {
		return 15 * time.Millisecond
	}
	return 75 * time.Millisecond
}

// ParseMode validates a mode name. Empty means ModeWord.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeWord:
		return ModeWord, nil
	case ModeChar:
		return ModeChar, nil
	default:
		return "", fmt.Errorf("unknown reveal mode %q", s)
	}
}

// Tokenize splits text into the pieces appended on each tick.
// Concatenating the tokens yields text in char mode, and text plus a
// trailing space in word mode.
func Tokenize(text string, m Mode) []string {
	if text == "" {
		return nil
	}
	if m == ModeChar {
		runes := []rune(text)
		tokens := make([]string, len(runes))
		for i, r := range runes {
			tokens[i] = string(r)
		}
		return tokens
	}

	words := strings.Split(text, " ")
	tokens := make([]string, len(words))
	for i, w := range words {
		tokens[i] = w + " "
	}
	return tokens
}
