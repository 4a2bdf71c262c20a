package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxWordLength is the longest accepted word or phrase, in characters
const MaxWordLength = 40

// ValidateWords trims a player's submission and checks it holds exactly
// required unique, non-empty words. Uniqueness ignores case.
func ValidateWords(words []string, required int) ([]string, error) {
	if len(words) != required {
		return nil, fmt.Errorf("%w: submit exactly %d words", ErrWrongWordCount, required)
	}

	cleaned := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.Join(strings.Fields(w), " ")
		if w == "" {
			return nil, ErrEmptyWord
		}
		if utf8.RuneCountInString(w) > MaxWordLength {
			return nil, ErrWordTooLong
		}
		key := strings.ToLower(w)
		if seen[key] {
			return nil, ErrDuplicateWord
		}
		seen[key] = true
		cleaned = append(cleaned, w)
	}

	return cleaned, nil
}
