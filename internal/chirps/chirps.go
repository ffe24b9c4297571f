package chirps

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
)

const MaxChirpLength = 140

var (
	ErrEmptyBody   = errors.New("chirp body is empty")
	ErrBodyTooLong = errors.New("chirp is too long")
)

// profanity is matched case-insensitively, whole words only. Punctuation
// attached to a word defeats the filter, same as the original behavior.
var profanity = map[string]struct{}{
	"kerfuffle": {},
	"sharbert":  {},
	"fornax":    {},
}

// ValidateBody enforces the length rules and returns the cleaned body.
func ValidateBody(body string) (string, error) {
	if body == "" {
		return "", ErrEmptyBody
	}
	if len(body) > MaxChirpLength {
		return "", ErrBodyTooLong
	}
	return CleanBody(body), nil
}

// CleanBody replaces profane words with "****". Matching uses Unicode case
// folding, so "KERFUFFLE" and "Kerfuffle" are both caught.
func CleanBody(body string) string {
	fold := cases.Fold()

	words := strings.Split(body, " ")
	for i, word := range words {
		if _, ok := profanity[fold.String(word)]; ok {
			words[i] = "****"
		}
	}

	return strings.Join(words, " ")
}
