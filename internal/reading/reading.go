// Package reading turns uploaded sources (PDF files, video transcripts) into
// reading text plus the metadata activities reference.
package reading

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinTextLength is the shortest reading, in characters once leading and
// trailing whitespace is trimmed, worth generating from.
const MinTextLength = 50

var (
	// ErrTextTooShort is returned when too little text was supplied or extracted.
	ErrTextTooShort = errors.New("not enough reading text to generate an activity")

	// ErrInvalidVideoURL is returned when no video id can be found in a URL.
	ErrInvalidVideoURL = errors.New("invalid YouTube URL")
)

// ValidateText rejects readings shorter than MinTextLength once trimmed.
func ValidateText(text string) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinTextLength {
		return fmt.Errorf("%w: need at least %d characters", ErrTextTooShort, MinTextLength)
	}
	return nil
}

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of other characters into one dash.
func Slugify(s string) string {
	return strings.Trim(nonSlugRun.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

var separatorRun = regexp.MustCompile(`[_-]+`)

// TitleFromFilename turns "drought_reading-2023" into "Drought Reading 2023".
// Only the first letter of each word is changed.
func TitleFromFilename(name string) string {
	name = separatorRun.ReplaceAllString(name, " ")

	var b strings.Builder
	atWordStart := true
	for _, r := range name {
		isWord := r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
		if isWord && atWordStart {
			r = unicode.ToUpper(r)
		}
		atWordStart = !isWord
		b.WriteRune(r)
	}
	return b.String()
}
