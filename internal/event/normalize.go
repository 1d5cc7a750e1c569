package event

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the fixed format used by the source's data-time
// attribute, in naive local time.
const TimestampLayout = "2006-01-02 15:04:05"

var (
	// ErrNoMatch indicates a raw title that does not follow the
	// "... match A against B ..." pattern.
	ErrNoMatch = errors.New("title does not match event name pattern")

	// ErrPlaceholder indicates a row whose matchup has not been announced yet.
	ErrPlaceholder = errors.New("placeholder matchup")

	namePattern = regexp.MustCompile(`match\s(.*)\sagainst\s(.*)`)
)

// NormalizeName turns a raw anchor title into the canonical
// "<side a> - <side b>" form, lowercased.
//
// Titles containing "tbd" are rejected with ErrPlaceholder before the pattern
// is even tried; titles that do not match the pattern fail with ErrNoMatch.
// Callers skip the row on either error.
func NormalizeName(rawTitle string) (string, error) {
	lowered := strings.ToLower(rawTitle)
	if strings.Contains(lowered, "tbd") {
		return "", ErrPlaceholder
	}

	matches := namePattern.FindStringSubmatch(lowered)
	if matches == nil {
		return "", ErrNoMatch
	}

	return fmt.Sprintf("%s - %s", matches[1], matches[2]), nil
}

// ParseTimestamp parses the source's "2006-01-02 15:04:05" local-time string
// into epoch milliseconds. No timezone conversion is applied beyond the
// machine's local zone; the source publishes times it considers canonical.
func ParseTimestamp(raw string) (int64, error) {
	t, err := time.ParseInLocation(TimestampLayout, raw, time.Local)
	if err != nil {
		return 0, fmt.Errorf("parsing timestamp %q: %w", raw, err)
	}
	return t.UnixMilli(), nil
}
