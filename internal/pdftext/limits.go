package pdftext

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrTooShort matches a *LengthError for text under the minimum.
	ErrTooShort = errors.New("text too short")
	// ErrTooLong matches a *LengthError for text over the maximum.
	ErrTooLong = errors.New("text too long")
)

// Default bounds on the trimmed text length, in characters.
const (
	DefaultMinChars = 200
	DefaultMaxChars = 8000
)

// LengthKind says which bound a text violated.
type LengthKind int

const (
	// TooShort means the text has fewer than MinChars characters.
	TooShort LengthKind = iota + 1
	// TooLong means the text has more than MaxChars characters.
	TooLong
)

// LengthError describes a text outside the accepted bounds.
type LengthError struct {
	Kind  LengthKind
	Chars int
	Limit int
}

func (e *LengthError) Error() string {
	if e.Kind == TooShort {
		return fmt.Sprintf("text too short: %d characters, need at least %d", e.Chars, e.Limit)
	}
	return fmt.Sprintf("text too long: %d characters, at most %d allowed", e.Chars, e.Limit)
}

// Is lets errors.Is match ErrTooShort and ErrTooLong.
func (e *LengthError) Is(target error) bool {
	switch target {
	case ErrTooShort:
		return e.Kind == TooShort
	case ErrTooLong:
		return e.Kind == TooLong
	}
	return false
}

// Limits bounds the trimmed text length. Both bounds are inclusive.
type Limits struct {
	MinChars int
	MaxChars int
}

// DefaultLimits returns the 200..8000 character window.
func DefaultLimits() Limits {
	return Limits{MinChars: DefaultMinChars, MaxChars: DefaultMaxChars}
}

// Length counts the characters of text after trimming surrounding whitespace.
func Length(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}

// Check returns a *LengthError when text falls outside l.
func (l Limits) Check(text string) error {
	n := Length(text)
	switch {
	case n < l.MinChars:
		return &LengthError{Kind: TooShort, Chars: n, Limit: l.MinChars}
	case n > l.MaxChars:
		return &LengthError{Kind: TooLong, Chars: n, Limit: l.MaxChars}
	}
	return nil
}
