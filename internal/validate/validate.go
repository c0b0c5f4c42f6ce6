// Package validate holds the pure predicates applied to request payloads
// before any record is touched. Nothing here reads or writes state.
package validate

import (
	"fmt"
	"math"
	"strings"
)

// MaxNameLength is the display name ceiling in bytes. It equals the address
// scheme's seed budget, so a name that validates can always be addressed.
const MaxNameLength = 32

// NameErrorKind classifies a rejected display name.
type NameErrorKind string

const (
	NameEmpty            NameErrorKind = "Empty"
	NameTooLong          NameErrorKind = "TooLong"
	NameInvalidCharacter NameErrorKind = "InvalidCharacter"
)

// NameError reports why a display name was rejected.
type NameError struct {
	Kind   NameErrorKind
	Length int  // Byte length of the rejected name
	Max    int  // Ceiling applied
	Char   rune // First offending character, for InvalidCharacter
}

func (e *NameError) Error() string {
	switch e.Kind {
	case NameEmpty:
		return "name is empty"
	case NameTooLong:
		return fmt.Sprintf("name is %d bytes, max %d", e.Length, e.Max)
	case NameInvalidCharacter:
		return fmt.Sprintf("name contains invalid character %q", e.Char)
	}
	return "invalid name"
}

// Name checks a display name: non-empty, at most maxLen bytes, and only ASCII
// letters and digits. maxLen values outside 1..MaxNameLength fall back to
// MaxNameLength.
//
// Checks run in that order, so an over-long name made of emoji reports
// TooLong and a single emoji reports InvalidCharacter.
func Name(name string, maxLen int) error {
	if maxLen <= 0 || maxLen > MaxNameLength {
		maxLen = MaxNameLength
	}

	if len(name) == 0 {
		return &NameError{Kind: NameEmpty, Max: maxLen}
	}
	if len(name) > maxLen {
		return &NameError{Kind: NameTooLong, Length: len(name), Max: maxLen}
	}
	if i := strings.IndexFunc(name, func(r rune) bool { return !isAlnumASCII(r) }); i >= 0 {
		return &NameError{
			Kind:   NameInvalidCharacter,
			Length: len(name),
			Max:    maxLen,
			Char:   []rune(name[i:])[0],
		}
	}
	return nil
}

func isAlnumASCII(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// Bounds is an inclusive numeric range.
type Bounds struct {
	Min float64
	Max float64
}

// DefaultFinalBounds is the accepted final score range.
var DefaultFinalBounds = Bounds{Min: 5.0, Max: 100.0}

// Contains reports whether v lies inside b, endpoints included.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// ScoreErrorKind classifies an out-of-range score.
type ScoreErrorKind string

const (
	ScoreBelowMinimum ScoreErrorKind = "BelowMinimum"
	ScoreAboveMaximum ScoreErrorKind = "AboveMaximum"
)

// ScoreError reports a final score outside its bounds.
type ScoreError struct {
	Kind  ScoreErrorKind
	Value float64
	Bound float64 // The violated endpoint
}

func (e *ScoreError) Error() string {
	if e.Kind == ScoreBelowMinimum {
		return fmt.Sprintf("final score %g is below the minimum %g", e.Value, e.Bound)
	}
	return fmt.Sprintf("final score %g exceeds the maximum %g", e.Value, e.Bound)
}

// FinalScore checks v against b. Both endpoints are accepted.
// NaN must be rejected by Number first; here it would pass neither comparison.
func FinalScore(v float64, b Bounds) error {
	if v < b.Min {
		return &ScoreError{Kind: ScoreBelowMinimum, Value: v, Bound: b.Min}
	}
	if v > b.Max {
		return &ScoreError{Kind: ScoreAboveMaximum, Value: v, Bound: b.Max}
	}
	return nil
}

// NumberError reports a numeric field that is not a finite number.
type NumberError struct {
	Field string
	Value float64
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("%s is not a finite number: %v", e.Field, e.Value)
}

// Number rejects NaN and infinities.
func Number(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &NumberError{Field: field, Value: v}
	}
	return nil
}

// Field is a named, possibly absent numeric input.
type Field struct {
	Name  string
	Value *float64
}

// IncompleteError lists required fields that were absent.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("submission is missing %s", strings.Join(e.Missing, ", "))
}

// Complete requires every field to be present. All missing fields are
// reported, in argument order.
func Complete(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if f.Value == nil {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	return nil
}
