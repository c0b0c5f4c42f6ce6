package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/classroom/internal/ir"
	"github.com/roach88/classroom/internal/validate"
)

// Code is the error category reported to callers. Every rejected request
// carries exactly one Code.
type Code string

const (
	// CodeInvalidInput indicates a malformed name, number or address input.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeIncompleteSubmission indicates a required score is absent.
	CodeIncompleteSubmission Code = "INCOMPLETE_SUBMISSION"

	// CodeOutOfRange indicates the final score is outside its bounds.
	CodeOutOfRange Code = "OUT_OF_RANGE"

	// CodeAlreadyExists indicates the target address is occupied.
	CodeAlreadyExists Code = "ALREADY_EXISTS"

	// CodeNotFound indicates no record exists at the target address.
	CodeNotFound Code = "NOT_FOUND"

	// CodeUnauthorized indicates the requester does not own the record.
	CodeUnauthorized Code = "UNAUTHORIZED"
)

// Reason refines a Code. Empty when the code says it all.
type Reason string

const (
	ReasonNameEmpty            Reason = "NAME_EMPTY"
	ReasonNameTooLong          Reason = "NAME_TOO_LONG"
	ReasonNameInvalidCharacter Reason = "NAME_INVALID_CHARACTER"
	ReasonScoreBelowMinimum    Reason = "SCORE_BELOW_MINIMUM"
	ReasonScoreAboveMaximum    Reason = "SCORE_ABOVE_MAXIMUM"
	ReasonMalformedNumber      Reason = "MALFORMED_NUMBER"
	ReasonAddressInput         Reason = "ADDRESS_INPUT"
)

// Error is a rejected request.
//
// Infrastructure failures (I/O, cancelled contexts) are never an *Error;
// they are returned wrapped as-is.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Reason refines Code for validation failures.
	Reason Reason

	// Message is a human-readable description.
	Message string

	// Address is the record address involved, when one was derived.
	Address ir.Address

	// Err is the underlying validation or store error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Reason != "" && e.Address != "":
		return fmt.Sprintf("%s (%s): %s (address=%s)", e.Code, e.Reason, e.Message, e.Address)
	case e.Reason != "":
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Reason, e.Message)
	case e.Address != "":
		return fmt.Sprintf("%s: %s (address=%s)", e.Code, e.Message, e.Address)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the Code of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ReasonOf returns the Reason of err, or "" if it has none.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// IsAlreadyExists returns true if err reports an occupied address.
func IsAlreadyExists(err error) bool {
	return CodeOf(err) == CodeAlreadyExists
}

// IsNotFound returns true if err reports an absent record.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsUnauthorized returns true if err reports an ownership violation.
func IsUnauthorized(err error) bool {
	return CodeOf(err) == CodeUnauthorized
}

// fromValidation maps a validation predicate failure onto the taxonomy.
func fromValidation(err error) *Error {
	var (
		nameErr       *validate.NameError
		scoreErr      *validate.ScoreError
		numberErr     *validate.NumberError
		incompleteErr *validate.IncompleteError
	)
	switch {
	case errors.As(err, &nameErr):
		reason := ReasonNameInvalidCharacter
		switch nameErr.Kind {
		case validate.NameEmpty:
			reason = ReasonNameEmpty
		case validate.NameTooLong:
			reason = ReasonNameTooLong
		}
		return &Error{Code: CodeInvalidInput, Reason: reason, Message: err.Error(), Err: err}
	case errors.As(err, &scoreErr):
		reason := ReasonScoreAboveMaximum
		if scoreErr.Kind == validate.ScoreBelowMinimum {
			reason = ReasonScoreBelowMinimum
		}
		return &Error{Code: CodeOutOfRange, Reason: reason, Message: err.Error(), Err: err}
	case errors.As(err, &numberErr):
		return &Error{Code: CodeInvalidInput, Reason: ReasonMalformedNumber, Message: err.Error(), Err: err}
	case errors.As(err, &incompleteErr):
		return &Error{Code: CodeIncompleteSubmission, Message: err.Error(), Err: err}
	}
	return &Error{Code: CodeInvalidInput, Message: err.Error(), Err: err}
}

func addressError(err error) *Error {
	return &Error{Code: CodeInvalidInput, Reason: ReasonAddressInput, Message: err.Error(), Err: err}
}

func alreadyExists(addr ir.Address, kind ir.RecordKind, err error) *Error {
	return &Error{
		Code:    CodeAlreadyExists,
		Message: fmt.Sprintf("%s already exists", kind),
		Address: addr,
		Err:     err,
	}
}

func notFound(addr ir.Address, kind ir.RecordKind) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", kind),
		Address: addr,
	}
}

func unauthorized(addr ir.Address, msg string) *Error {
	return &Error{
		Code:    CodeUnauthorized,
		Message: msg,
		Address: addr,
	}
}
