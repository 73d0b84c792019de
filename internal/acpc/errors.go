package acpc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBoardLength is returned when a board string does not hold
	// exactly three, four or five two-character cards.
	ErrInvalidBoardLength = errors.New("acpc: invalid board length")

	// ErrMalformedRaiseSegment marks a raise whose size could not be parsed.
	// Translation never fails because of it; see Result.Malformed.
	ErrMalformedRaiseSegment = errors.New("acpc: malformed raise segment")

	ErrInvalidSeat       = errors.New("acpc: seat must be 0 or 1")
	ErrInvalidHandIndex  = errors.New("acpc: hand index must not be negative")
	ErrInvalidMatchState = errors.New("acpc: invalid match state")
	ErrEmptyAdvice       = errors.New("acpc: empty advice")
)

// BoardLengthError reports the length of a rejected board string.
type BoardLengthError struct {
	Board string
}

func (e *BoardLengthError) Error() string {
	return fmt.Sprintf("%s: %d characters in %q (want 6, 8 or 10)", ErrInvalidBoardLength, len(e.Board), e.Board)
}

func (e *BoardLengthError) Is(target error) bool {
	return target == ErrInvalidBoardLength
}

// MalformedRaiseError describes one raise segment that was passed through
// without conversion. Street is zero based; Raise counts raises within the
// street starting at 1.
type MalformedRaiseError struct {
	Street  int
	Raise   int
	Segment string
}

func (e MalformedRaiseError) Error() string {
	return fmt.Sprintf("%s %q (street %d, raise %d)", ErrMalformedRaiseSegment, e.Segment, e.Street, e.Raise)
}

func (e MalformedRaiseError) Is(target error) bool {
	return target == ErrMalformedRaiseSegment
}
