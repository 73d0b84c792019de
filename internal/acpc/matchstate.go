package acpc

import (
	"fmt"
	"strconv"
	"strings"
)

const matchStatePrefix = "MATCHSTATE"

// MatchState is one ACPC match-state line sent to the agent.
type MatchState struct {
	Seat      int
	HandIndex int
	HoleCards string

	// Actions is the translated action string.
	Actions string

	// Board is the formatted board, empty before the flop.
	Board string
}

// Validate checks the fields the wire format constrains.
func (m MatchState) Validate() error {
	if m.Seat != 0 && m.Seat != 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSeat, m.Seat)
	}
	if m.HandIndex < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidHandIndex, m.HandIndex)
	}
	return nil
}

// Cards renders the card field: our hole cards on our side of the '|',
// followed by the board when there is one.
func (m MatchState) Cards() string {
	var cards string
	if m.Seat == 0 {
		cards = m.HoleCards + "|"
	} else {
		cards = "|" + m.HoleCards
	}
	if m.Board != "" {
		cards += string(StreetSeparator) + m.Board
	}
	return cards
}

// String renders the wire line including the trailing newline.
func (m MatchState) String() string {
	return fmt.Sprintf("%s:%d:%d:%s:%s\n", matchStatePrefix, m.Seat, m.HandIndex, m.Actions, m.Cards())
}

// ParseMatchState parses a line produced by MatchState.String. The trailing
// newline is optional.
func ParseMatchState(line string) (MatchState, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, ":")
	if len(parts) != 5 || parts[0] != matchStatePrefix {
		return MatchState{}, fmt.Errorf("%w: %q", ErrInvalidMatchState, line)
	}

	seat, err := strconv.Atoi(parts[1])
	if err != nil {
		return MatchState{}, fmt.Errorf("%w: seat %q", ErrInvalidMatchState, parts[1])
	}
	hand, err := strconv.Atoi(parts[2])
	if err != nil {
		return MatchState{}, fmt.Errorf("%w: hand index %q", ErrInvalidMatchState, parts[2])
	}

	m := MatchState{Seat: seat, HandIndex: hand, Actions: parts[3]}
	if err := m.Validate(); err != nil {
		return MatchState{}, err
	}

	cards, board, _ := strings.Cut(parts[4], string(StreetSeparator))
	m.Board = board
	left, right, ok := strings.Cut(cards, "|")
	if !ok {
		return MatchState{}, fmt.Errorf("%w: cards %q", ErrInvalidMatchState, parts[4])
	}
	if seat == 0 {
		m.HoleCards = left
	} else {
		m.HoleCards = right
	}
	return m, nil
}
