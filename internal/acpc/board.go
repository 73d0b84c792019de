package acpc

// Board string lengths for each street with community cards.
const (
	flopLength  = 6
	turnLength  = 8
	riverLength = 10
)

// FormatBoard inserts street separators into a concatenated board such as
// "AsKdQcJh2s", giving "AsKdQc/Jh/2s". Card codes are not inspected. Boards
// that are not exactly a flop, turn or river are rejected with a
// *BoardLengthError; callers omit the board entirely before the flop.
func FormatBoard(board string) (string, error) {
	switch len(board) {
	case flopLength:
		return board, nil
	case turnLength:
		return board[:flopLength] + string(StreetSeparator) + board[flopLength:], nil
	case riverLength:
		return board[:flopLength] + string(StreetSeparator) +
			board[flopLength:turnLength] + string(StreetSeparator) +
			board[turnLength:], nil
	default:
		return "", &BoardLengthError{Board: board}
	}
}
