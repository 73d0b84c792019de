package acpc

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBoard(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AsKdQc", "AsKdQc"},
		{"AsKdQcJh", "AsKdQc/Jh"},
		{"AsKdQcJh2s", "AsKdQc/Jh/2s"},
	}
	for _, tt := range tests {
		got, err := FormatBoard(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, strings.ReplaceAll(got, "/", ""))
	}
}

func TestFormatBoardSeparatorOffsets(t *testing.T) {
	got, err := FormatBoard("0123456789")
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Index(got, "/"))
	assert.Equal(t, 9, strings.LastIndex(got, "/"))

	got, err = FormatBoard("01234567")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "/"))
	assert.Equal(t, 6, strings.Index(got, "/"))
}

func TestFormatBoardRejectsOtherLengths(t *testing.T) {
	for n := 0; n <= 12; n++ {
		if n == 6 || n == 8 || n == 10 {
			continue
		}
		board := strings.Repeat("x", n)
		got, err := FormatBoard(board)
		require.Error(t, err, "length %d", n)
		assert.Empty(t, got)
		assert.True(t, errors.Is(err, ErrInvalidBoardLength))

		var lengthErr *BoardLengthError
		require.True(t, errors.As(err, &lengthErr))
		assert.Equal(t, board, lengthErr.Board)
	}

	_, err := FormatBoard("Ask")
	assert.ErrorIs(t, err, ErrInvalidBoardLength)
}
