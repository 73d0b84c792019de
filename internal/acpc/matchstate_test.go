package acpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchStateString(t *testing.T) {
	tests := []struct {
		name  string
		state MatchState
		want  string
	}{
		{
			name:  "first seat with board",
			state: MatchState{Seat: 0, HandIndex: 1, Actions: "r100c/r300", HoleCards: "AsKd", Board: "2c3d4h/5s"},
			want:  "MATCHSTATE:0:1:r100c/r300:AsKd|/2c3d4h/5s\n",
		},
		{
			name:  "second seat preflop",
			state: MatchState{Seat: 1, HandIndex: 7, Actions: "cc", HoleCards: "AsKd"},
			want:  "MATCHSTATE:1:7:cc:|AsKd\n",
		},
		{
			name:  "no actions yet",
			state: MatchState{Seat: 0, HandIndex: 3, HoleCards: "7h7c"},
			want:  "MATCHSTATE:0:3::7h7c|\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.state.Validate())
			assert.Equal(t, tt.want, tt.state.String())

			parsed, err := ParseMatchState(tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.state, parsed)
		})
	}
}

func TestMatchStateValidate(t *testing.T) {
	assert.ErrorIs(t, MatchState{Seat: 2}.Validate(), ErrInvalidSeat)
	assert.ErrorIs(t, MatchState{Seat: -1}.Validate(), ErrInvalidSeat)
	assert.ErrorIs(t, MatchState{Seat: 1, HandIndex: -1}.Validate(), ErrInvalidHandIndex)
}

func TestParseMatchStateErrors(t *testing.T) {
	for _, line := range []string{
		"",
		"MATCHSTATE:0:1:cc",
		"STATE:0:1:cc:AsKd|",
		"MATCHSTATE:x:1:cc:AsKd|",
		"MATCHSTATE:0:y:cc:AsKd|",
		"MATCHSTATE:0:1:cc:AsKd",
	} {
		_, err := ParseMatchState(line)
		assert.ErrorIs(t, err, ErrInvalidMatchState, line)
	}

	_, err := ParseMatchState("MATCHSTATE:3:1:cc:AsKd|")
	assert.ErrorIs(t, err, ErrInvalidSeat)
}
