package acpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretAdvice(t *testing.T) {
	tests := []struct {
		token string
		ref   int
		want  AdviceKind
	}{
		{"c", 100, AdviceCall},
		{"c\n", 100, AdviceCall},
		{"f", 100, AdviceFold},
		{"20000", 300, AdviceAllIn},
		{"900", 300, AdvicePotBet},
		{"300", 100, AdvicePotBet},
		{"450", 300, AdviceHalfPotBet},
		{"r450", 300, AdviceHalfPotBet},
	}
	for _, tt := range tests {
		got, err := InterpretAdvice(tt.token, tt.ref, DefaultAdviceRules())
		require.NoError(t, err, tt.token)
		assert.Equal(t, tt.want, got.Kind, "token %q", tt.token)
	}
}

func TestInterpretAdviceCustomRules(t *testing.T) {
	rules := AdviceRules{ShoveToken: "10000", PotMultiplier: 2}

	got, err := InterpretAdvice("10000", 100, rules)
	require.NoError(t, err)
	assert.Equal(t, AdviceAllIn, got.Kind)

	got, err = InterpretAdvice("200", 100, rules)
	require.NoError(t, err)
	assert.Equal(t, AdvicePotBet, got.Kind)

	got, err = InterpretAdvice("20000", 100, rules)
	require.NoError(t, err)
	assert.Equal(t, AdviceHalfPotBet, got.Kind)
}

func TestInterpretAdviceZeroRulesUseDefaults(t *testing.T) {
	got, err := InterpretAdvice("20000", 100, AdviceRules{})
	require.NoError(t, err)
	assert.Equal(t, AdviceAllIn, got.Kind)
	assert.Equal(t, "allin", got.Kind.String())
}

func TestInterpretAdviceEmpty(t *testing.T) {
	_, err := InterpretAdvice(" \n", 100, DefaultAdviceRules())
	assert.ErrorIs(t, err, ErrEmptyAdvice)
}
