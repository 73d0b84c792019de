package acpc

import (
	"strconv"
	"strings"
)

// AdviceKind is the table button an agent reply maps to.
type AdviceKind int

const (
	AdviceCall AdviceKind = iota
	AdviceFold
	AdviceAllIn
	AdvicePotBet
	AdviceHalfPotBet
)

func (k AdviceKind) String() string {
	switch k {
	case AdviceCall:
		return "call"
	case AdviceFold:
		return "fold"
	case AdviceAllIn:
		return "allin"
	case AdvicePotBet:
		return "pot"
	case AdviceHalfPotBet:
		return "halfpot"
	default:
		return "unknown"
	}
}

// Default advice tokens.
const (
	DefaultShoveToken    = "20000"
	DefaultPotMultiplier = 3
)

// AdviceRules says which raise sizes map to the all-in and pot buttons.
type AdviceRules struct {
	ShoveToken    string
	PotMultiplier int
}

// DefaultAdviceRules returns the rules for the 200 big blind game.
func DefaultAdviceRules() AdviceRules {
	return AdviceRules{
		ShoveToken:    DefaultShoveToken,
		PotMultiplier: DefaultPotMultiplier,
	}
}

// Advice is an interpreted agent reply.
type Advice struct {
	Kind  AdviceKind
	Token string
}

// InterpretAdvice maps an agent reply onto a table action. referenceBet is
// Result.ReferenceBet of the state the agent answered: a raise to exactly
// referenceBet*PotMultiplier is a pot bet, any other raise a half pot bet.
func InterpretAdvice(token string, referenceBet int, rules AdviceRules) (Advice, error) {
	if rules.ShoveToken == "" {
		rules.ShoveToken = DefaultShoveToken
	}
	if rules.PotMultiplier <= 0 {
		rules.PotMultiplier = DefaultPotMultiplier
	}

	token = strings.TrimSpace(token)
	advice := Advice{Token: token}
	switch token {
	case "":
		return Advice{}, ErrEmptyAdvice
	case string(CallMarker):
		advice.Kind = AdviceCall
	case "f":
		advice.Kind = AdviceFold
	case rules.ShoveToken:
		advice.Kind = AdviceAllIn
	case strconv.Itoa(referenceBet * rules.PotMultiplier):
		advice.Kind = AdvicePotBet
	default:
		advice.Kind = AdviceHalfPotBet
	}
	return advice, nil
}
