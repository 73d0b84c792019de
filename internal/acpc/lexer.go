package acpc

import "strings"

// Markers used by the ACPC action vocabulary.
const (
	RaiseMarker     = 'r'
	CallMarker      = 'c'
	StreetSeparator = '/'

	// Table vocabulary, rewritten during lexing.
	betMarker   = 'b'
	checkMarker = 'k'
)

// TokenKind identifies a lexical element of an action string.
type TokenKind int

const (
	TokenRaise TokenKind = iota
	TokenCall
	TokenDigits
	TokenStreet
	TokenOther
)

func (k TokenKind) String() string {
	switch k {
	case TokenRaise:
		return "raise"
	case TokenCall:
		return "call"
	case TokenDigits:
		return "digits"
	case TokenStreet:
		return "street"
	default:
		return "other"
	}
}

// Token is one lexical element. Text is the normalized source text.
type Token struct {
	Kind TokenKind
	Text string
}

// Lex splits an action string into tokens, mapping bet to raise and check to
// call on the way. Digit runs and runs of unrecognised bytes are kept whole.
// Concatenating the Text of every token yields Normalize(actions).
func Lex(actions string) []Token {
	tokens := make([]Token, 0, len(actions))
	for i := 0; i < len(actions); {
		ch := actions[i]
		switch {
		case ch == RaiseMarker || ch == betMarker:
			tokens = append(tokens, Token{Kind: TokenRaise, Text: string(RaiseMarker)})
			i++
		case ch == CallMarker || ch == checkMarker:
			tokens = append(tokens, Token{Kind: TokenCall, Text: string(CallMarker)})
			i++
		case ch == StreetSeparator:
			tokens = append(tokens, Token{Kind: TokenStreet, Text: string(StreetSeparator)})
			i++
		case isDigit(ch):
			j := i
			for j < len(actions) && isDigit(actions[j]) {
				j++
			}
			tokens = append(tokens, Token{Kind: TokenDigits, Text: actions[i:j]})
			i = j
		default:
			j := i
			for j < len(actions) && !isSymbol(actions[j]) {
				j++
			}
			tokens = append(tokens, Token{Kind: TokenOther, Text: actions[i:j]})
			i = j
		}
	}
	return tokens
}

// Normalize rewrites the table's bet and check markers into raise and call.
// It is idempotent.
func Normalize(actions string) string {
	return render(Lex(actions))
}

func render(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSymbol(ch byte) bool {
	switch ch {
	case RaiseMarker, betMarker, CallMarker, checkMarker, StreetSeparator:
		return true
	}
	return isDigit(ch)
}
