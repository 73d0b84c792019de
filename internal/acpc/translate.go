package acpc

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultBetFloor is the reference bet used until somebody raises. It stands
// in for the big blind when the agent's advice is interpreted.
const DefaultBetFloor = 100

// Translator rewrites street-relative raise sizes into whole-hand totals.
// The zero value uses DefaultBetFloor and reproduces the table bridge's
// historical output exactly.
type Translator struct {
	// BetFloor replaces a running maximum of zero. Values <= 0 mean DefaultBetFloor.
	BetFloor int

	// PreserveRaiseMarker keeps the 'r' in front of a raise segment that
	// could not be parsed. When false the segment is emitted without it,
	// which is what existing agents have been fed so far.
	PreserveRaiseMarker bool
}

// Result is the outcome of one translation.
type Result struct {
	// Actions is the ACPC action string.
	Actions string

	// ReferenceBet is the running maximum bet after the last street.
	ReferenceBet int

	// StreetMaxima holds the running maximum after each street, floor applied.
	StreetMaxima []int

	// Malformed lists raise segments emitted without conversion.
	Malformed []MalformedRaiseError
}

// Err joins every malformed segment into one error, or returns nil.
func (r Result) Err() error {
	if len(r.Malformed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Malformed))
	for i, m := range r.Malformed {
		errs[i] = m
	}
	return errors.Join(errs...)
}

// Translate converts actions with the default Translator and returns the
// ACPC action string and the reference bet.
func Translate(actions string) (string, int) {
	res := Translator{}.Translate(actions)
	return res.Actions, res.ReferenceBet
}

// Translate converts a table action string into ACPC notation. It never
// fails: segments it cannot interpret are passed through and reported in
// Result.Malformed.
func (t Translator) Translate(actions string) Result {
	floor := t.BetFloor
	if floor <= 0 {
		floor = DefaultBetFloor
	}

	streets := splitStreets(Lex(actions))
	res := Result{StreetMaxima: make([]int, 0, len(streets))}
	out := make([]string, len(streets))

	running := 0
	for i, street := range streets {
		var b strings.Builder
		running = t.translateStreet(&b, &res, i, street, running)
		if running == 0 {
			running = floor
		}
		out[i] = b.String()
		res.StreetMaxima = append(res.StreetMaxima, running)
	}

	res.Actions = strings.Join(out, string(StreetSeparator))
	res.ReferenceBet = running
	return res
}

// translateStreet writes one street to b and returns the street's maximum
// total, which is baseline when nobody raised.
func (t Translator) translateStreet(b *strings.Builder, res *Result, street int, tokens []Token, baseline int) int {
	segments := splitRaises(tokens)
	b.WriteString(render(segments[0]))

	high := baseline
	for n, seg := range segments[1:] {
		amount, called, ok := parseRaise(seg)
		if ok && amount <= math.MaxInt-baseline {
			total := amount + baseline
			if total > high {
				high = total
			}
			b.WriteByte(RaiseMarker)
			b.WriteString(strconv.Itoa(total))
			if called {
				b.WriteByte(CallMarker)
			}
			continue
		}

		text := render(seg)
		res.Malformed = append(res.Malformed, MalformedRaiseError{Street: street, Raise: n + 1, Segment: text})
		if t.PreserveRaiseMarker {
			b.WriteByte(RaiseMarker)
		}
		b.WriteString(text)
	}
	return high
}

// parseRaise accepts a segment of the form <digits> or <digits>c.
func parseRaise(seg []Token) (amount int, called bool, ok bool) {
	switch {
	case len(seg) == 1 && seg[0].Kind == TokenDigits:
	case len(seg) == 2 && seg[0].Kind == TokenDigits && seg[1].Kind == TokenCall:
		called = true
	default:
		return 0, false, false
	}
	n, err := strconv.Atoi(seg[0].Text)
	if err != nil {
		return 0, false, false
	}
	return n, called, true
}

// splitStreets partitions tokens on street separators. Empty streets are
// kept, so the result always has one more entry than there are separators.
func splitStreets(tokens []Token) [][]Token {
	streets := [][]Token{nil}
	for _, tok := range tokens {
		if tok.Kind == TokenStreet {
			streets = append(streets, nil)
			continue
		}
		streets[len(streets)-1] = append(streets[len(streets)-1], tok)
	}
	return streets
}

// splitRaises partitions a street on raise markers. The first segment holds
// whatever precedes the first raise and may be empty.
func splitRaises(tokens []Token) [][]Token {
	segments := [][]Token{nil}
	for _, tok := range tokens {
		if tok.Kind == TokenRaise {
			segments = append(segments, nil)
			continue
		}
		segments[len(segments)-1] = append(segments[len(segments)-1], tok)
	}
	return segments
}
