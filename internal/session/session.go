// Package session drives a match against the agent: it numbers hands,
// turns each table observation into a match-state line, asks the agent and
// maps the reply onto a table action.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lox/acpcbridge/internal/acpc"
	"github.com/lox/acpcbridge/internal/journal"
	"github.com/lox/acpcbridge/internal/observe"
)

// ErrInvalidObservation wraps observations that cannot be put on the wire.
var ErrInvalidObservation = errors.New("session: invalid observation")

// Asker sends a match-state line and returns the agent's reply.
type Asker interface {
	Ask(ctx context.Context, line string) (string, error)
}

// Step is the outcome of one decision point.
type Step struct {
	Observation observe.Observation
	State       acpc.MatchState
	Translation acpc.Result
	Advice      acpc.Advice
}

// Config holds the translation settings for a session.
type Config struct {
	Translator  acpc.Translator
	AdviceRules acpc.AdviceRules

	// Journal receives a record per decision point when set.
	Journal *journal.Journal
}

// Session tracks hand numbering across observations. It is not safe for
// concurrent use; observations must be fed in the order they were seen.
type Session struct {
	agent  Asker
	cfg    Config
	logger zerolog.Logger

	handID    string
	handIndex int
	prev      observe.Observation
	last      *observe.Observation
}

func New(agent Asker, cfg Config, logger zerolog.Logger) *Session {
	return &Session{
		agent:  agent,
		cfg:    cfg,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// HandIndex is the index of the current hand, 0 before the first observation.
func (s *Session) HandIndex() int {
	return s.handIndex
}

// Decide handles one observation. Invalid observations return an error
// wrapping ErrInvalidObservation and are never sent to the agent.
func (s *Session) Decide(ctx context.Context, obs observe.Observation) (Step, error) {
	if s.isNewHand(obs) {
		s.handID = obs.HandID
		s.handIndex++
		s.logger.Info().Int("hand", s.handIndex).Str("hand_id", obs.HandID).Int("seat", obs.Seat).Msg("New hand")
	}
	s.prev = obs

	step := Step{Observation: obs}
	rec := journal.Record{
		HandIndex:  s.handIndex,
		HandID:     obs.HandID,
		Seat:       obs.Seat,
		RawActions: obs.Actions,
	}

	step.Translation = s.cfg.Translator.Translate(obs.Actions)
	rec.Actions = step.Translation.Actions
	rec.ReferenceBet = step.Translation.ReferenceBet
	for _, m := range step.Translation.Malformed {
		rec.Malformed = append(rec.Malformed, m.Error())
	}
	if len(step.Translation.Malformed) > 0 {
		s.logger.Warn().
			Int("hand", s.handIndex).
			Str("actions", obs.Actions).
			Int("malformed", len(step.Translation.Malformed)).
			Err(step.Translation.Err()).
			Msg("Passed through malformed raise segments")
	}

	step.State = acpc.MatchState{
		Seat:      obs.Seat,
		HandIndex: s.handIndex,
		Actions:   step.Translation.Actions,
		HoleCards: obs.HoleCards,
	}
	if obs.Board != "" {
		board, err := acpc.FormatBoard(obs.Board)
		if err != nil {
			return step, s.fail(rec, fmt.Errorf("%w: %w", ErrInvalidObservation, err))
		}
		step.State.Board = board
	}
	if err := step.State.Validate(); err != nil {
		return step, s.fail(rec, fmt.Errorf("%w: %w", ErrInvalidObservation, err))
	}

	line := step.State.String()
	rec.Line = line

	token, err := s.agent.Ask(ctx, line)
	if err != nil {
		return step, s.fail(rec, fmt.Errorf("ask agent: %w", err))
	}
	rec.Advice = token

	step.Advice, err = acpc.InterpretAdvice(token, step.Translation.ReferenceBet, s.cfg.AdviceRules)
	if err != nil {
		return step, s.fail(rec, err)
	}
	rec.Decision = step.Advice.Kind.String()

	s.logger.Info().
		Int("hand", s.handIndex).
		Str("line", strings.TrimRight(line, "\n")).
		Str("advice", step.Advice.Token).
		Stringer("decision", step.Advice.Kind).
		Msg("Decision")

	s.record(rec)
	return step, nil
}

// isNewHand reports whether obs starts a hand. Without a hand id a hand is
// over once the seat or hole cards change or the action history stops
// extending the previous one.
func (s *Session) isNewHand(obs observe.Observation) bool {
	switch {
	case s.handIndex == 0:
		return true
	case obs.HandID != s.handID:
		return true
	case obs.HandID != "":
		return false
	}
	return obs.Seat != s.prev.Seat ||
		obs.HoleCards != s.prev.HoleCards ||
		!strings.HasPrefix(obs.Actions, s.prev.Actions)
}

// Run decides every observation from in and publishes the steps to out,
// which may be nil. Repeated observations of an unchanged table are skipped
// and invalid observations are logged and dropped. Agent failures end the run.
func (s *Session) Run(ctx context.Context, in <-chan observe.Observation, out chan<- Step) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case obs, ok := <-in:
			if !ok {
				return nil
			}
			if s.last != nil && *s.last == obs {
				s.logger.Debug().Str("hand_id", obs.HandID).Msg("Skipping unchanged observation")
				continue
			}
			s.last = &obs

			step, err := s.Decide(ctx, obs)
			if errors.Is(err, ErrInvalidObservation) {
				s.logger.Warn().Err(err).Str("hand_id", obs.HandID).Msg("Dropping observation")
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if out == nil {
				continue
			}
			select {
			case out <- step:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (s *Session) fail(rec journal.Record, err error) error {
	rec.Error = err.Error()
	s.record(rec)
	return err
}

func (s *Session) record(rec journal.Record) {
	if s.cfg.Journal == nil {
		return
	}
	if err := s.cfg.Journal.Append(rec); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write journal")
	}
}
