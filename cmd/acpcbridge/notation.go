package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/acpcbridge/cmd/acpcbridge/shared"
	"github.com/lox/acpcbridge/internal/acpc"
)

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

type TranslateCmd struct {
	Actions             string `arg:"" help:"Action string in table notation, e.g. b100c/kb200"`
	BetFloor            int    `default:"100" help:"Reference bet used before anybody raises"`
	PreserveRaiseMarker bool   `help:"Keep the raise marker in front of unparseable raise sizes"`

	out io.Writer `kong:"-"`
}

func (c *TranslateCmd) Run(g *Globals) error {
	logger := shared.SetupLogger(g.LogLevel, g.LogJSON)

	res := acpc.Translator{
		BetFloor:            c.BetFloor,
		PreserveRaiseMarker: c.PreserveRaiseMarker,
	}.Translate(c.Actions)

	for _, m := range res.Malformed {
		logger.Warn().Int("street", m.Street).Int("raise", m.Raise).Str("segment", m.Segment).Msg("Malformed raise segment passed through")
	}
	_, err := fmt.Fprintf(stdout(c.out), "%s %d\n", res.Actions, res.ReferenceBet)
	return err
}

type BoardCmd struct {
	Board string `arg:"" help:"Concatenated board cards, e.g. AsKdQcJh"`

	out io.Writer `kong:"-"`
}

func (c *BoardCmd) Run() error {
	board, err := acpc.FormatBoard(c.Board)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout(c.out), board)
	return err
}

type MatchStateCmd struct {
	Actions  string `arg:"" optional:"" help:"Action string in table notation"`
	Seat     int    `default:"0" help:"Our seat (0 or 1)"`
	Hand     int    `default:"1" help:"Hand index"`
	Hole     string `required:"" help:"Our hole cards, e.g. AsKd"`
	Board    string `help:"Concatenated board cards"`
	BetFloor int    `default:"100" help:"Reference bet used before anybody raises"`

	out io.Writer `kong:"-"`
}

func (c *MatchStateCmd) Run() error {
	res := acpc.Translator{BetFloor: c.BetFloor}.Translate(c.Actions)
	state := acpc.MatchState{
		Seat:      c.Seat,
		HandIndex: c.Hand,
		Actions:   res.Actions,
		HoleCards: c.Hole,
	}
	if c.Board != "" {
		board, err := acpc.FormatBoard(c.Board)
		if err != nil {
			return err
		}
		state.Board = board
	}
	if err := state.Validate(); err != nil {
		return err
	}
	_, err := fmt.Fprint(stdout(c.out), state.String())
	return err
}

type AdviceCmd struct {
	Token         string `arg:"" help:"Agent reply, e.g. c, f, 20000 or a raise size"`
	ReferenceBet  int    `default:"100" help:"Reference bet of the state the agent answered"`
	ShoveToken    string `default:"20000" help:"Reply meaning all-in"`
	PotMultiplier int    `default:"3" help:"Reference bet multiple meaning a pot-sized bet"`

	out io.Writer `kong:"-"`
}

func (c *AdviceCmd) Run() error {
	advice, err := acpc.InterpretAdvice(c.Token, c.ReferenceBet, acpc.AdviceRules{
		ShoveToken:    c.ShoveToken,
		PotMultiplier: c.PotMultiplier,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout(c.out), advice.Kind)
	return err
}
