package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/acpcbridge/cmd/acpcbridge/shared"
	"github.com/lox/acpcbridge/internal/agent"
	"github.com/lox/acpcbridge/internal/config"
	"github.com/lox/acpcbridge/internal/journal"
	"github.com/lox/acpcbridge/internal/observe"
	"github.com/lox/acpcbridge/internal/session"
)

type RelayCmd struct {
	Agent               string        `help:"Agent address (host:port, tcp://host:port or ws://...), overrides the config"`
	Observations        string        `help:"Observation file to follow, '-' for standard input"`
	FromEnd             bool          `help:"Skip observations already in the file"`
	Journal             string        `help:"Journal file, overrides the config"`
	Timeout             time.Duration `help:"Advice timeout, overrides the config"`
	PreserveRaiseMarker bool          `help:"Keep the raise marker in front of unparseable raise sizes"`

	in  io.Reader `kong:"-"`
	out io.Writer `kong:"-"`
}

// decisionLine is written to standard output for every decision, for the
// table clicker to act on.
type decisionLine struct {
	Hand         int    `json:"hand"`
	HandID       string `json:"hand_id"`
	Line         string `json:"line"`
	ReferenceBet int    `json:"reference_bet"`
	Advice       string `json:"advice"`
	Action       string `json:"action"`
}

func (c *RelayCmd) Run(g *Globals) error {
	if err := config.LoadDotEnv(g.EnvFile); err != nil {
		return err
	}
	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	c.applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := cfg.Log.Level
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	if err := shared.CheckLevel(level); err != nil {
		return err
	}
	logger := shared.SetupLogger(level, g.LogJSON || cfg.Log.JSON)

	ctx, cancel := shared.SetupSignalHandler(context.Background(), logger)
	defer cancel()

	return c.relay(ctx, cfg, logger)
}

func (c *RelayCmd) applyFlags(cfg *config.Config) {
	if c.Agent != "" {
		cfg.Agent.Address = c.Agent
	}
	if c.Observations != "" {
		cfg.Observations.File = c.Observations
	}
	if c.FromEnd {
		cfg.Observations.FromEnd = true
	}
	if c.Journal != "" {
		cfg.Journal.Path = c.Journal
	}
	if c.Timeout > 0 {
		cfg.Agent.Timeout = int((c.Timeout + time.Second - 1) / time.Second)
	}
	if c.PreserveRaiseMarker {
		cfg.Translator.PreserveRaiseMarker = true
	}
}

func (c *RelayCmd) relay(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	client, err := agent.Connect(ctx, cfg.Agent.Address,
		agent.WithLogger(logger),
		agent.WithTimeout(cfg.AgentTimeout()),
	)
	if err != nil {
		return err
	}
	defer client.Close()
	logger.Info().Str("agent", cfg.Agent.Address).Msg("Connected to agent")

	j := journal.New(journal.Config{
		Path:       cfg.Journal.Path,
		FlushEvery: cfg.Journal.FlushEvery,
	}, logger)
	defer func() {
		if err := j.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to flush journal")
		}
	}()

	sess := session.New(client, session.Config{
		Translator:  cfg.ActionTranslator(),
		AdviceRules: cfg.AdviceRules(),
		Journal:     j,
	}, logger)

	observations := make(chan observe.Observation, 16)
	steps := make(chan session.Step, 16)
	g, ctx := errgroup.WithContext(ctx)

	if file := cfg.Observations.File; file != "" && file != "-" {
		var opts []observe.TailerOption
		if cfg.Observations.FromEnd {
			opts = append(opts, observe.FromEnd())
		}
		tailer := observe.NewTailer(file, logger, opts...)
		g.Go(func() error {
			defer close(observations)
			return tailer.Run(ctx, observations)
		})
	} else {
		// A blocked read on standard input cannot be interrupted, so the
		// reader is left out of the group and only ends the relay at EOF.
		go func() {
			defer close(observations)
			err := observe.ReadLines(ctx, c.input(), observations, logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("Failed to read observations")
			}
		}()
	}

	g.Go(func() error {
		defer close(steps)
		return sess.Run(ctx, observations, steps)
	})

	g.Go(func() error {
		out := stdout(c.out)
		for step := range steps {
			data, err := jsoniter.Marshal(decisionLine{
				Hand:         step.State.HandIndex,
				HandID:       step.Observation.HandID,
				Line:         strings.TrimRight(step.State.String(), "\n"),
				ReferenceBet: step.Translation.ReferenceBet,
				Advice:       step.Advice.Token,
				Action:       step.Advice.Kind.String(),
			})
			if err != nil {
				return fmt.Errorf("encode decision: %w", err)
			}
			if _, err := fmt.Fprintln(out, string(data)); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

func (c *RelayCmd) input() io.Reader {
	if c.in == nil {
		return os.Stdin
	}
	return c.in
}

type AgentCmd struct {
	Listen string `default:"127.0.0.1:18791" help:"Address to listen on"`
	Policy string `default:"call" enum:"call,fold,allin" help:"Reply policy (call|fold|allin)"`
}

func (c *AgentCmd) Run(g *Globals) error {
	level := g.LogLevel
	if level == "" {
		level = "info"
	}
	if err := shared.CheckLevel(level); err != nil {
		return err
	}
	logger := shared.SetupLogger(level, g.LogJSON)

	policy, err := agent.PolicyByName(c.Policy)
	if err != nil {
		return err
	}
	responder, err := agent.Listen(c.Listen, policy, logger)
	if err != nil {
		return err
	}

	ctx, cancel := shared.SetupSignalHandler(context.Background(), logger)
	defer cancel()

	logger.Info().Str("addr", responder.Addr()).Str("policy", c.Policy).Msg("Stub agent listening")
	return responder.Serve(ctx)
}
