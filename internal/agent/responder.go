package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"

	"github.com/lox/acpcbridge/internal/acpc"
	"github.com/rs/zerolog"
)

// Policy picks the advice token for a match state.
type Policy func(state acpc.MatchState) string

// Built-in policies for the stub agent.
var policies = map[string]Policy{
	"call":  func(acpc.MatchState) string { return string(acpc.CallMarker) },
	"fold":  func(acpc.MatchState) string { return "f" },
	"allin": func(acpc.MatchState) string { return acpc.DefaultShoveToken },
}

// PolicyByName returns a built-in policy.
func PolicyByName(name string) (Policy, error) {
	p, ok := policies[name]
	if !ok {
		names := make([]string, 0, len(policies))
		for n := range policies {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown policy: %s (available: %s)", name, strings.Join(names, ", "))
	}
	return p, nil
}

// Responder is a minimal stream agent. It answers every match-state line it
// receives with the token chosen by its policy.
type Responder struct {
	listener net.Listener
	policy   Policy
	logger   zerolog.Logger

	wg sync.WaitGroup
}

// Listen starts a responder on address ("127.0.0.1:0" picks a free port).
func Listen(address string, policy Policy, logger zerolog.Logger) (*Responder, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}
	return &Responder{
		listener: ln,
		policy:   policy,
		logger:   logger.With().Str("component", "responder").Logger(),
	}, nil
}

// Addr is the address the responder listens on.
func (r *Responder) Addr() string {
	return r.listener.Addr().String()
}

// Serve accepts connections until ctx is cancelled or Close is called.
func (r *Responder) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { r.listener.Close() })
	defer stop()

	for {
		conn, err := r.listener.Accept()
		if err != nil {
			r.wg.Wait()
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.handle(ctx, conn)
		}()
	}
}

// Close stops accepting connections.
func (r *Responder) Close() error {
	return r.listener.Close()
}

func (r *Responder) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	logger := r.logger.With().Str("remote", conn.RemoteAddr().String()).Logger()
	logger.Info().Msg("Agent connection opened")

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			logger.Info().Err(err).Msg("Agent connection closed")
			return
		}

		state, err := acpc.ParseMatchState(line)
		if err != nil {
			logger.Warn().Err(err).Msg("Ignoring invalid match state")
			continue
		}

		advice := r.policy(state)
		logger.Debug().Int("hand", state.HandIndex).Str("actions", state.Actions).Str("advice", advice).Msg("Answering")
		if _, err := conn.Write([]byte(advice)); err != nil {
			logger.Warn().Err(err).Msg("Failed to write advice")
			return
		}
	}
}
