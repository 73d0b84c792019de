// Package agent talks to the external decision agent: it sends ACPC
// match-state lines and reads back one advice token per line.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

// DefaultAdviceTimeout bounds one exchange with the agent.
const DefaultAdviceTimeout = 30 * time.Second

var (
	ErrAdviceTimeout = errors.New("agent: timed out waiting for advice")
	ErrClosed        = errors.New("agent: client closed")
)

// Client serializes exchanges with one agent.
type Client struct {
	transport Transport
	logger    zerolog.Logger
	clock     quartz.Clock
	timeout   time.Duration

	mu     sync.Mutex
	closed bool
}

// Option configures a Client.
type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithClock(clock quartz.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient wraps an established transport.
func NewClient(transport Transport, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		logger:    zerolog.Nop(),
		clock:     quartz.NewReal(),
		timeout:   DefaultAdviceTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "agent").Logger()
	return c
}

// Connect dials address and returns a ready client.
func Connect(ctx context.Context, address string, opts ...Option) (*Client, error) {
	transport, err := Dial(ctx, address)
	if err != nil {
		return nil, err
	}
	return NewClient(transport, opts...), nil
}

// Ask sends one match-state line and waits for the agent's reply. On
// timeout or cancellation the transport is closed, since a late reply would
// otherwise be read as the answer to the next line.
func (c *Client) Ask(ctx context.Context, line string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ErrClosed
	}

	timeoutFired := make(chan struct{})
	timer := c.clock.AfterFunc(c.timeout, func() {
		close(timeoutFired)
	})
	defer timer.Stop()

	type reply struct {
		advice string
		err    error
	}
	replies := make(chan reply, 1)
	go func() {
		advice, err := c.transport.Receive()
		replies <- reply{advice: advice, err: err}
	}()

	if err := c.transport.Send(line); err != nil {
		// The pending receive is released by closing the transport.
		c.closeLocked()
		return "", fmt.Errorf("send match state: %w", err)
	}
	c.logger.Debug().Str("line", strings.TrimRight(line, "\n")).Msg("Sent match state")

	select {
	case r := <-replies:
		return c.received(r.advice, r.err)
	case <-timeoutFired:
		// A reply that raced the timer still answers this line.
		select {
		case r := <-replies:
			return c.received(r.advice, r.err)
		default:
		}
		c.logger.Warn().Dur("timeout", c.timeout).Msg("Advice timeout, closing agent connection")
		c.closeLocked()
		return "", ErrAdviceTimeout
	case <-ctx.Done():
		c.closeLocked()
		return "", ctx.Err()
	}
}

func (c *Client) received(advice string, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("receive advice: %w", err)
	}
	c.logger.Debug().Str("advice", advice).Msg("Received advice")
	return advice, nil
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.transport.Close()
}
