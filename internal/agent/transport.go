package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// MaxAdviceBytes bounds a single advice read from a stream agent.
const MaxAdviceBytes = 100

// ErrUnsupportedScheme is returned by Dial for addresses it cannot reach.
var ErrUnsupportedScheme = errors.New("agent: unsupported address scheme")

// Transport moves match-state lines to an agent and advice back.
type Transport interface {
	Send(line string) error
	Receive() (string, error)
	Close() error
}

// Dial connects to an agent. Addresses may be host:port or tcp://host:port
// for a raw stream, or ws:// and wss:// URLs for a WebSocket agent.
func Dial(ctx context.Context, address string) (Transport, error) {
	if !strings.Contains(address, "://") {
		return dialTCP(ctx, address)
	}

	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("parse agent address: %w", err)
	}
	switch u.Scheme {
	case "tcp":
		return dialTCP(ctx, u.Host)
	case "ws", "wss":
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("dial websocket agent %s: %w", address, err)
		}
		return NewWebSocketTransport(conn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func dialTCP(ctx context.Context, hostport string) (Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", hostport)
	if err != nil {
		return nil, fmt.Errorf("dial agent %s: %w", hostport, err)
	}
	return NewStreamTransport(conn), nil
}

// StreamTransport speaks to an agent over a byte stream. Each advice is
// whatever a single read returns, as ACPC agents reply with one short write.
type StreamTransport struct {
	conn net.Conn
	buf  []byte
}

func NewStreamTransport(conn net.Conn) *StreamTransport {
	return &StreamTransport{conn: conn, buf: make([]byte, MaxAdviceBytes)}
}

func (t *StreamTransport) Send(line string) error {
	_, err := t.conn.Write([]byte(line))
	return err
}

func (t *StreamTransport) Receive() (string, error) {
	n, err := t.conn.Read(t.buf)
	if n > 0 {
		return string(t.buf[:n]), nil
	}
	return "", err
}

func (t *StreamTransport) Close() error {
	return t.conn.Close()
}

// WebSocketTransport exchanges one text message per line and per advice.
type WebSocketTransport struct {
	conn *websocket.Conn
}

func NewWebSocketTransport(conn *websocket.Conn) *WebSocketTransport {
	return &WebSocketTransport{conn: conn}
}

func (t *WebSocketTransport) Send(line string) error {
	return t.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (t *WebSocketTransport) Receive() (string, error) {
	for {
		msgType, data, err := t.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			return string(data), nil
		}
	}
}

func (t *WebSocketTransport) Close() error {
	_ = t.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return t.conn.Close()
}
