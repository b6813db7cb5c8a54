// Package realtime holds the WebSocket connection that tells the client
// when backend data changed.
package realtime

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/config"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// ErrReconnectExhausted is returned by Run once the consecutive reconnect
// attempts have all failed.
var ErrReconnectExhausted = errors.New("realtime: reconnect attempts exhausted")

// Message is one inbound frame. JSON frames with a "type" field fill Type
// and Data; anything else arrives as Text.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	Text string          `json:"-"`
}

// IsJSON reports whether the frame was a typed JSON message.
func (m Message) IsJSON() bool {
	return m.Type != ""
}

// ParseMessage decodes a frame payload.
func ParseMessage(p []byte) Message {
	trimmed := bytes.TrimSpace(p)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var m Message
		if err := json.Unmarshal(trimmed, &m); err == nil && m.Type != "" {
			return m
		}
	}
	return Message{Text: string(p)}
}

// Handler receives every inbound message on the reader goroutine.
type Handler func(Message)

// Client keeps one connection to a fixed endpoint, reconnecting at a fixed
// interval. A successful connection resets the attempt counter.
type Client struct {
	url         string
	maxAttempts int
	interval    time.Duration
	logger      *slog.Logger

	mu        sync.Mutex
	connected bool
	attempts  int
}

// NewClient creates a Client from the realtime settings.
func NewClient(cfg config.RealtimeConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	interval := time.Duration(cfg.IntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Client{url: cfg.URL, maxAttempts: maxAttempts, interval: interval, logger: logger}
}

// Connected reports whether a connection is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// URL returns the endpoint the client dials.
func (c *Client) URL() string {
	return c.url
}

// Run connects and delivers messages to handler until ctx is cancelled
// (returns nil) or reconnecting fails maxAttempts times in a row (returns
// ErrReconnectExhausted wrapping the last error).
func (c *Client) Run(ctx context.Context, handler Handler) error {
	for {
		connected, err := c.session(ctx, handler)
		if ctx.Err() != nil {
			return nil
		}

		c.mu.Lock()
		if connected {
			c.attempts = 0
		}
		if c.attempts >= c.maxAttempts {
			c.mu.Unlock()
			c.logger.Error("realtime giving up", "url", c.url, "attempts", c.maxAttempts, "error", err)
			return fmt.Errorf("%w: %v", ErrReconnectExhausted, err)
		}
		c.attempts++
		attempt := c.attempts
		c.mu.Unlock()

		c.logger.Warn("realtime disconnected, reconnecting",
			"url", c.url, "attempt", attempt, "max", c.maxAttempts, "error", err)

		t := time.NewTimer(c.interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

// session runs one connection. connected reports whether the handshake
// succeeded before the session ended.
func (c *Client) session(ctx context.Context, handler Handler) (connected bool, err error) {
	conn, br, _, err := ws.Dial(ctx, c.url)
	if err != nil {
		return false, fmt.Errorf("dialing %s: %w", c.url, err)
	}
	defer conn.Close()

	c.setConnected(true)
	defer c.setConnected(false)
	c.logger.Info("realtime connected", "url", c.url)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	rw, release := frameSource(conn, br)
	defer release()

	for {
		data, op, err := wsutil.ReadServerData(rw)
		if err != nil {
			return true, fmt.Errorf("reading frame: %w", err)
		}
		if op != ws.OpText && op != ws.OpBinary {
			continue
		}
		handler(ParseMessage(data))
	}
}

// putReader returns a handshake reader to the gobwas pool.
var putReader = ws.PutReader

// frameSource picks what frames are read from. When the server sent frames
// together with the handshake, br holds them and must be read through
// first; release hands it back to the pool once the session is over.
func frameSource(conn io.ReadWriter, br *bufio.Reader) (rw io.ReadWriter, release func()) {
	if br == nil {
		return conn, func() {}
	}
	rw = struct {
		io.Reader
		io.Writer
	}{br, conn}
	return rw, func() { putReader(br) }
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
