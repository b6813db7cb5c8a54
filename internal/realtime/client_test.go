package realtime

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/config"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsServer(t *testing.T, onConn func(n int, conn net.Conn)) (string, *atomic.Int32) {
	t.Helper()
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			return
		}
		defer conn.Close()
		onConn(int(count.Add(1)), conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws", &count
}

// holdOpen blocks until the client goes away.
func holdOpen(conn net.Conn) {
	for {
		if _, _, err := wsutil.ReadClientData(conn); err != nil {
			return
		}
	}
}

func runClient(t *testing.T, c *Client, handler Handler) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, handler) }()
	t.Cleanup(cancel)
	return cancel, done
}

func waitErr(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantType string
		wantText string
	}{
		{"typed json", `{"type":"events_updated","data":{"id":"e1"}}`, "events_updated", ""},
		{"json without type", `{"foo":1}`, "", `{"foo":1}`},
		{"plain text", "refresh", "", "refresh"},
		{"broken json", `{"type":`, "", `{"type":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ParseMessage([]byte(tt.in))
			assert.Equal(t, tt.wantType, m.Type)
			assert.Equal(t, tt.wantText, m.Text)
			assert.Equal(t, tt.wantType != "", m.IsJSON())
		})
	}
}

func TestRun_DeliversMessages(t *testing.T) {
	url, _ := wsServer(t, func(_ int, conn net.Conn) {
		_ = wsutil.WriteServerMessage(conn, ws.OpText, []byte(`{"type":"events_updated","data":{"week":"2025-06-09"}}`))
		_ = wsutil.WriteServerMessage(conn, ws.OpText, []byte("tickets changed"))
		holdOpen(conn)
	})

	c := NewClient(config.RealtimeConfig{URL: url, MaxAttempts: 1, IntervalMs: 10}, nil)
	got := make(chan Message, 4)
	cancel, done := runClient(t, c, func(m Message) { got <- m })

	first := <-got
	second := <-got
	assert.Equal(t, "events_updated", first.Type)
	assert.JSONEq(t, `{"week":"2025-06-09"}`, string(first.Data))
	assert.Equal(t, "tickets changed", second.Text)
	assert.True(t, c.Connected())

	cancel()
	assert.NoError(t, waitErr(t, done), "cancellation stops cleanly")
	assert.False(t, c.Connected())
}

func TestRun_SuccessfulConnectResetsAttempts(t *testing.T) {
	url, count := wsServer(t, func(n int, conn net.Conn) {
		_ = wsutil.WriteServerMessage(conn, ws.OpText, []byte("hello "+strconv.Itoa(n)))
	})

	// With a single allowed attempt the client only survives three drops if
	// every successful connect resets the counter.
	c := NewClient(config.RealtimeConfig{URL: url, MaxAttempts: 1, IntervalMs: 10}, nil)
	got := make(chan Message, 8)
	cancel, done := runClient(t, c, func(m Message) { got <- m })

	for i := 1; i <= 3; i++ {
		select {
		case m := <-got:
			assert.Equal(t, "hello "+strconv.Itoa(i), m.Text)
		case <-time.After(5 * time.Second):
			t.Fatalf("message %d not received", i)
		}
	}
	cancel()
	require.NoError(t, waitErr(t, done))
	assert.GreaterOrEqual(t, int(count.Load()), 3)
}

func TestRun_ExhaustsReconnectAttempts(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	srv.Close()

	c := NewClient(config.RealtimeConfig{URL: url, MaxAttempts: 2, IntervalMs: 5}, nil)
	_, done := runClient(t, c, func(Message) {})

	err := waitErr(t, done)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReconnectExhausted)
}

func TestRun_CancelDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	srv.Close()

	c := NewClient(config.RealtimeConfig{URL: url, MaxAttempts: 5, IntervalMs: 60000}, nil)
	cancel, done := runClient(t, c, func(Message) {})

	time.Sleep(50 * time.Millisecond)
	cancel()
	assert.NoError(t, waitErr(t, done))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(config.RealtimeConfig{URL: "ws://example.test/ws"}, nil)
	assert.Equal(t, 5, c.maxAttempts)
	assert.Equal(t, 3*time.Second, c.interval)
	assert.Equal(t, "ws://example.test/ws", c.URL())
}

func TestFrameSource_ReadsBufferedFramesAndReleases(t *testing.T) {
	var released *bufio.Reader
	orig := putReader
	putReader = func(br *bufio.Reader) { released = br }
	t.Cleanup(func() { putReader = orig })

	client, server := net.Pipe()
	t.Cleanup(func() { client.Close(); server.Close() })

	// A frame that arrived with the handshake sits in the buffered reader.
	var early bytes.Buffer
	require.NoError(t, wsutil.WriteServerText(&early, []byte(`{"type":"events.changed"}`)))
	br := bufio.NewReader(&early)

	rw, release := frameSource(client, br)
	data, op, err := wsutil.ReadServerData(rw)
	require.NoError(t, err)
	assert.Equal(t, ws.OpText, op)
	assert.Equal(t, "events.changed", ParseMessage(data).Type)

	assert.Nil(t, released)
	release()
	assert.Same(t, br, released)
}

func TestFrameSource_NoBufferedReader(t *testing.T) {
	orig := putReader
	putReader = func(*bufio.Reader) { t.Fatal("nothing to release") }
	t.Cleanup(func() { putReader = orig })

	client, server := net.Pipe()
	t.Cleanup(func() { client.Close(); server.Close() })

	rw, release := frameSource(client, nil)
	assert.Equal(t, client, rw)
	release()
}
