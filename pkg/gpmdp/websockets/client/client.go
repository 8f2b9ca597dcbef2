// Package client connects to the GPMDP remote control websocket.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

var errNotConnected = errors.New("client is not connected")

// Client is a websocket connection that delivers inbound text frames on a
// channel and writes outbound JSON messages synchronously.
type Client struct {
	url          string
	logger       *zap.Logger
	dialTimeout  time.Duration
	writeTimeout time.Duration
	readLimit    int64
	readBuffer   int
	header       http.Header

	mu       sync.Mutex
	conn     *websocket.Conn
	cancel   context.CancelFunc
	closing  atomic.Bool
	messages chan []byte
	errs     chan error
	readDone chan struct{}
}

// Connect dials the server and starts delivering inbound frames. The read
// loop stops when ctx ends or Disconnect is called.
func (c *Client) Connect(ctx context.Context) error {
	u, err := url.Parse(c.url)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("invalid URL: unsupported scheme %q", u.Scheme)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return fmt.Errorf("client is already connected")
	}

	dialCtx, cancelDial := context.WithTimeout(ctx, c.dialTimeout)
	defer cancelDial()

	conn, _, err := websocket.Dial(dialCtx, c.url, &websocket.DialOptions{HTTPHeader: c.header})
	if err != nil {
		return fmt.Errorf("failed to connect to WebSocket: %w", err)
	}
	conn.SetReadLimit(c.readLimit)

	readCtx, cancel := context.WithCancel(ctx)
	c.conn = conn
	c.cancel = cancel
	c.closing.Store(false)
	c.messages = make(chan []byte, c.readBuffer)
	c.errs = make(chan error, 1)
	c.readDone = make(chan struct{})

	c.logger.Debug("WebSocket client connected", zap.String("url", c.url))

	go c.readLoop(readCtx, conn, c.messages, c.errs, c.readDone)
	return nil
}

// Messages returns the inbound text frames. The channel is closed when the
// connection ends.
func (c *Client) Messages() <-chan []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages
}

// Errors reports the error that ended the read loop, if any.
func (c *Client) Errors() <-chan error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs
}

// Send marshals v to JSON and writes it as one text frame.
func (c *Client) Send(ctx context.Context, v any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return errNotConnected
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("failed to write to WebSocket: %w", err)
	}

	c.logger.Debug("Sent message", zap.ByteString("data", data))
	return nil
}

// Disconnect performs a normal close and waits for the read loop to exit.
// It is a no-op on a client that is not connected.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn, cancel, done := c.conn, c.cancel, c.readDone
	c.conn, c.cancel = nil, nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	c.closing.Store(true)
	c.logger.Debug("Disconnecting WebSocket client")

	// The close handshake completes through the read loop, so the read
	// context is cancelled only afterwards.
	if err := conn.Close(websocket.StatusNormalClosure, "done"); err != nil {
		c.logger.Debug("Close handshake did not complete", zap.Error(err))
	}
	cancel()
	<-done

	c.logger.Debug("WebSocket client disconnected")
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, messages chan<- []byte, errs chan<- error, done chan<- struct{}) {
	defer close(done)
	defer close(messages)

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			c.readFailed(ctx, err, errs)
			return
		}

		if typ != websocket.MessageText {
			c.logger.Warn("Ignoring non-text WebSocket message", zap.Int("type", int(typ)))
			continue
		}

		select {
		case messages <- data:
		case <-ctx.Done():
			return
		}
	}
}

// readFailed reports err unless it is the expected end of the connection.
func (c *Client) readFailed(ctx context.Context, err error, errs chan<- error) {
	switch {
	case ctx.Err() != nil, c.closing.Load():
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure:
		c.logger.Debug("Server closed the connection")
	default:
		c.logger.Error("Failed to read from WebSocket", zap.Error(err))
		errs <- err
	}
}
