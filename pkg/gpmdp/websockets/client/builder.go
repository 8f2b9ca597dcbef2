package client

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultDialTimeout  = 30 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultReadLimit    = 64 << 20 // playlists and queues can be several megabytes
	defaultReadBuffer   = 64
)

// ClientBuilder provides a fluent interface for building WebSocket clients.
type ClientBuilder struct {
	url          string
	logger       *zap.Logger
	dialTimeout  time.Duration
	writeTimeout time.Duration
	readLimit    int64
	readBuffer   int
	header       http.Header
}

// NewClient creates a new WebSocket client builder.
func NewClient() *ClientBuilder {
	return &ClientBuilder{
		dialTimeout:  defaultDialTimeout,
		writeTimeout: defaultWriteTimeout,
		readLimit:    defaultReadLimit,
		readBuffer:   defaultReadBuffer,
		logger:       zap.NewNop(),
	}
}

// WithURL sets the WebSocket URL to connect to.
func (b *ClientBuilder) WithURL(url string) *ClientBuilder {
	b.url = url
	return b
}

// WithLogger sets the logger for the client.
func (b *ClientBuilder) WithLogger(logger *zap.Logger) *ClientBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithDialTimeout sets the timeout for establishing the WebSocket connection.
func (b *ClientBuilder) WithDialTimeout(timeout time.Duration) *ClientBuilder {
	if timeout > 0 {
		b.dialTimeout = timeout
	}
	return b
}

// WithWriteTimeout bounds each outgoing frame.
func (b *ClientBuilder) WithWriteTimeout(timeout time.Duration) *ClientBuilder {
	if timeout > 0 {
		b.writeTimeout = timeout
	}
	return b
}

// WithReadLimit sets the largest inbound message accepted, in bytes.
func (b *ClientBuilder) WithReadLimit(limit int64) *ClientBuilder {
	if limit > 0 {
		b.readLimit = limit
	}
	return b
}

// WithReadBuffer sets how many inbound messages may queue before the read
// loop blocks.
func (b *ClientBuilder) WithReadBuffer(size int) *ClientBuilder {
	if size > 0 {
		b.readBuffer = size
	}
	return b
}

// WithHeader sets an HTTP header sent with the handshake.
func (b *ClientBuilder) WithHeader(key, value string) *ClientBuilder {
	if b.header == nil {
		b.header = make(http.Header)
	}
	b.header.Set(key, value)
	return b
}

// Build validates the options and creates the client.
func (b *ClientBuilder) Build() (*Client, error) {
	if err := b.IsValid(); err != nil {
		return nil, err
	}

	return &Client{
		url:          b.url,
		logger:       b.logger,
		dialTimeout:  b.dialTimeout,
		writeTimeout: b.writeTimeout,
		readLimit:    b.readLimit,
		readBuffer:   b.readBuffer,
		header:       b.header.Clone(),
	}, nil
}

// IsValid checks that all required configuration is present.
func (b *ClientBuilder) IsValid() error {
	if b.url == "" {
		return fmt.Errorf("URL is required")
	}

	return nil
}
