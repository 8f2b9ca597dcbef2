package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Conn is the transport a session runs over. Messages delivers inbound text
// frames in order and is closed when the connection ends; Errors reports
// transport failures.
type Conn interface {
	Sender
	Messages() <-chan []byte
	Errors() <-chan error
}

// Run opens the session on conn and processes inbound messages until the
// session is done, the watchdog fires, the transport fails or ctx ends.
// The caller owns closing conn.
func (s *Session) Run(ctx context.Context, conn Conn) error {
	if err := s.Open(ctx); err != nil {
		return err
	}

	var timeout <-chan time.Time
	if s.Watchdog() {
		timer := time.NewTimer(s.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for !s.Done() {
		select {
		case data, ok := <-conn.Messages():
			if !ok {
				return s.closed(ctx, conn)
			}
			if err := s.HandleMessage(ctx, data); err != nil {
				return err
			}

		case err := <-conn.Errors():
			return s.fail(fmt.Errorf("transport error: %w", err))

		case <-timeout:
			s.logger.Warn("Watchdog fired", zap.Duration("timeout", s.timeout))
			return s.HandleTimeout()

		case <-ctx.Done():
			return s.fail(ctx.Err())
		}
	}

	return s.err
}

// closed reports why Messages ended. A transport read loop also ends when
// ctx does, so cancellation takes precedence over a server close.
func (s *Session) closed(ctx context.Context, conn Conn) error {
	if err := ctx.Err(); err != nil {
		return s.fail(err)
	}
	select {
	case err := <-conn.Errors():
		return s.fail(fmt.Errorf("transport error: %w", err))
	default:
		return s.fail(ErrConnectionClosed)
	}
}
