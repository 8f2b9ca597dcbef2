// Package session drives one remote control invocation: it authenticates,
// waits until the channels a command depends on have been broadcast, sends
// the command once, and prints the correlated response.
//
// A Session is single threaded. Every transition happens inside Open,
// HandleMessage or HandleTimeout, which Run calls from one goroutine.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/channel"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/command"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/render"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/websockets"
	"go.uber.org/zap"
)

const (
	// DefaultAppName identifies this client to the server.
	DefaultAppName = "gpmdp_rc"

	// DefaultTimeout bounds how long a non-pairing session may take.
	DefaultTimeout = 4000 * time.Millisecond

	// CodeRequired is the connect channel payload asking for a pairing code.
	CodeRequired = "CODE_REQUIRED"
)

// Sender delivers a request to the server.
type Sender interface {
	Send(ctx context.Context, v any) error
}

// CodePrompter asks the user for the code GPMDP displays during pairing.
type CodePrompter interface {
	PromptCode(ctx context.Context) (string, error)
}

// Session is the state of one invocation.
type Session struct {
	logger   *zap.Logger
	cmd      *command.Command
	appName  string
	token    string
	timeout  time.Duration
	sender   Sender
	prompter CodePrompter
	renderer *render.Renderer
	store    *channel.Store

	state State
	pair  pairPhase
	ready bool // all required channels observed
	sent  bool // the command request went out
	err   error
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Done reports whether the session finished, successfully or not.
func (s *Session) Done() bool {
	return s.state.Terminal()
}

// Err returns the error that ended the session, if any.
func (s *Session) Err() error {
	return s.err
}

// Token returns the current token, which pairing replaces.
func (s *Session) Token() string {
	return s.token
}

// Store exposes the channel snapshots gathered so far.
func (s *Session) Store() *channel.Store {
	return s.store
}

// Watchdog reports whether the session is bounded by the timeout. Pairing
// waits on a human and is not.
func (s *Session) Watchdog() bool {
	return s.cmd.Kind != command.Pair
}

func (s *Session) transition(to State) {
	if s.state == to {
		return
	}
	s.logger.Debug("Session state change",
		zap.Stringer("from", s.state),
		zap.Stringer("to", to),
	)
	s.state = to
}

func (s *Session) fail(err error) error {
	if s.state.Terminal() {
		return s.err
	}
	s.err = err
	s.transition(StateError)
	return err
}

func (s *Session) finish() {
	s.transition(StateDone)
}

// Open sends the connect call. Commands that depend on no channel are
// dispatched immediately afterwards.
func (s *Session) Open(ctx context.Context) error {
	if s.state != StateConnecting {
		return fmt.Errorf("session already opened")
	}
	s.transition(StateAuthenticating)

	if s.cmd.Kind == command.Pair {
		s.pair = pairAwaitingCodeRequest
		err := s.sender.Send(ctx, websockets.Request{
			Namespace: "connect",
			Method:    "connect",
			RequestID: websockets.RequestID,
			Arguments: []any{s.appName},
		})
		if err != nil {
			return s.fail(fmt.Errorf("failed to send pairing request: %w", err))
		}
		return nil
	}

	err := s.sender.Send(ctx, websockets.Request{
		Namespace: "connect",
		Method:    "connect",
		Arguments: []any{s.appName, s.token},
	})
	if err != nil {
		return s.fail(fmt.Errorf("failed to send auth message: %w", err))
	}

	s.transition(StateAwaitingChannels)
	return s.checkChannels(ctx)
}

// HandleMessage processes one inbound text frame. Channel snapshots are
// updated before the dispatch check, so a command goes out on the first
// message that completes its required set.
func (s *Session) HandleMessage(ctx context.Context, data []byte) error {
	if s.state.Terminal() {
		return nil
	}

	msg, err := websockets.ParseInbound(data)
	if err != nil {
		return s.fail(fmt.Errorf("%w: %v", channel.ErrProtocol, err))
	}

	if msg.IsBroadcast() {
		if err := s.observe(ctx, channel.Label(msg.Channel), msg.Payload); err != nil {
			return s.fail(err)
		}
		if s.state.Terminal() {
			return s.err
		}
	}

	switch s.state {
	case StateAwaitingChannels:
		return s.checkChannels(ctx)

	case StateAwaitingResponse:
		if !msg.IsResponseTo(websockets.RequestID) {
			return nil
		}
		if (msg.Value == nil || channel.IsNull(msg.Value)) && s.cmd.Render != render.None {
			return s.fail(fmt.Errorf("%w: response to %s.%s has no value", channel.ErrProtocol, s.cmd.Namespace, s.cmd.Method))
		}
		s.logger.Debug("Received response", zap.String("method", s.cmd.Namespace+"."+s.cmd.Method))
		if err := s.renderer.Render(s.cmd.Render, msg.Value, s.store); err != nil {
			return s.fail(err)
		}
		s.finish()
	}

	return nil
}

// HandleTimeout is called when the watchdog fires.
func (s *Session) HandleTimeout() error {
	if s.state.Terminal() {
		return s.err
	}
	return s.fail(fmt.Errorf("%w while %s (observed channels: %v)", ErrTimeout, s.state, s.store.Observed().Labels()))
}

func (s *Session) observe(ctx context.Context, label channel.Label, payload json.RawMessage) error {
	if !s.store.Observe(label, payload) {
		return nil
	}

	switch label {
	case channel.APIVersion:
		s.logger.Debug("Server API version", zap.ByteString("version", payload))
	case channel.Connect:
		return s.handleConnect(ctx, payload)
	}
	return nil
}

func (s *Session) handleConnect(ctx context.Context, payload json.RawMessage) error {
	var value string
	if err := json.Unmarshal(payload, &value); err != nil {
		return fmt.Errorf("%w: connect channel: payload is not a string", channel.ErrProtocol)
	}

	switch s.pair {
	case pairNone:
		if value == CodeRequired {
			return fmt.Errorf("%w: token rejected by server, run auth to pair again", ErrUnauthorized)
		}

	case pairAwaitingCodeRequest:
		if value != CodeRequired {
			s.logger.Debug("Ignoring connect payload before code request")
			return nil
		}
		return s.sendCode(ctx)

	case pairAwaitingToken:
		if value == CodeRequired {
			return fmt.Errorf("%w: pairing code rejected", ErrUnauthorized)
		}
		s.token = value
		if err := s.renderer.Token(value); err != nil {
			return err
		}
		s.finish()
	}

	return nil
}

func (s *Session) sendCode(ctx context.Context) error {
	code, err := s.prompter.PromptCode(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pairing code: %w", err)
	}
	code = strings.TrimRight(code, "\r\n")

	s.pair = pairAwaitingToken
	err = s.sender.Send(ctx, websockets.Request{
		Namespace: "connect",
		Method:    "connect",
		RequestID: websockets.RequestID,
		Arguments: []any{s.appName, code},
	})
	if err != nil {
		return fmt.Errorf("failed to send pairing code: %w", err)
	}
	return nil
}

// checkChannels dispatches the command once its required channels are in.
func (s *Session) checkChannels(ctx context.Context) error {
	if s.ready || !s.store.HasAll(s.cmd.Required) {
		return nil
	}
	s.ready = true
	s.transition(StateDispatching)

	if err := s.dispatch(ctx); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *Session) dispatch(ctx context.Context) error {
	if s.cmd.Kind == command.ChannelOnly {
		payload, err := s.cmd.Snapshot(s.store)
		if err != nil {
			return err
		}
		if err := s.renderer.Render(s.cmd.Render, payload, s.store); err != nil {
			return err
		}
		s.finish()
		return nil
	}

	if s.sent {
		return nil
	}

	req, err := s.cmd.Build(s.store)
	if err != nil {
		return err
	}

	s.logger.Info("Sending command",
		zap.String("verb", s.cmd.Verb),
		zap.String("namespace", req.Namespace),
		zap.String("method", req.Method),
	)

	if err := s.sender.Send(ctx, req); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	s.sent = true
	s.transition(StateAwaitingResponse)
	return nil
}
