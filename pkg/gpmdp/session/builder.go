package session

import (
	"fmt"
	"time"

	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/channel"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/command"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/render"
	"go.uber.org/zap"
)

// SessionBuilder provides a fluent interface for building a Session.
type SessionBuilder struct {
	logger   *zap.Logger
	cmd      *command.Command
	appName  string
	token    string
	timeout  time.Duration
	sender   Sender
	prompter CodePrompter
	renderer *render.Renderer
}

// NewSession creates a new session builder.
func NewSession() *SessionBuilder {
	return &SessionBuilder{
		logger:  zap.NewNop(),
		appName: DefaultAppName,
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the session.
func (b *SessionBuilder) WithLogger(logger *zap.Logger) *SessionBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithCommand sets the parsed command the session runs.
func (b *SessionBuilder) WithCommand(cmd *command.Command) *SessionBuilder {
	b.cmd = cmd
	return b
}

// WithAppName overrides the application name sent on connect.
func (b *SessionBuilder) WithAppName(name string) *SessionBuilder {
	if name != "" {
		b.appName = name
	}
	return b
}

// WithToken sets the token used to authenticate.
func (b *SessionBuilder) WithToken(token string) *SessionBuilder {
	b.token = token
	return b
}

// WithTimeout sets the watchdog duration.
func (b *SessionBuilder) WithTimeout(timeout time.Duration) *SessionBuilder {
	if timeout > 0 {
		b.timeout = timeout
	}
	return b
}

// WithSender sets where requests are sent.
func (b *SessionBuilder) WithSender(sender Sender) *SessionBuilder {
	b.sender = sender
	return b
}

// WithPrompter sets the pairing code source.
func (b *SessionBuilder) WithPrompter(prompter CodePrompter) *SessionBuilder {
	b.prompter = prompter
	return b
}

// WithRenderer sets the result renderer.
func (b *SessionBuilder) WithRenderer(renderer *render.Renderer) *SessionBuilder {
	b.renderer = renderer
	return b
}

// Build creates the session.
func (b *SessionBuilder) Build() (*Session, error) {
	if err := b.IsValid(); err != nil {
		return nil, err
	}

	return &Session{
		logger:   b.logger.With(zap.String("command", b.cmd.Verb)),
		cmd:      b.cmd,
		appName:  b.appName,
		token:    b.token,
		timeout:  b.timeout,
		sender:   b.sender,
		prompter: b.prompter,
		renderer: b.renderer,
		store:    channel.NewStore(b.logger),
		state:    StateConnecting,
	}, nil
}

// IsValid checks that all required configuration is present.
func (b *SessionBuilder) IsValid() error {
	if b.cmd == nil {
		return fmt.Errorf("command is required")
	}

	if b.sender == nil {
		return fmt.Errorf("sender is required")
	}

	if b.renderer == nil {
		return fmt.Errorf("renderer is required")
	}

	if b.cmd.Kind == command.Pair {
		if b.prompter == nil {
			return fmt.Errorf("prompter is required for pairing")
		}
	} else if b.token == "" {
		return fmt.Errorf("token is required, run auth to obtain one")
	}

	return nil
}
