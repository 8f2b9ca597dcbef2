package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/channel"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/command"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/render"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/resolve"
	"go.uber.org/zap/zaptest"
)

type recordingSender struct {
	sent []string
	err  error
}

func (r *recordingSender) Send(ctx context.Context, v any) error {
	if r.err != nil {
		return r.err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.sent = append(r.sent, string(data))
	return nil
}

type staticPrompter struct {
	code  string
	calls int
}

func (p *staticPrompter) PromptCode(ctx context.Context) (string, error) {
	p.calls++
	return p.code, nil
}

type fixture struct {
	session  *Session
	sender   *recordingSender
	prompter *staticPrompter
	out      *bytes.Buffer
}

func newFixture(t *testing.T, argv ...string) *fixture {
	t.Helper()

	cmd, err := command.Parse(argv)
	require.NoError(t, err)

	f := &fixture{
		sender:   &recordingSender{},
		prompter: &staticPrompter{code: "1234\r\n"},
		out:      &bytes.Buffer{},
	}
	f.session, err = NewSession().
		WithLogger(zaptest.NewLogger(t)).
		WithCommand(cmd).
		WithToken("secret").
		WithSender(f.sender).
		WithPrompter(f.prompter).
		WithRenderer(render.NewRenderer(f.out)).
		Build()
	require.NoError(t, err)
	return f
}

func (f *fixture) open(t *testing.T) {
	t.Helper()
	require.NoError(t, f.session.Open(context.Background()))
}

func (f *fixture) recv(t *testing.T, msg string) error {
	t.Helper()
	return f.session.HandleMessage(context.Background(), []byte(msg))
}

const authFrame = `{"namespace":"connect","method":"connect","arguments":["gpmdp_rc","secret"]}`

func TestSessionBuilder(t *testing.T) {
	cmd, err := command.Parse([]string{"next"})
	require.NoError(t, err)
	pair, err := command.Parse([]string{"auth"})
	require.NoError(t, err)
	renderer := render.NewRenderer(&bytes.Buffer{})

	t.Run("defaults", func(t *testing.T) {
		s, err := NewSession().
			WithCommand(cmd).
			WithToken("tok").
			WithSender(&recordingSender{}).
			WithRenderer(renderer).
			Build()
		require.NoError(t, err)
		assert.Equal(t, DefaultAppName, s.appName)
		assert.Equal(t, DefaultTimeout, s.timeout)
		assert.Equal(t, StateConnecting, s.State())
		assert.True(t, s.Watchdog())
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := NewSession().WithCommand(cmd).WithSender(&recordingSender{}).WithRenderer(renderer).Build()
		assert.ErrorContains(t, err, "token is required")
	})

	t.Run("pairing needs no token but a prompter", func(t *testing.T) {
		_, err := NewSession().WithCommand(pair).WithSender(&recordingSender{}).WithRenderer(renderer).Build()
		assert.ErrorContains(t, err, "prompter is required")

		s, err := NewSession().
			WithCommand(pair).
			WithSender(&recordingSender{}).
			WithRenderer(renderer).
			WithPrompter(&staticPrompter{}).
			Build()
		require.NoError(t, err)
		assert.False(t, s.Watchdog())
	})

	t.Run("missing parts", func(t *testing.T) {
		_, err := NewSession().Build()
		assert.ErrorContains(t, err, "command is required")
		_, err = NewSession().WithCommand(cmd).Build()
		assert.ErrorContains(t, err, "sender is required")
		_, err = NewSession().WithCommand(cmd).WithSender(&recordingSender{}).Build()
		assert.ErrorContains(t, err, "renderer is required")
	})
}

func TestImmediateDispatch(t *testing.T) {
	f := newFixture(t, "next")
	f.open(t)

	require.Len(t, f.sender.sent, 2)
	assert.JSONEq(t, authFrame, f.sender.sent[0])
	assert.JSONEq(t, `{"namespace":"playback","method":"forward","requestID":13}`, f.sender.sent[1])
	assert.Equal(t, StateAwaitingResponse, f.session.State())

	// Broadcasts after dispatch never resend.
	require.NoError(t, f.recv(t, `{"channel":"playState","payload":true}`))
	require.NoError(t, f.recv(t, `{"channel":"queue","payload":[]}`))
	assert.Len(t, f.sender.sent, 2)

	require.NoError(t, f.recv(t, `{"namespace":"playback","method":"forward","requestID":13,"value":null,"type":"return"}`))
	assert.True(t, f.session.Done())
	assert.NoError(t, f.session.Err())
	assert.Empty(t, f.out.String())
}

func TestGatedDispatch(t *testing.T) {
	f := newFixture(t, "status")
	f.open(t)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, StateAwaitingChannels, f.session.State())

	broadcasts := []string{
		`{"channel":"API_VERSION","payload":"1.1.0"}`,
		`{"channel":"playState","payload":true}`,
		`{"channel":"track","payload":{"artist":"A2","album":"B2","title":"C2"}}`,
		`{"channel":"time","payload":{"current":45000,"total":125000}}`,
		`{"channel":"rating","payload":{"liked":false,"disliked":false}}`,
		`{"channel":"shuffle","payload":"ALL_SHUFFLE"}`,
		`{"channel":"repeat","payload":"LIST_REPEAT"}`,
		`{"channel":"queue","payload":[{"artist":"A1","album":"B1","title":"C1"},{"artist":"A2","album":"B2","title":"C2"},{"artist":"A3","album":"B3","title":"C3"}]}`,
	}
	for _, b := range broadcasts {
		require.NoError(t, f.recv(t, b))
		assert.Len(t, f.sender.sent, 1, "sent before all channels arrived: %s", b)
	}

	// A stray response before the command went out is not ours.
	require.NoError(t, f.recv(t, `{"requestID":13,"value":2}`))
	assert.False(t, f.session.Done())

	require.NoError(t, f.recv(t, `{"channel":"volume","payload":70}`))
	require.Len(t, f.sender.sent, 2)
	assert.JSONEq(t, `{"namespace":"playback","method":"getPlaybackState","requestID":13}`, f.sender.sent[1])

	// Repeated broadcasts do not dispatch again.
	require.NoError(t, f.recv(t, `{"channel":"volume","payload":75}`))
	assert.Len(t, f.sender.sent, 2)

	require.NoError(t, f.recv(t, `{"requestID":12,"value":0}`))
	assert.False(t, f.session.Done())

	require.NoError(t, f.recv(t, `{"requestID":13,"value":2}`))
	assert.True(t, f.session.Done())
	assert.Equal(t, `state: playing
artist: A2
album: B2
title: C2
time_elapsed_fmt: 0:45
time_elapsed_secs: 45
time_total_fmt: 2:05
time_total_secs: 125
rating: none
volume: 75
shuffle: on
repeat: all
queue_track: 2
queue_length: 3
`, f.out.String())

	// Nothing is processed after done.
	require.NoError(t, f.recv(t, `{"requestID":13,"value":0}`))
	assert.Contains(t, f.out.String(), "state: playing")
	assert.NotContains(t, f.out.String(), "state: stopped")
}

func TestChannelOnlyCommands(t *testing.T) {
	t.Run("queue renders without a request", func(t *testing.T) {
		f := newFixture(t, "queue")
		f.open(t)

		require.NoError(t, f.recv(t, `{"channel":"playState","payload":false}`))
		assert.False(t, f.session.Done())

		require.NoError(t, f.recv(t, `{"channel":"queue","payload":[{"artist":"A","album":"B","title":"C"}]}`))
		assert.True(t, f.session.Done())
		assert.Len(t, f.sender.sent, 1)
		assert.Equal(t, "1: A | B | C\n", f.out.String())
	})

	t.Run("lyrics", func(t *testing.T) {
		f := newFixture(t, "lyrics")
		f.open(t)
		require.NoError(t, f.recv(t, `{"channel":"lyrics","payload":null}`))
		assert.True(t, f.session.Done())
		assert.Equal(t, "Lyrics not available!\n", f.out.String())
	})

	t.Run("results without a number", func(t *testing.T) {
		f := newFixture(t, "results")
		f.open(t)
		require.NoError(t, f.recv(t, `{"channel":"search-results","payload":{"searchText":"x","artists":[{"name":"N"}],"albums":[],"tracks":[]}}`))
		assert.True(t, f.session.Done())
		assert.Equal(t, "1: N\n", f.out.String())
	})
}

func TestResolvedDispatch(t *testing.T) {
	t.Run("queue ordinal", func(t *testing.T) {
		f := newFixture(t, "play", "2")
		f.open(t)
		assert.Len(t, f.sender.sent, 1)

		require.NoError(t, f.recv(t, `{"channel":"queue","payload":[{"id":"a"},{"id":"b"}]}`))
		require.Len(t, f.sender.sent, 2)
		assert.JSONEq(t, `{"namespace":"queue","method":"playTrack","requestID":13,"arguments":[{"id":"b"}]}`, f.sender.sent[1])
	})

	t.Run("search ordinal across groups", func(t *testing.T) {
		f := newFixture(t, "results", "4")
		f.open(t)

		require.NoError(t, f.recv(t, `{"channel":"search-results","payload":{"artists":[{"id":"ar1"},{"id":"ar2"}],"albums":[{"id":"al1"}],"tracks":[{"id":"t1"},{"id":"t2"},{"id":"t3"}]}}`))
		require.Len(t, f.sender.sent, 2)
		assert.JSONEq(t, `{"namespace":"search","method":"playResult","requestID":13,"arguments":[{"id":"t1"}]}`, f.sender.sent[1])
	})

	t.Run("out of range ordinal fails without sending", func(t *testing.T) {
		f := newFixture(t, "playlist", "3")
		f.open(t)

		err := f.recv(t, `{"channel":"playlists","payload":[{"id":"p1","name":"One"},{"id":"p2","name":"Two"}]}`)
		assert.ErrorIs(t, err, resolve.ErrOutOfRange)
		assert.Equal(t, StateError, f.session.State())
		assert.ErrorIs(t, f.session.Err(), resolve.ErrOutOfRange)
		assert.Len(t, f.sender.sent, 1)

		// Messages after the failure are ignored.
		assert.NoError(t, f.recv(t, `{"channel":"playlists","payload":[]}`))
		assert.Len(t, f.sender.sent, 1)
	})

	t.Run("seek uses the first time broadcast", func(t *testing.T) {
		f := newFixture(t, "seek", "forward")
		f.open(t)

		require.NoError(t, f.recv(t, `{"channel":"time","payload":{"current":115000,"total":120000}}`))
		require.Len(t, f.sender.sent, 2)
		assert.JSONEq(t, `{"namespace":"playback","method":"setCurrentTime","requestID":13,"arguments":[120000]}`, f.sender.sent[1])

		require.NoError(t, f.recv(t, `{"channel":"time","payload":{"current":116000,"total":120000}}`))
		assert.Len(t, f.sender.sent, 2)
	})

	t.Run("volume clamps", func(t *testing.T) {
		f := newFixture(t, "volume", "150")
		f.open(t)
		require.Len(t, f.sender.sent, 2)
		assert.JSONEq(t, `{"namespace":"volume","method":"setVolume","requestID":13,"arguments":[100]}`, f.sender.sent[1])
	})

	t.Run("volume query renders the response", func(t *testing.T) {
		f := newFixture(t, "volume")
		f.open(t)
		require.NoError(t, f.recv(t, `{"requestID":13,"value":42}`))
		assert.Equal(t, "42\n", f.out.String())
	})
}

func TestProtocolViolations(t *testing.T) {
	t.Run("malformed frame", func(t *testing.T) {
		f := newFixture(t, "next")
		f.open(t)
		assert.ErrorIs(t, f.recv(t, `{"channel":`), channel.ErrProtocol)
		assert.Equal(t, StateError, f.session.State())
	})

	t.Run("response without value", func(t *testing.T) {
		f := newFixture(t, "volume")
		f.open(t)
		assert.ErrorIs(t, f.recv(t, `{"requestID":13}`), channel.ErrProtocol)
	})

	t.Run("null response value for a printing command", func(t *testing.T) {
		f := newFixture(t, "volume")
		f.open(t)
		assert.ErrorIs(t, f.recv(t, `{"requestID":13,"value":null}`), channel.ErrProtocol)
		assert.Equal(t, StateError, f.session.State())
		assert.Empty(t, f.out.String())
	})

	t.Run("null time never produces a seek", func(t *testing.T) {
		f := newFixture(t, "seek", "forward")
		f.open(t)
		assert.ErrorIs(t, f.recv(t, `{"channel":"time","payload":{"current":null,"total":null}}`), channel.ErrProtocol)
		assert.Len(t, f.sender.sent, 1)
	})

	t.Run("void response completes a command that prints nothing", func(t *testing.T) {
		f := newFixture(t, "next")
		f.open(t)
		require.NoError(t, f.recv(t, `{"namespace":"playback","method":"forward","requestID":13,"type":"return"}`))
		assert.True(t, f.session.Done())
		assert.Empty(t, f.out.String())
	})

	t.Run("time channel missing total", func(t *testing.T) {
		f := newFixture(t, "seek", "10")
		f.open(t)
		assert.ErrorIs(t, f.recv(t, `{"channel":"time","payload":{"current":1}}`), channel.ErrProtocol)
		assert.Len(t, f.sender.sent, 1)
	})
}

func TestTokenRejected(t *testing.T) {
	f := newFixture(t, "status")
	f.open(t)

	err := f.recv(t, `{"channel":"connect","payload":"CODE_REQUIRED"}`)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, StateError, f.session.State())
}

func TestPairing(t *testing.T) {
	f := newFixture(t, "auth")
	f.open(t)

	require.Len(t, f.sender.sent, 1)
	assert.JSONEq(t, `{"namespace":"connect","method":"connect","requestID":13,"arguments":["gpmdp_rc"]}`, f.sender.sent[0])
	assert.Equal(t, StateAuthenticating, f.session.State())

	require.NoError(t, f.recv(t, `{"channel":"playState","payload":false}`))
	assert.Equal(t, 0, f.prompter.calls)

	require.NoError(t, f.recv(t, `{"channel":"connect","payload":"CODE_REQUIRED"}`))
	assert.Equal(t, 1, f.prompter.calls)
	require.Len(t, f.sender.sent, 2)
	assert.JSONEq(t, `{"namespace":"connect","method":"connect","requestID":13,"arguments":["gpmdp_rc","1234"]}`, f.sender.sent[1])

	require.NoError(t, f.recv(t, `{"channel":"connect","payload":"new-token-value"}`))
	assert.True(t, f.session.Done())
	assert.NoError(t, f.session.Err())
	assert.Equal(t, "new-token-value", f.session.Token())
	assert.Equal(t, "Token: new-token-value\n", f.out.String())
	assert.Len(t, f.sender.sent, 2)
}

func TestPairingCodeRejected(t *testing.T) {
	f := newFixture(t, "auth")
	f.open(t)

	require.NoError(t, f.recv(t, `{"channel":"connect","payload":"CODE_REQUIRED"}`))
	err := f.recv(t, `{"channel":"connect","payload":"CODE_REQUIRED"}`)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, f.prompter.calls)
}

func TestSendFailure(t *testing.T) {
	f := newFixture(t, "next")
	f.sender.err = errors.New("broken pipe")

	err := f.session.Open(context.Background())
	assert.ErrorContains(t, err, "broken pipe")
	assert.Equal(t, StateError, f.session.State())
}

func TestHandleTimeout(t *testing.T) {
	f := newFixture(t, "seek", "forward")
	f.open(t)

	err := f.session.HandleTimeout()
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "awaiting-channels")

	// Firing after done is harmless.
	g := newFixture(t, "volume")
	g.open(t)
	require.NoError(t, g.recv(t, `{"requestID":13,"value":1}`))
	assert.NoError(t, g.session.HandleTimeout())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting-response", StateAwaitingResponse.String())
	assert.Equal(t, "State(42)", State(42).String())
	assert.True(t, StateDone.Terminal())
	assert.False(t, StateDispatching.Terminal())
}
