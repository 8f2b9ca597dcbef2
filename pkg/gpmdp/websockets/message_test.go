package websockets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestEncoding(t *testing.T) {
	t.Run("arguments omitted when empty", func(t *testing.T) {
		data, err := json.Marshal(Request{Namespace: "playback", Method: "forward", RequestID: RequestID})
		require.NoError(t, err)
		assert.JSONEq(t, `{"namespace":"playback","method":"forward","requestID":13}`, string(data))
	})

	t.Run("arguments included", func(t *testing.T) {
		data, err := json.Marshal(Request{
			Namespace: "volume",
			Method:    "setVolume",
			RequestID: RequestID,
			Arguments: []any{100},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"namespace":"volume","method":"setVolume","requestID":13,"arguments":[100]}`, string(data))
	})

	t.Run("token connect has no request id", func(t *testing.T) {
		data, err := json.Marshal(Request{Namespace: "connect", Method: "connect", Arguments: []any{"app", "tok"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"namespace":"connect","method":"connect","arguments":["app","tok"]}`, string(data))
	})

	t.Run("raw objects are embedded verbatim", func(t *testing.T) {
		data, err := json.Marshal(Request{
			Namespace: "queue",
			Method:    "playTrack",
			RequestID: RequestID,
			Arguments: []any{json.RawMessage(`{"id":"abc","title":"Song"}`)},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"namespace":"queue","method":"playTrack","requestID":13,"arguments":[{"id":"abc","title":"Song"}]}`, string(data))
	})
}

func TestParseInbound(t *testing.T) {
	t.Run("broadcast", func(t *testing.T) {
		msg, err := ParseInbound([]byte(`{"channel":"volume","payload":42}`))
		require.NoError(t, err)
		assert.True(t, msg.IsBroadcast())
		assert.False(t, msg.IsResponseTo(RequestID))
		assert.JSONEq(t, `42`, string(msg.Payload))
	})

	t.Run("response", func(t *testing.T) {
		msg, err := ParseInbound([]byte(`{"namespace":"volume","method":"getVolume","requestID":13,"value":42,"type":"return"}`))
		require.NoError(t, err)
		assert.False(t, msg.IsBroadcast())
		assert.True(t, msg.IsResponseTo(RequestID))
		assert.False(t, msg.IsResponseTo(14))
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseInbound([]byte(`{"channel":`))
		assert.Error(t, err)
	})
}
