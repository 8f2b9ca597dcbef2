// Package command maps the verbs typed on the command line to GPMDP method
// calls, the channels that must be observed before each call can be formed,
// and the way its result is printed.
package command

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/channel"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/render"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/resolve"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/websockets"
)

var (
	// ErrUnknownCommand is returned for verbs outside the table.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidArgument is returned for missing, extra or malformed arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Kind classifies how a command's request is formed.
type Kind int

const (
	// Static commands carry everything they need in the table entry.
	Static Kind = iota
	// ChannelOnly commands print a channel snapshot and send nothing.
	ChannelOnly
	// QueueOrdinal, PlaylistOrdinal and SearchOrdinal send the object a
	// 1-based ordinal selects from the matching snapshot.
	QueueOrdinal
	PlaylistOrdinal
	SearchOrdinal
	// Seek sends the current position moved by an offset.
	Seek
	// Pair runs the interactive pairing handshake.
	Pair
)

// Command is one parsed invocation.
type Command struct {
	Verb      string
	Kind      Kind
	Namespace string
	Method    string
	Arguments []any

	Ordinal  int           // QueueOrdinal, PlaylistOrdinal, SearchOrdinal
	OffsetMS int64         // Seek
	Source   channel.Label // ChannelOnly

	Required channel.Mask
	Render   render.Kind
}

// Build forms the request for c from the snapshots in store. Ordinal and
// seek commands must only be built once their required channels have been
// observed.
func (c *Command) Build(store *channel.Store) (*websockets.Request, error) {
	req := &websockets.Request{
		Namespace: c.Namespace,
		Method:    c.Method,
		RequestID: websockets.RequestID,
	}

	switch c.Kind {
	case Static:
		req.Arguments = c.Arguments

	case QueueOrdinal:
		queue, err := store.Queue()
		if err != nil {
			return nil, err
		}
		track, err := resolve.QueueEntry(c.Ordinal, queue)
		if err != nil {
			return nil, err
		}
		req.Arguments = []any{track}

	case PlaylistOrdinal:
		playlists, err := store.PlaylistList()
		if err != nil {
			return nil, err
		}
		playlist, err := resolve.PlaylistEntry(c.Ordinal, playlists)
		if err != nil {
			return nil, err
		}
		req.Arguments = []any{playlist}

	case SearchOrdinal:
		results, err := store.Search()
		if err != nil {
			return nil, err
		}
		result, _, err := resolve.SearchEntry(c.Ordinal, results)
		if err != nil {
			return nil, err
		}
		req.Arguments = []any{result}

	case Seek:
		tm, err := store.Time()
		if err != nil {
			return nil, err
		}
		req.Arguments = []any{SeekPosition(tm.Current, tm.Total, c.OffsetMS)}

	default:
		return nil, fmt.Errorf("%s does not send a request", c.Verb)
	}

	return req, nil
}

// SeekPosition moves current by offset, clamped to [0, total].
func SeekPosition(current, total, offset int64) int64 {
	pos := current + offset
	if pos > total {
		pos = total
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

// Snapshot returns the payload a ChannelOnly command prints.
func (c *Command) Snapshot(store *channel.Store) (json.RawMessage, error) {
	if c.Kind != ChannelOnly {
		return nil, fmt.Errorf("%s is not a channel command", c.Verb)
	}
	payload, ok := store.Snapshot(c.Source)
	if !ok {
		return nil, fmt.Errorf("%w: %s", channel.ErrNotObserved, c.Source)
	}
	return payload, nil
}
