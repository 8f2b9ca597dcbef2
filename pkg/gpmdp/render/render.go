// Package render prints command results in the program's stdout format.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/channel"
	"go.uber.org/zap"
)

// Kind selects how a response value is printed.
type Kind int

const (
	None Kind = iota
	PlaybackState
	Volume
	Tracks
	Playlists
	SearchResults
	Lyrics
	Status
)

var kindNames = map[Kind]string{
	None:          "none",
	PlaybackState: "playback-state",
	Volume:        "volume",
	Tracks:        "tracks",
	Playlists:     "playlists",
	SearchResults: "search-results",
	Lyrics:        "lyrics",
	Status:        "status",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Renderer writes results to an output stream, either as human readable
// lines or, when a query is configured, as the JSON results of that query.
type Renderer struct {
	out    io.Writer
	logger *zap.Logger
	query  *Query
}

// NewRenderer returns a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out, logger: zap.NewNop()}
}

// WithLogger sets the logger.
func (r *Renderer) WithLogger(logger *zap.Logger) *Renderer {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithQuery switches the renderer to query output.
func (r *Renderer) WithQuery(q *Query) *Renderer {
	r.query = q
	return r
}

// Render prints value according to kind. Status additionally reads the
// channel snapshots in store.
func (r *Renderer) Render(kind Kind, value json.RawMessage, store *channel.Store) error {
	r.logger.Debug("Rendering result", zap.Stringer("kind", kind))

	if kind == None {
		return nil
	}

	if kind == Status {
		report, err := NewStatusReport(value, store)
		if err != nil {
			return err
		}
		if r.query != nil {
			return r.query.Run(r.out, report)
		}
		return report.Write(r.out)
	}

	if r.query != nil {
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("%w: %s value is not JSON: %v", channel.ErrProtocol, kind, err)
		}
		return r.query.Run(r.out, v)
	}

	switch kind {
	case PlaybackState:
		return r.playbackState(value)
	case Volume:
		return r.volume(value)
	case Tracks:
		return r.tracks(value)
	case Playlists:
		return r.playlists(value)
	case SearchResults:
		return r.searchResults(value)
	case Lyrics:
		return r.lyrics(value)
	}

	return fmt.Errorf("unsupported result kind %s", kind)
}

// Token prints a newly issued pairing token.
func (r *Renderer) Token(token string) error {
	_, err := fmt.Fprintf(r.out, "Token: %s\n", token)
	return err
}

func decodeValue(kind Kind, value json.RawMessage, v any) error {
	if channel.IsNull(value) {
		return fmt.Errorf("%w: %s value is null", channel.ErrProtocol, kind)
	}
	if err := json.Unmarshal(value, v); err != nil {
		return fmt.Errorf("%w: %s value: %v", channel.ErrProtocol, kind, err)
	}
	return nil
}

func stateName(state uint64) string {
	switch state {
	case 0:
		return "stopped"
	case 1:
		return "paused"
	case 2:
		return "playing"
	}
	return "unknown"
}

func (r *Renderer) playbackState(value json.RawMessage) error {
	var state uint64
	if err := decodeValue(PlaybackState, value, &state); err != nil {
		return err
	}
	_, err := fmt.Fprintf(r.out, "state: %s\n", stateName(state))
	return err
}

func (r *Renderer) volume(value json.RawMessage) error {
	var level uint64
	if err := decodeValue(Volume, value, &level); err != nil {
		return err
	}
	_, err := fmt.Fprintf(r.out, "%d\n", level)
	return err
}

func (r *Renderer) tracks(value json.RawMessage) error {
	items, err := channel.DecodeArray(channel.Queue, value)
	if err != nil {
		return err
	}
	return r.trackLines(1, items)
}

func (r *Renderer) trackLines(first int, items []json.RawMessage) error {
	for i, item := range items {
		t, err := channel.DecodeTrack(channel.Queue, item)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(r.out, "%d: %s | %s | %s\n", first+i, t.Artist, t.Album, t.Title); err != nil {
			return err
		}
	}
	return nil
}

type named struct {
	Name   *string `json:"name"`
	Artist *string `json:"artist"`
}

func decodeNamed(label channel.Label, item json.RawMessage, needArtist bool) (string, string, error) {
	var n named
	if err := json.Unmarshal(item, &n); err != nil {
		return "", "", fmt.Errorf("%w: %s entry: %v", channel.ErrProtocol, label, err)
	}
	if n.Name == nil {
		return "", "", fmt.Errorf("%w: %s entry: missing field \"name\"", channel.ErrProtocol, label)
	}
	if needArtist && n.Artist == nil {
		return "", "", fmt.Errorf("%w: %s entry: missing field \"artist\"", channel.ErrProtocol, label)
	}
	artist := ""
	if n.Artist != nil {
		artist = *n.Artist
	}
	return *n.Name, artist, nil
}

func (r *Renderer) playlists(value json.RawMessage) error {
	items, err := channel.DecodeArray(channel.Playlists, value)
	if err != nil {
		return err
	}
	for i, item := range items {
		name, _, err := decodeNamed(channel.Playlists, item, false)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(r.out, "%d: %s\n", i+1, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) searchResults(value json.RawMessage) error {
	groups, err := channel.DecodeSearchResults(channel.SearchResults, value)
	if err != nil {
		return err
	}

	n := 1
	for _, item := range groups.Artists {
		name, _, err := decodeNamed(channel.SearchResults, item, false)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(r.out, "%d: %s\n", n, name); err != nil {
			return err
		}
		n++
	}
	for _, item := range groups.Albums {
		name, artist, err := decodeNamed(channel.SearchResults, item, true)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(r.out, "%d: %s | %s\n", n, artist, name); err != nil {
			return err
		}
		n++
	}
	return r.trackLines(n, groups.Tracks)
}

func (r *Renderer) lyrics(value json.RawMessage) error {
	var text *string
	if err := json.Unmarshal(value, &text); err != nil {
		return fmt.Errorf("%w: %s value: %v", channel.ErrProtocol, Lyrics, err)
	}
	if text == nil || *text == "" {
		_, err := fmt.Fprintln(r.out, "Lyrics not available!")
		return err
	}
	_, err := fmt.Fprintln(r.out, *text)
	return err
}
