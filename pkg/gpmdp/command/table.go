package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/channel"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/render"
)

const (
	// VolumeStep is the change applied by "volume up" and "volume down".
	VolumeStep = 10
	// SeekStepMS is the offset applied by "seek forward" and "seek backward".
	SeekStepMS = 10000
	// MaxVolume is the upper bound for "volume <level>".
	MaxVolume = 100
)

// StatusChannels are the channels the status report is built from.
const StatusChannels = channel.BitPlayState |
	channel.BitTrack |
	channel.BitTime |
	channel.BitRating |
	channel.BitShuffle |
	channel.BitRepeat |
	channel.BitQueue |
	channel.BitVolume

// Entry describes one verb.
type Entry struct {
	Verb  string
	Usage string
	Short string
	parse func(args []string) (*Command, error)
}

var table = []Entry{
	{"auth", "auth", "Pair with GPMDP and print a new token", parseAuth},
	{"status", "status", "Show the playback status", parseStatus},
	{"play", "play [<track#>]", "Toggle playback, or play a queued track", parsePlay},
	{"pause", "pause", "Toggle playback", fixed("playback", "playPause")},
	{"next", "next", "Skip to the next track", fixed("playback", "forward")},
	{"prev", "prev", "Go back to the previous track", fixed("playback", "rewind")},
	{"replay", "replay", "Restart the current track", fixed("playback", "setCurrentTime", int64(0))},
	{"seek", "seek <+secs|-secs|forward|backward>", "Seek within the current track", parseSeek},
	{"lyrics", "lyrics", "Show the lyrics of the current track", snapshot(channel.Lyrics, channel.BitLyrics, render.Lyrics)},
	{"thumbs", "thumbs <up|down>", "Toggle a thumbs rating", parseThumbs},
	{"shuffle", "shuffle <on|off>", "Set the shuffle mode", parseShuffle},
	{"repeat", "repeat <all|single|off>", "Set the repeat mode", parseRepeat},
	{"queue", "queue", "List the play queue", snapshot(channel.Queue, channel.BitQueue, render.Tracks)},
	{"clear", "clear", "Clear the play queue", fixed("queue", "clear")},
	{"playlists", "playlists", "List the playlists", snapshot(channel.Playlists, channel.BitPlaylists, render.Playlists)},
	{"playlist", "playlist <playlist#>", "Play a playlist", parsePlaylist},
	{"search", `search "<text>"`, "Search the library", parseSearch},
	{"results", "results [<result#>]", "List the last search results, or play one", parseResults},
	{"volume", "volume [<0-100>|up|down]", "Show or change the volume", parseVolume},
}

// Entries returns the table in display order.
func Entries() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// Lookup returns the entry for verb.
func Lookup(verb string) (Entry, bool) {
	for _, e := range table {
		if e.Verb == verb {
			return e, true
		}
	}
	return Entry{}, false
}

// Parse parses a verb and its arguments.
func Parse(argv []string) (*Command, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: no command given", ErrInvalidArgument)
	}

	e, ok := Lookup(argv[0])
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCommand, argv[0])
	}

	cmd, err := e.parse(argv[1:])
	if err != nil {
		return nil, err
	}
	cmd.Verb = e.Verb
	return cmd, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func noArgs(args []string) error {
	if len(args) > 0 {
		return invalid("unexpected argument %q", args[0])
	}
	return nil
}

// oneArg returns the single argument, or an error naming what was expected.
func oneArg(args []string, what string) (string, error) {
	switch len(args) {
	case 0:
		return "", invalid("must provide %s", what)
	case 1:
		return args[0], nil
	}
	return "", invalid("unexpected argument %q", args[1])
}

func parseOrdinal(s, what string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, invalid("failed to parse %s number %q", what, s)
	}
	return int(n), nil
}

func fixed(namespace, method string, arguments ...any) func([]string) (*Command, error) {
	return func(args []string) (*Command, error) {
		if err := noArgs(args); err != nil {
			return nil, err
		}
		return &Command{
			Kind:      Static,
			Namespace: namespace,
			Method:    method,
			Arguments: arguments,
		}, nil
	}
}

func snapshot(source channel.Label, required channel.Mask, kind render.Kind) func([]string) (*Command, error) {
	return func(args []string) (*Command, error) {
		if err := noArgs(args); err != nil {
			return nil, err
		}
		return &Command{
			Kind:     ChannelOnly,
			Source:   source,
			Required: required,
			Render:   kind,
		}, nil
	}
}

// choice maps a mode word to a method argument.
func choice(args []string, what string, options map[string]string) (string, error) {
	arg, err := oneArg(args, what)
	if err != nil {
		return "", err
	}
	v, ok := options[arg]
	if !ok {
		return "", invalid("invalid %s %q", what, arg)
	}
	return v, nil
}

func parseAuth(args []string) (*Command, error) {
	if err := noArgs(args); err != nil {
		return nil, err
	}
	return &Command{Kind: Pair, Namespace: "connect", Method: "connect"}, nil
}

func parseStatus(args []string) (*Command, error) {
	if err := noArgs(args); err != nil {
		return nil, err
	}
	return &Command{
		Kind:      Static,
		Namespace: "playback",
		Method:    "getPlaybackState",
		Required:  StatusChannels,
		Render:    render.Status,
	}, nil
}

func parsePlay(args []string) (*Command, error) {
	if len(args) == 0 {
		return fixed("playback", "playPause")(args)
	}
	arg, err := oneArg(args, "a track number")
	if err != nil {
		return nil, err
	}
	n, err := parseOrdinal(arg, "track")
	if err != nil {
		return nil, err
	}
	return &Command{
		Kind:      QueueOrdinal,
		Namespace: "queue",
		Method:    "playTrack",
		Ordinal:   n,
		Required:  channel.BitQueue,
	}, nil
}

func parseSeek(args []string) (*Command, error) {
	arg, err := oneArg(args, "a seek value")
	if err != nil {
		return nil, err
	}

	var offset int64
	switch arg {
	case "forward":
		offset = SeekStepMS
	case "backward":
		offset = -SeekStepMS
	default:
		secs, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			return nil, invalid("failed to parse seek value %q", arg)
		}
		offset = secs * 1000
	}

	return &Command{
		Kind:      Seek,
		Namespace: "playback",
		Method:    "setCurrentTime",
		OffsetMS:  offset,
		Required:  channel.BitTime,
	}, nil
}

func parseThumbs(args []string) (*Command, error) {
	method, err := choice(args, "thumbs rating", map[string]string{
		"up":   "toggleThumbsUp",
		"down": "toggleThumbsDown",
	})
	if err != nil {
		return nil, err
	}
	return &Command{Kind: Static, Namespace: "rating", Method: method}, nil
}

func parseShuffle(args []string) (*Command, error) {
	mode, err := choice(args, "shuffle mode", map[string]string{
		"on":  "ALL_SHUFFLE",
		"off": "NO_SHUFFLE",
	})
	if err != nil {
		return nil, err
	}
	return &Command{Kind: Static, Namespace: "playback", Method: "setShuffle", Arguments: []any{mode}}, nil
}

func parseRepeat(args []string) (*Command, error) {
	mode, err := choice(args, "repeat mode", map[string]string{
		"all":    "LIST_REPEAT",
		"single": "SINGLE_REPEAT",
		"off":    "NO_REPEAT",
	})
	if err != nil {
		return nil, err
	}
	return &Command{Kind: Static, Namespace: "playback", Method: "setRepeat", Arguments: []any{mode}}, nil
}

func parsePlaylist(args []string) (*Command, error) {
	arg, err := oneArg(args, "a playlist number")
	if err != nil {
		return nil, err
	}
	n, err := parseOrdinal(arg, "playlist")
	if err != nil {
		return nil, err
	}
	return &Command{
		Kind:      PlaylistOrdinal,
		Namespace: "playlists",
		Method:    "play",
		Ordinal:   n,
		Required:  channel.BitPlaylists,
	}, nil
}

func parseSearch(args []string) (*Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return nil, invalid("must provide search string")
	}
	return &Command{
		Kind:      Static,
		Namespace: "search",
		Method:    "performSearch",
		Arguments: []any{text},
		Render:    render.SearchResults,
	}, nil
}

func parseResults(args []string) (*Command, error) {
	if len(args) == 0 {
		return snapshot(channel.SearchResults, channel.BitSearchResults, render.SearchResults)(args)
	}
	arg, err := oneArg(args, "a result number")
	if err != nil {
		return nil, err
	}
	n, err := parseOrdinal(arg, "result")
	if err != nil {
		return nil, err
	}
	return &Command{
		Kind:      SearchOrdinal,
		Namespace: "search",
		Method:    "playResult",
		Ordinal:   n,
		Required:  channel.BitSearchResults,
	}, nil
}

func parseVolume(args []string) (*Command, error) {
	if len(args) == 0 {
		return &Command{Kind: Static, Namespace: "volume", Method: "getVolume", Render: render.Volume}, nil
	}
	arg, err := oneArg(args, "a volume level")
	if err != nil {
		return nil, err
	}

	switch arg {
	case "up":
		return &Command{Kind: Static, Namespace: "volume", Method: "increaseVolume", Arguments: []any{int64(VolumeStep)}}, nil
	case "down":
		return &Command{Kind: Static, Namespace: "volume", Method: "decreaseVolume", Arguments: []any{int64(VolumeStep)}}, nil
	}

	level, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return nil, invalid("failed to parse volume level %q", arg)
	}
	if level > MaxVolume {
		level = MaxVolume
	}
	return &Command{Kind: Static, Namespace: "volume", Method: "setVolume", Arguments: []any{int64(level)}}, nil
}
