// Package resolve turns the 1-based ordinals a user types into the full
// objects the server expects, using previously observed channel snapshots.
package resolve

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/channel"
)

// ErrOutOfRange is returned when an ordinal does not select any element.
var ErrOutOfRange = errors.New("ordinal out of range")

// Group names the search result group an ordinal fell into.
type Group string

const (
	GroupArtist Group = "artist"
	GroupAlbum  Group = "album"
	GroupTrack  Group = "track"
)

func nth(what string, ordinal int, items []json.RawMessage) (json.RawMessage, error) {
	if ordinal < 1 || ordinal > len(items) {
		return nil, fmt.Errorf("%w: %s %d (have %d)", ErrOutOfRange, what, ordinal, len(items))
	}
	return items[ordinal-1], nil
}

// QueueEntry returns the Track at ordinal in the queue snapshot.
func QueueEntry(ordinal int, queue []json.RawMessage) (json.RawMessage, error) {
	return nth("track", ordinal, queue)
}

// PlaylistEntry returns the Playlist at ordinal in the playlists snapshot.
func PlaylistEntry(ordinal int, playlists []json.RawMessage) (json.RawMessage, error) {
	return nth("playlist", ordinal, playlists)
}

// SearchEntry returns the search result at ordinal, numbering artists first,
// then albums, then tracks.
func SearchEntry(ordinal int, results channel.SearchGroups) (json.RawMessage, Group, error) {
	total := len(results.Artists) + len(results.Albums) + len(results.Tracks)
	if ordinal < 1 || ordinal > total {
		return nil, "", fmt.Errorf("%w: result %d (have %d)", ErrOutOfRange, ordinal, total)
	}

	i := ordinal - 1
	if i < len(results.Artists) {
		return results.Artists[i], GroupArtist, nil
	}
	i -= len(results.Artists)
	if i < len(results.Albums) {
		return results.Albums[i], GroupAlbum, nil
	}
	i -= len(results.Albums)
	return results.Tracks[i], GroupTrack, nil
}
