package channel

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrProtocol marks an inbound payload that lacks a field the protocol
	// guarantees, or carries it with the wrong type.
	ErrProtocol = errors.New("protocol violation")

	// ErrNotObserved is returned when a payload is requested for a channel
	// that has not been broadcast yet.
	ErrNotObserved = errors.New("channel not observed")
)

// TrackInfo is the subset of a Track object used for display and matching.
// Null fields decode as empty strings.
type TrackInfo struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Title  string `json:"title"`
}

// TimeInfo is the payload of the time channel, in milliseconds.
type TimeInfo struct {
	Current int64
	Total   int64
}

// RatingInfo is the payload of the rating channel.
type RatingInfo struct {
	Liked    bool
	Disliked bool
}

// SearchGroups holds the three result groups of the search-results channel
// in the order they are numbered for the user.
type SearchGroups struct {
	Artists []json.RawMessage `json:"artists"`
	Albums  []json.RawMessage `json:"albums"`
	Tracks  []json.RawMessage `json:"tracks"`
}

func protocolError(label Label, format string, args ...any) error {
	return fmt.Errorf("%w: %s channel: %s", ErrProtocol, label, fmt.Sprintf(format, args...))
}

func (s *Store) payload(label Label) (json.RawMessage, error) {
	payload, ok := s.snapshots[label]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotObserved, label)
	}
	return payload, nil
}

// decodeObject decodes payload as a JSON object and checks that every listed
// field is present, even if null.
func decodeObject(label Label, payload json.RawMessage, fields ...string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		return nil, protocolError(label, "payload is not an object")
	}
	for _, f := range fields {
		if _, ok := obj[f]; !ok {
			return nil, protocolError(label, "missing field %q", f)
		}
	}
	return obj, nil
}

// IsNull reports whether raw is the JSON literal null.
func IsNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeField decodes a field that must carry a value.
func decodeField(label Label, obj map[string]json.RawMessage, field string, v any) error {
	if IsNull(obj[field]) {
		return protocolError(label, "field %q is null", field)
	}
	return decodeNullable(label, obj, field, v)
}

// decodeNullable decodes a field that may be null.
func decodeNullable(label Label, obj map[string]json.RawMessage, field string, v any) error {
	if err := json.Unmarshal(obj[field], v); err != nil {
		return protocolError(label, "field %q: %v", field, err)
	}
	return nil
}

// DecodeTrack decodes a single Track object. The artist, album and title
// fields must be present; any of them may be null.
func DecodeTrack(label Label, payload json.RawMessage) (TrackInfo, error) {
	obj, err := decodeObject(label, payload, "artist", "album", "title")
	if err != nil {
		return TrackInfo{}, err
	}

	var t TrackInfo
	var artist, album, title *string
	if err := decodeNullable(label, obj, "artist", &artist); err != nil {
		return t, err
	}
	if err := decodeNullable(label, obj, "album", &album); err != nil {
		return t, err
	}
	if err := decodeNullable(label, obj, "title", &title); err != nil {
		return t, err
	}
	if artist != nil {
		t.Artist = *artist
	}
	if album != nil {
		t.Album = *album
	}
	if title != nil {
		t.Title = *title
	}
	return t, nil
}

// DecodeArray decodes payload as a JSON array of raw elements.
func DecodeArray(label Label, payload json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil || items == nil {
		return nil, protocolError(label, "payload is not an array")
	}
	return items, nil
}

// DecodeSearchResults decodes a search results object. All three groups
// must be present as arrays.
func DecodeSearchResults(label Label, payload json.RawMessage) (SearchGroups, error) {
	obj, err := decodeObject(label, payload, "artists", "albums", "tracks")
	if err != nil {
		return SearchGroups{}, err
	}

	var r SearchGroups
	for field, dst := range map[string]*[]json.RawMessage{
		"artists": &r.Artists,
		"albums":  &r.Albums,
		"tracks":  &r.Tracks,
	} {
		if err := decodeField(label, obj, field, dst); err != nil {
			return r, err
		}
		if *dst == nil {
			return r, protocolError(label, "field %q is not an array", field)
		}
	}
	return r, nil
}

// Track returns the currently playing track.
func (s *Store) Track() (TrackInfo, error) {
	payload, err := s.payload(Track)
	if err != nil {
		return TrackInfo{}, err
	}
	return DecodeTrack(Track, payload)
}

// Time returns the elapsed and total time of the current track.
func (s *Store) Time() (TimeInfo, error) {
	payload, err := s.payload(Time)
	if err != nil {
		return TimeInfo{}, err
	}
	obj, err := decodeObject(Time, payload, "current", "total")
	if err != nil {
		return TimeInfo{}, err
	}

	var t TimeInfo
	if err := decodeField(Time, obj, "current", &t.Current); err != nil {
		return t, err
	}
	if err := decodeField(Time, obj, "total", &t.Total); err != nil {
		return t, err
	}
	return t, nil
}

// Rating returns the thumbs state of the current track.
func (s *Store) Rating() (RatingInfo, error) {
	payload, err := s.payload(Rating)
	if err != nil {
		return RatingInfo{}, err
	}
	obj, err := decodeObject(Rating, payload, "liked", "disliked")
	if err != nil {
		return RatingInfo{}, err
	}

	var r RatingInfo
	if err := decodeField(Rating, obj, "liked", &r.Liked); err != nil {
		return r, err
	}
	if err := decodeField(Rating, obj, "disliked", &r.Disliked); err != nil {
		return r, err
	}
	return r, nil
}

// Text returns a string-valued channel such as shuffle or repeat.
func (s *Store) Text(label Label) (string, error) {
	payload, err := s.payload(label)
	if err != nil {
		return "", err
	}
	var v string
	if IsNull(payload) || json.Unmarshal(payload, &v) != nil {
		return "", protocolError(label, "payload is not a string")
	}
	return v, nil
}

// Volume returns the current volume level.
func (s *Store) Volume() (uint64, error) {
	payload, err := s.payload(Volume)
	if err != nil {
		return 0, err
	}
	var v uint64
	if IsNull(payload) || json.Unmarshal(payload, &v) != nil {
		return 0, protocolError(Volume, "payload is not a non-negative integer")
	}
	return v, nil
}

// Lyrics returns the lyrics of the current track, or an empty string when
// the server broadcast null.
func (s *Store) Lyrics() (string, error) {
	payload, err := s.payload(Lyrics)
	if err != nil {
		return "", err
	}
	var v *string
	if err := json.Unmarshal(payload, &v); err != nil {
		return "", protocolError(Lyrics, "payload is not a string")
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// Queue returns the raw Track objects of the play queue.
func (s *Store) Queue() ([]json.RawMessage, error) {
	payload, err := s.payload(Queue)
	if err != nil {
		return nil, err
	}
	return DecodeArray(Queue, payload)
}

// PlaylistList returns the raw Playlist objects.
func (s *Store) PlaylistList() ([]json.RawMessage, error) {
	payload, err := s.payload(Playlists)
	if err != nil {
		return nil, err
	}
	return DecodeArray(Playlists, payload)
}

// Search returns the latest search result groups.
func (s *Store) Search() (SearchGroups, error) {
	payload, err := s.payload(SearchResults)
	if err != nil {
		return SearchGroups{}, err
	}
	return DecodeSearchResults(SearchResults, payload)
}
