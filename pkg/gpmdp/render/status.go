package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/channel"
)

// StatusReport aggregates the playback state response with the channel
// snapshots gathered before the status request was sent.
type StatusReport struct {
	State           string `json:"state"`
	Artist          string `json:"artist"`
	Album           string `json:"album"`
	Title           string `json:"title"`
	TimeElapsedFmt  string `json:"time_elapsed_fmt"`
	TimeElapsedSecs int64  `json:"time_elapsed_secs"`
	TimeTotalFmt    string `json:"time_total_fmt"`
	TimeTotalSecs   int64  `json:"time_total_secs"`
	Rating          string `json:"rating"`
	Volume          uint64 `json:"volume"`
	Shuffle         string `json:"shuffle"`
	Repeat          string `json:"repeat"`
	QueueTrack      int    `json:"queue_track"`
	QueueLength     int    `json:"queue_length"`
}

// NewStatusReport builds a report from a getPlaybackState response value and
// the store's track, time, rating, volume, shuffle, repeat and queue channels.
func NewStatusReport(value json.RawMessage, store *channel.Store) (*StatusReport, error) {
	var state uint64
	if err := decodeValue(Status, value, &state); err != nil {
		return nil, err
	}

	track, err := store.Track()
	if err != nil {
		return nil, err
	}
	tm, err := store.Time()
	if err != nil {
		return nil, err
	}
	rating, err := store.Rating()
	if err != nil {
		return nil, err
	}
	volume, err := store.Volume()
	if err != nil {
		return nil, err
	}
	shuffle, err := store.Text(channel.Shuffle)
	if err != nil {
		return nil, err
	}
	repeat, err := store.Text(channel.Repeat)
	if err != nil {
		return nil, err
	}
	queue, err := store.Queue()
	if err != nil {
		return nil, err
	}
	position, err := QueuePosition(track, queue)
	if err != nil {
		return nil, err
	}

	return &StatusReport{
		State:           stateName(state),
		Artist:          track.Artist,
		Album:           track.Album,
		Title:           track.Title,
		TimeElapsedFmt:  FormatTime(tm.Current),
		TimeElapsedSecs: tm.Current / 1000,
		TimeTotalFmt:    FormatTime(tm.Total),
		TimeTotalSecs:   tm.Total / 1000,
		Rating:          ratingName(rating),
		Volume:          volume,
		Shuffle:         shuffleName(shuffle),
		Repeat:          repeatName(repeat),
		QueueTrack:      position,
		QueueLength:     len(queue),
	}, nil
}

// QueuePosition returns the 1-based position of the first queue entry whose
// artist, album and title all equal current's, or 0 if there is none.
func QueuePosition(current channel.TrackInfo, queue []json.RawMessage) (int, error) {
	for i, item := range queue {
		t, err := channel.DecodeTrack(channel.Queue, item)
		if err != nil {
			return 0, err
		}
		if t == current {
			return i + 1, nil
		}
	}
	return 0, nil
}

func ratingName(r channel.RatingInfo) string {
	switch {
	case r.Liked:
		return "up"
	case r.Disliked:
		return "down"
	}
	return "none"
}

func shuffleName(mode string) string {
	if mode == "NO_SHUFFLE" {
		return "off"
	}
	return "on"
}

func repeatName(mode string) string {
	switch mode {
	case "LIST_REPEAT":
		return "all"
	case "SINGLE_REPEAT":
		return "single"
	}
	return "off"
}

// Write prints the report as one "key: value" line per field.
func (s *StatusReport) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, `state: %s
artist: %s
album: %s
title: %s
time_elapsed_fmt: %s
time_elapsed_secs: %d
time_total_fmt: %s
time_total_secs: %d
rating: %s
volume: %d
shuffle: %s
repeat: %s
queue_track: %d
queue_length: %d
`,
		s.State,
		s.Artist,
		s.Album,
		s.Title,
		s.TimeElapsedFmt,
		s.TimeElapsedSecs,
		s.TimeTotalFmt,
		s.TimeTotalSecs,
		s.Rating,
		s.Volume,
		s.Shuffle,
		s.Repeat,
		s.QueueTrack,
		s.QueueLength,
	)
	return err
}
