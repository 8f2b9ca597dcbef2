// Package channel tracks the unsolicited broadcasts GPMDP pushes to every
// connected client.
//
// Each broadcast carries a channel label and a payload. The Store keeps the
// latest payload per label and a bitmask of labels seen since the connection
// opened, which is what commands gate their dispatch on.
package channel

// Label identifies a broadcast topic.
type Label string

const (
	Connect            Label = "connect"
	APIVersion         Label = "API_VERSION"
	PlayState          Label = "playState"
	Track              Label = "track"
	Lyrics             Label = "lyrics"
	Time               Label = "time"
	Rating             Label = "rating"
	Shuffle            Label = "shuffle"
	Repeat             Label = "repeat"
	Playlists          Label = "playlists"
	Queue              Label = "queue"
	SearchResults      Label = "search-results"
	Library            Label = "library"
	Volume             Label = "volume"
	SettingsThemeColor Label = "settings:themeColor"
	SettingsTheme      Label = "settings:theme"
	SettingsThemeType  Label = "settings:themeType"
)

// Mask is a set of channel bits.
type Mask uint32

const (
	BitAPIVersion Mask = 1 << iota
	BitPlayState
	BitTrack
	BitLyrics
	BitTime
	BitRating
	BitShuffle
	BitRepeat
	BitPlaylists
	BitQueue
	BitSearchResults
	BitLibrary
	BitVolume
	BitSettingsThemeColor
	BitSettingsTheme
	BitSettingsThemeType
)

// None is the empty requirement: the command never waits for a broadcast.
const None Mask = 0

var bits = map[Label]Mask{
	APIVersion:         BitAPIVersion,
	PlayState:          BitPlayState,
	Track:              BitTrack,
	Lyrics:             BitLyrics,
	Time:               BitTime,
	Rating:             BitRating,
	Shuffle:            BitShuffle,
	Repeat:             BitRepeat,
	Playlists:          BitPlaylists,
	Queue:              BitQueue,
	SearchResults:      BitSearchResults,
	Library:            BitLibrary,
	Volume:             BitVolume,
	SettingsThemeColor: BitSettingsThemeColor,
	SettingsTheme:      BitSettingsTheme,
	SettingsThemeType:  BitSettingsThemeType,
}

// Bit returns the bit for a label. Labels outside the known set, including
// Connect, have no bit.
func (l Label) Bit() (Mask, bool) {
	b, ok := bits[l]
	return b, ok
}

// Contains reports whether every bit of required is set in m.
func (m Mask) Contains(required Mask) bool {
	return m&required == required
}

// Labels lists the known labels whose bits are set in m, in bit order.
func (m Mask) Labels() []Label {
	var out []Label
	for bit := BitAPIVersion; bit <= BitSettingsThemeType; bit <<= 1 {
		if m&bit == 0 {
			continue
		}
		for label, b := range bits {
			if b == bit {
				out = append(out, label)
				break
			}
		}
	}
	return out
}
