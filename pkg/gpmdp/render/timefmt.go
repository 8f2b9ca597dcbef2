package render

import "fmt"

// FormatTime formats a millisecond count as H:M:SS from one hour up, M:SS
// from one minute up, and 0:SS below that. Only seconds are zero padded.
func FormatTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	t := ms / 1000
	const hour, minute = 3600, 60

	switch {
	case t >= hour:
		return fmt.Sprintf("%d:%d:%02d", t/hour, (t%hour)/minute, (t%hour)%minute)
	case t >= minute:
		return fmt.Sprintf("%d:%02d", t/minute, t%minute)
	default:
		return fmt.Sprintf("0:%02d", t)
	}
}
