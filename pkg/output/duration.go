package output

import "fmt"

// ElapsedTime formats seconds as HH:MM:SS. Hours are not capped at 99 and
// negative input renders as 00:00:00.
func ElapsedTime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
