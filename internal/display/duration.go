package display

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration given in milliseconds for a duration badge.
func FormatDuration(ms float64) string {
	if ms < 0 {
		ms = 0
	}
	d := time.Duration(ms * float64(time.Millisecond))
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
