package ratelimit

import (
	"fmt"
	"time"
)

// FormatWindow renders a window duration for user-facing retry-after
// messaging, ceiling-rounded to the next whole unit. Sub-second windows
// collapse to the "1 second" display floor.
func FormatWindow(d time.Duration) string {
	seconds := int((d + time.Second - 1) / time.Second)

	if seconds >= 3600 {
		hours := (seconds + 3599) / 3600
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	if seconds >= 60 {
		minutes := (seconds + 59) / 60
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	if seconds <= 1 {
		return "1 second"
	}
	return fmt.Sprintf("%d seconds", seconds)
}
