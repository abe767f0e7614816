package ui

import (
	"fmt"
	"time"
)

// FormatAge renders how long ago published was, relative to now:
// "Just now" under an hour, whole hours under a day, whole days after.
// Future times count as just now.
func FormatAge(now, published time.Time) string {
	d := now.Sub(published)
	switch {
	case d < time.Hour:
		return "Just now"
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
