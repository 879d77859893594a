package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// formatBytes renders a byte count in base-1024 units, rounded to at most
// two decimal places with trailing zeros trimmed: "0 B", "1 KB", "1.5 KB".
func formatBytes(size int64) string {
	const unit = 1024.0
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}

	units := []string{"KB", "MB", "GB"}
	v := float64(size) / unit
	i := 0
	for v >= unit && i < len(units)-1 {
		v /= unit
		i++
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + " " + units[i]
}

// formatAge renders how long ago an epoch-millisecond timestamp happened,
// in the coarsest bucket that applies: "Just now" under a minute, then
// minutes, hours and days, always rounded down.
func formatAge(now time.Time, tsMillis int64) string {
	elapsed := now.Sub(time.UnixMilli(tsMillis))
	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}
