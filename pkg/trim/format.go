package trim

import (
	"fmt"
	"math"
)

// FormatTimestamp renders a non-negative position in seconds as
// MM:SS.mmm, with an hours part only when there is one.
func FormatTimestamp(seconds float64) string {
	milliseconds := int64(math.Round(seconds * 1000))

	hours := milliseconds / 3_600_000
	milliseconds -= hours * 3_600_000
	minutes := milliseconds / 60_000
	milliseconds -= minutes * 60_000
	secs := milliseconds / 1_000
	milliseconds -= secs * 1_000

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, milliseconds)
	}
	return fmt.Sprintf("%02d:%02d.%03d", minutes, secs, milliseconds)
}
