package ui

import "time"

// maxBackoff caps the stretched poll interval during outages.
const maxBackoff = 5 * time.Minute

// calculateBackoff returns the auto-refresh interval after the given number
// of consecutive poll failures: base * 2^failures, capped at maxBackoff.
// Zero or negative failures return the base interval unchanged.
func calculateBackoff(failures int, baseInterval time.Duration) time.Duration {
	if failures <= 0 {
		return baseInterval
	}
	interval := baseInterval
	for i := 0; i < failures; i++ {
		interval *= 2
		if interval >= maxBackoff {
			return maxBackoff
		}
	}
	return interval
}
