package sessions

import "fmt"

// FormatDuration renders a duration in minutes as a short human string:
// "2h 5m", "45m", or "< 1m" for sub-minute spans. A nil duration means
// the session is still active. Negative input is not expected; callers
// must not pass clock-skewed durations.
func FormatDuration(minutes *float64) string {
	if minutes == nil {
		return "Active"
	}

	hours := int(*minutes) / 60
	mins := int(*minutes) % 60

	if hours == 0 {
		if mins == 0 {
			return "< 1m"
		}
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
