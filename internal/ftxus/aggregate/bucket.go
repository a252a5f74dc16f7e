package aggregate

import "time"

// AlignedStart computes the calendar-aligned start of the bucket considered
// current at the given instant. The arithmetic uses wall-clock fields in
// now's location, so callers decide the reference timezone by converting
// first. Unsupported durations return now unchanged; config validation
// rejects them before a series is ever built.
func AlignedStart(now time.Time, minutes int) time.Time {
	lastMinute := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
	lastHour := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	lastDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch minutes {
	case 1:
		// The 1-minute series starts on the next whole minute.
		return lastMinute.Add(time.Minute)
	case 5, 10, 15, 30:
		for lastMinute.Minute()%minutes != 0 {
			lastMinute = lastMinute.Add(-time.Minute)
		}
		return lastMinute
	case 60:
		return lastHour
	case 120:
		for lastHour.Hour()%2 != 0 {
			lastHour = lastHour.Add(-time.Hour)
		}
		return lastHour.Add(2 * time.Hour)
	case 240, 360, 720:
		hours := minutes / 60
		for lastHour.Hour()%hours != 0 {
			lastHour = lastHour.Add(-time.Hour)
		}
		return lastHour
	case 1440:
		return lastDay
	}
	return now
}
