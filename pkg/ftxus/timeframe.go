package ftxus

import "fmt"

// TimeframeMeta holds the default label and duration for a supported timeframe.
type TimeframeMeta struct {
	Minutes int
	Label   string
}

// validTimeframes maps supported bucket durations (minutes) to default labels.
// Alignment rules for each duration live in the aggregate package; only the
// durations listed here are accepted at startup.
var validTimeframes = map[int]TimeframeMeta{
	1:    {Minutes: 1, Label: "1m"},
	5:    {Minutes: 5, Label: "5m"},
	10:   {Minutes: 10, Label: "10m"},
	15:   {Minutes: 15, Label: "15m"},
	30:   {Minutes: 30, Label: "30m"},
	60:   {Minutes: 60, Label: "1h"},
	120:  {Minutes: 120, Label: "2h"},
	240:  {Minutes: 240, Label: "4h"},
	360:  {Minutes: 360, Label: "6h"},
	720:  {Minutes: 720, Label: "12h"},
	1440: {Minutes: 1440, Label: "1d"},
}

// IsValidTimeframe checks if the duration is a supported bucket size.
func IsValidTimeframe(minutes int) bool {
	_, ok := validTimeframes[minutes]
	return ok
}

// ParseTimeframe resolves a duration in minutes to its metadata.
func ParseTimeframe(minutes int) (TimeframeMeta, error) {
	meta, ok := validTimeframes[minutes]
	if !ok {
		return TimeframeMeta{}, fmt.Errorf("unsupported timeframe: %d minutes", minutes)
	}
	return meta, nil
}
