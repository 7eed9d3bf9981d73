package utils

import "time"

// LocalYMDFormat is the calendar-date form used in CSV files.
const LocalYMDFormat = "2006-01-02"

// FormatLocalYMD renders t as the YYYY-MM-DD string of the day t falls on
// in its own time zone. The zone offset is folded into the instant before
// taking the UTC date portion, so the emitted day always matches the day
// as displayed locally rather than the UTC day.
func FormatLocalYMD(t time.Time) string {
	_, offset := t.Zone()
	return t.Add(time.Duration(offset) * time.Second).UTC().Format(LocalYMDFormat)
}

// ParseLocalYMD reads a YYYY-MM-DD string as midnight in the host's local
// zone. Round-tripping through FormatLocalYMD yields the same day.
func ParseLocalYMD(s string) (time.Time, error) {
	return time.ParseInLocation(LocalYMDFormat, s, time.Local)
}
