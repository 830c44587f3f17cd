// Package domain contains the core types of the capacity tracker.
package domain

import "time"

// TimestampLayout is the on-disk and on-the-wire timestamp format.
// Fractional seconds are fixed-width so that lexicographic comparison of
// encoded timestamps matches chronological order, which the SQLite range
// query relies on.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Sample is one observation of one location at one instant. All samples
// produced by a single poll share the same timestamp.
type Sample struct {
	Timestamp    time.Time
	LocationID   int
	LocationName string
	Capacity     int
}

// FormatTimestamp encodes t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp decodes a timestamp previously encoded with FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
