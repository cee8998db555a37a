package value

import (
	"fmt"
	"time"
)

// DateValue is a Lemma date/time literal: a calendar date with an optional
// time-of-day and an optional UTC offset.
//
// Comparison and subtraction operate on the absolute instant (UTC-normalized);
// arithmetic (adding a Duration) preserves the operand's stated offset,
// because it shifts the instant held by T without touching T's Location.
type DateValue struct {
	T         time.Time
	HasTime   bool
	HasOffset bool
}

// NewDateOnly builds a date with no time-of-day component. It has no
// offset: two date-only values compare as midnight UTC.
func NewDateOnly(year int, month time.Month, day int) DateValue {
	return DateValue{T: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// NewDateTime builds a date with a time-of-day and an optional offset
// (offsetSeconds is ignored when hasOffset is false, and the instant is
// interpreted as UTC).
func NewDateTime(year int, month time.Month, day, hour, min, sec int, hasOffset bool, offsetSeconds int) DateValue {
	loc := time.UTC
	if hasOffset {
		loc = time.FixedZone(offsetName(offsetSeconds), offsetSeconds)
	}
	return DateValue{
		T:         time.Date(year, month, day, hour, min, sec, 0, loc),
		HasTime:   true,
		HasOffset: hasOffset,
	}
}

func offsetName(offsetSeconds int) string {
	sign := "+"
	if offsetSeconds < 0 {
		sign = "-"
		offsetSeconds = -offsetSeconds
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, offsetSeconds/3600, (offsetSeconds%3600)/60)
}

// Instant returns the UTC-normalized absolute instant, used for comparison.
func (d DateValue) Instant() time.Time { return d.T.UTC() }

// Equal reports whether two dates denote the same absolute instant.
func (d DateValue) Equal(other DateValue) bool { return d.T.Equal(other.T) }

// Before reports whether d's instant precedes other's.
func (d DateValue) Before(other DateValue) bool { return d.T.Before(other.T) }

// After reports whether d's instant follows other's.
func (d DateValue) After(other DateValue) bool { return d.T.After(other.T) }

// AddDuration shifts the instant by the given duration while preserving the
// original offset/location.
func (d DateValue) AddDuration(dur time.Duration) DateValue {
	d.T = d.T.Add(dur)
	return d
}

// Sub returns the absolute duration between two dates.
func (d DateValue) Sub(other DateValue) time.Duration {
	return d.T.Sub(other.T)
}

func (d DateValue) String() string {
	if !d.HasTime {
		return d.T.Format("2006-01-02")
	}
	if !d.HasOffset {
		return d.T.Format("2006-01-02T15:04:05")
	}
	return d.T.Format("2006-01-02T15:04:05-07:00")
}
