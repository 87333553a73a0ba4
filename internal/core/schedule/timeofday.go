package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeOfDay reports a time-of-day string outside HH:MM, 0-23:0-59.
var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay is a wall-clock time within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an "HH:MM" string. Surrounding whitespace and a
// single-digit hour are accepted.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// On returns the instant of this time of day on the local date of day.
func (tod TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour, tod.Minute, 0, 0, day.Location())
}

// String formats the value as HH:MM.
func (tod TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", tod.Hour, tod.Minute)
}

// Format12 formats the value as a 12-hour clock time, e.g. "2:30 PM".
func (tod TimeOfDay) Format12() string {
	suffix := "AM"
	if tod.Hour >= 12 {
		suffix = "PM"
	}
	hour := tod.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, tod.Minute, suffix)
}

func (tod TimeOfDay) offset() time.Duration {
	return time.Duration(tod.Hour)*time.Hour + time.Duration(tod.Minute)*time.Minute
}

// InWorkHours reports whether now falls inside [start, end). An unparseable
// pair never suppresses breaks. A window whose start is after its end wraps
// past midnight; equal bounds cover the whole day.
func InWorkHours(now time.Time, start, end string) bool {
	startTOD, err := ParseTimeOfDay(start)
	if err != nil {
		return true
	}
	endTOD, err := ParseTimeOfDay(end)
	if err != nil {
		return true
	}

	// Wall-clock offset, so DST transition days keep their configured bounds.
	hour, minute, second := now.Clock()
	sinceMidnight := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second
	from, to := startTOD.offset(), endTOD.offset()
	switch {
	case from == to:
		return true
	case from < to:
		return sinceMidnight >= from && sinceMidnight < to
	default:
		return sinceMidnight >= from || sinceMidnight < to
	}
}

// Date is a local calendar date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the local calendar date of t.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// String formats the date as YYYY-MM-DD.
func (date Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", date.Year, date.Month, date.Day)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, fmt.Errorf("parse date: %w", err)
	}
	return DateOf(parsed), nil
}
