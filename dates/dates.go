// Package dates provides the calendar-day values exchanged with the
// enrollment services. Enrollment and teaching dates have calendar-day
// semantics, not instants: the wire format carries a local midnight with
// the timezone stripped, and anything resembling ISO-8601 is accepted on
// the way in.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	// WireFormat is what the services receive: local midnight, no zone.
	WireFormat = "2006-01-02T15:04:05.000"

	dayFormat     = "2006-01-02"
	displayFormat = "02 January 2006"
	inputFormat   = dayFormat // HTML date inputs
)

// Date is a single calendar day. The zero value is "no date".
type Date struct {
	t time.Time
}

// New returns the Date for the given calendar day.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates an instant to its calendar day.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// Parse accepts the formats the services and the HTML forms produce:
// RFC3339 timestamps, zone-less timestamps, and plain days.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		WireFormat,
		"2006-01-02T15:04:05",
		dayFormat,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	return Date{}, fmt.Errorf("unrecognised date %q", s)
}

func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d falls strictly before o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// After reports whether d falls strictly after o.
func (d Date) After(o Date) bool { return d.t.After(o.t) }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// AddDays returns the day n days after d.
func (d Date) AddDays(n int) Date { return FromTime(d.t.AddDate(0, 0, n)) }

// Time returns the day as a UTC midnight instant.
func (d Date) Time() time.Time { return d.t }

// String renders the day as an HTML date-input value.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(inputFormat)
}

// Display renders the day for table cells.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(displayFormat)
}

// MarshalJSON emits the zone-less wire timestamp.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.t.Format(WireFormat) + `"`), nil
}

// UnmarshalJSON accepts any ISO-8601 variant the services emit.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
