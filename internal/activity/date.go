package activity

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day in loc. A nil loc means time.Local.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// FromEpoch converts Unix seconds to the calendar day in loc.
func FromEpoch(sec float64, loc *time.Location) Date {
	whole := int64(sec)
	nsec := int64((sec - float64(whole)) * float64(time.Second))
	return DateOf(time.Unix(whole, nsec), loc)
}

// FromEpochMillis converts Unix milliseconds to the calendar day in loc.
func FromEpochMillis(ms float64, loc *time.Location) Date {
	return DateOf(time.UnixMilli(int64(ms)), loc)
}

// ParseDate parses s with layout and keeps only the calendar day.
func ParseDate(layout, s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// ParseDay parses the YYYY-MM-DD form produced by String.
func ParseDay(s string) (Date, error) {
	return ParseDate(dateLayout, s)
}

// MustParse parses a YYYY-MM-DD string and panics on failure.
func MustParse(s string) Date {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether d is an earlier day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}
