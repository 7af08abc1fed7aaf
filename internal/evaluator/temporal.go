package evaluator

import (
	"fmt"
	"time"
)

// Date, Time and DateTime are backed by the standard library's calendar
// type (spec.md §9 "Back by the host platform's standard calendar types if
// available"). ZonedTime/ZonedDateTime are represented by the same struct
// with HasOffset set; LocalTime/LocalDateTime have it clear.

type Date struct{ T time.Time } // normalized to midnight UTC; only Y-M-D significant

func (d *Date) Type() ValueType { return DATE_VAL }
func (d *Date) Inspect() string { return d.T.Format("2006-01-02") }
func (d *Date) Equal(o *Date) bool   { return d.T.Equal(o.T) }
func (d *Date) Compare(o *Date) int {
	switch {
	case d.T.Before(o.T):
		return cmpLess
	case d.T.After(o.T):
		return cmpGreater
	default:
		return cmpEqual
	}
}

// Time is either LocalTime or ZonedTime depending on HasOffset (spec.md
// §3.1: "LocalTime | hour-minute-second-nanos", "ZonedTime | LocalTime +
// offset"). Date components of T are not significant.
type Time struct {
	T         time.Time
	HasOffset bool
}

func (t *Time) Type() ValueType { return TIME_VAL }

func (t *Time) Inspect() string {
	layout := "15:04:05"
	if t.T.Nanosecond() != 0 {
		layout = "15:04:05.999999999"
	}
	s := t.T.Format(layout)
	if t.HasOffset {
		s += t.T.Format("Z07:00")
	}
	return s
}

func (t *Time) Equal(o *Time) bool { return t.normalized().Equal(o.normalized()) }
func (t *Time) Compare(o *Time) int {
	a, b := t.normalized(), o.normalized()
	switch {
	case a.Before(b):
		return cmpLess
	case a.After(b):
		return cmpGreater
	default:
		return cmpEqual
	}
}

// normalized anchors the time-of-day onto a fixed reference date so two
// Time values with different HasOffset but equal wall-clock instants
// compare consistently.
func (t *Time) normalized() time.Time {
	ref := time.Date(1970, 1, 1, t.T.Hour(), t.T.Minute(), t.T.Second(), t.T.Nanosecond(), t.T.Location())
	return ref
}

// DateTime is either LocalDateTime or ZonedDateTime depending on HasOffset.
type DateTime struct {
	T         time.Time
	HasOffset bool
}

func (dt *DateTime) Type() ValueType { return DATETIME_VAL }

func (dt *DateTime) Inspect() string {
	layout := "2006-01-02T15:04:05"
	if dt.T.Nanosecond() != 0 {
		layout = "2006-01-02T15:04:05.999999999"
	}
	s := dt.T.Format(layout)
	if dt.HasOffset {
		s += dt.T.Format("Z07:00")
	}
	return s
}

func (dt *DateTime) Equal(o *DateTime) bool { return dt.T.Equal(o.T) }
func (dt *DateTime) Compare(o *DateTime) int {
	switch {
	case dt.T.Before(o.T):
		return cmpLess
	case dt.T.After(o.T):
		return cmpGreater
	default:
		return cmpEqual
	}
}

// YearMonthDuration is a signed (years, months) count, normalized to total
// months (spec.md §3.1 "signed (years, months) normalized").
type YearMonthDuration struct{ Months int32 }

func (d *YearMonthDuration) Type() ValueType { return YMDUR_VAL }

func (d *YearMonthDuration) Inspect() string {
	sign := ""
	m := d.Months
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("P%s%dY%dM", sign, m/12, m%12)
}

// DayTimeDuration is a signed nanosecond count (spec.md §3.1).
type DayTimeDuration struct{ Nanos int64 }

func (d *DayTimeDuration) Type() ValueType { return DTDUR_VAL }

func (d *DayTimeDuration) Inspect() string {
	n := d.Nanos
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	days := n / int64(24*time.Hour)
	n -= days * int64(24*time.Hour)
	hours := n / int64(time.Hour)
	n -= hours * int64(time.Hour)
	mins := n / int64(time.Minute)
	n -= mins * int64(time.Minute)
	secs := float64(n) / float64(time.Second)
	return fmt.Sprintf("%sP%dDT%dH%dM%gS", sign, days, hours, mins, secs)
}

func NewDayTimeDuration(d time.Duration) *DayTimeDuration {
	return &DayTimeDuration{Nanos: int64(d)}
}

func (d *DayTimeDuration) Duration() time.Duration { return time.Duration(d.Nanos) }
