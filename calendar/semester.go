// Package calendar maps calendar dates onto half-years (semesters) and onto
// harvest-years, the agricultural periods that straddle two calendar years.
package calendar

import "time"

// Half identifies one of the two six-month halves of a calendar year.
type Half int

// Semester constants
const (
	// Semester1 covers January 1 through June 30.
	Semester1 Half = 1

	// Semester2 covers July 1 through December 31.
	Semester2 Half = 2
)

// Halves lists both semesters in calendar order.
var Halves = [...]Half{Semester1, Semester2}

// Interval is an inclusive span of civil days. Both ends sit at midnight
// in the location of the date they were derived from.
type Interval struct {
	From time.Time `json:"de" yaml:"de"`
	To   time.Time `json:"ate" yaml:"ate"`
}

// HalfYearPair holds both semesters of a single calendar year.
type HalfYearPair struct {
	First  Interval `json:"1" yaml:"1"`
	Second Interval `json:"2" yaml:"2"`
}

// Interval returns the interval for the given half.
// The boolean is false for anything other than Semester1 or Semester2.
func (p HalfYearPair) Interval(h Half) (Interval, bool) {
	switch h {
	case Semester1:
		return p.First, true
	case Semester2:
		return p.Second, true
	}
	return Interval{}, false
}

// SemestersOf returns the two semesters of the calendar year of date.
//
// Only the year and location of date are used:
//   - Semester 1: January 1 through June 30
//   - Semester 2: July 1 through December 31
func SemestersOf(date time.Time) HalfYearPair {
	year := date.Year()
	loc := date.Location()

	return HalfYearPair{
		First: Interval{
			From: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
			To:   time.Date(year, time.June, 30, 0, 0, 0, 0, loc),
		},
		Second: Interval{
			From: time.Date(year, time.July, 1, 0, 0, 0, 0, loc),
			To:   time.Date(year, time.December, 31, 0, 0, 0, 0, loc),
		},
	}
}

// CurrentHalf returns the semester that date belongs to.
//
// The first semester ends at midnight opening June 30, so only that exact
// instant stays in semester 1; June 30 at 00:00:01 is already semester 2.
func CurrentHalf(date time.Time) Half {
	if date.After(SemestersOf(date).First.To) {
		return Semester2
	}
	return Semester1
}

// civilDay drops the time-of-day component, keeping the location.
func civilDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
