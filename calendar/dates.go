package calendar

import "time"

// DateLayout is the wire format for dates accepted and produced by the
// HTTP and command-line surfaces.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
// A nil loc means time.Local.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// DaysBetween calls fn for every civil day from start to end inclusive.
// Iteration stops at the first error, which is returned.
func DaysBetween(start, end time.Time, fn func(day time.Time) error) error {
	current := civilDay(start)
	last := civilDay(end.In(start.Location()))
	for !current.After(last) {
		if err := fn(current); err != nil {
			return err
		}
		current = current.AddDate(0, 0, 1)
	}
	return nil
}

// DaysInRange returns the number of civil days from start to end inclusive,
// or zero when end is before start.
func DaysInRange(start, end time.Time) int {
	from := civilDay(start)
	to := civilDay(end.In(from.Location()))
	if to.Before(from) {
		return 0
	}
	// Compare in UTC so DST shifts do not shorten a day.
	fromUTC := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toUTC := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toUTC.Sub(fromUTC).Hours()/24) + 1
}
