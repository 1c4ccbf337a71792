package calendar

import "time"

// Clock returns the current moment. Production code uses SystemClock;
// tests inject a fixed clock.
type Clock func() time.Time

// SystemClock reads the host wall clock in local time.
func SystemClock() time.Time {
	return time.Now()
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Calculator answers semester and harvest-year questions relative to its
// clock. A zero time.Time passed to any method means "now".
//
// A Calculator holds no mutable state and is safe for concurrent use.
type Calculator struct {
	now Clock
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(c *Calculator) {
		if clock != nil {
			c.now = clock
		}
	}
}

// NewCalculator creates a Calculator backed by the system clock unless
// an Option overrides it.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{now: SystemClock}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the calculator's notion of the current moment.
func (c *Calculator) Now() time.Time {
	return c.now()
}

// Semesters returns both semesters of date's calendar year.
func (c *Calculator) Semesters(date time.Time) HalfYearPair {
	return SemestersOf(c.resolve(date))
}

// CurrentHalf returns the semester of date.
func (c *Calculator) CurrentHalf(date time.Time) Half {
	return CurrentHalf(c.resolve(date))
}

// HarvestYear returns the harvest-year of date labelled with DefaultSeparator.
func (c *Calculator) HarvestYear(date time.Time) HarvestYear {
	return HarvestYearOf(c.resolve(date), DefaultSeparator)
}

// HarvestYearWithSeparator returns the harvest-year of date labelled with
// separator.
func (c *Calculator) HarvestYearWithSeparator(date time.Time, separator string) HarvestYear {
	return HarvestYearOf(c.resolve(date), separator)
}

// Classify returns the semester and harvest-year of date.
func (c *Calculator) Classify(date time.Time, separator string) Classification {
	return Classify(c.resolve(date), separator)
}

// Status returns the harvest-year of date and whether it is the one in
// progress according to the calculator's clock.
//
// The clock is read on every call, so the same date can stop being
// current once the clock crosses into the next harvest-year.
func (c *Calculator) Status(date time.Time) HarvestYearStatus {
	reference := HarvestYearOf(c.now(), DefaultSeparator)
	target := HarvestYearOf(c.resolve(date), DefaultSeparator)

	return HarvestYearStatus{
		HarvestYear: target,
		IsCurrent:   target.SameSpan(reference),
	}
}

func (c *Calculator) resolve(date time.Time) time.Time {
	if date.IsZero() {
		return c.now()
	}
	return date
}

var defaultCalculator = NewCalculator()

// Semesters returns both semesters of date's year; a zero date means now.
func Semesters(date time.Time) HalfYearPair {
	return defaultCalculator.Semesters(date)
}

// HarvestYearFor returns the harvest-year of date using DefaultSeparator;
// a zero date means now.
func HarvestYearFor(date time.Time) HarvestYear {
	return defaultCalculator.HarvestYear(date)
}

// HarvestYearWithSeparator returns the harvest-year of date labelled with
// separator; a zero date means now.
func HarvestYearWithSeparator(date time.Time, separator string) HarvestYear {
	return defaultCalculator.HarvestYearWithSeparator(date, separator)
}

// Status reports the harvest-year of date against the system clock;
// a zero date means now.
func Status(date time.Time) HarvestYearStatus {
	return defaultCalculator.Status(date)
}
