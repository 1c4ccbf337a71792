package database

import (
	"time"

	"github.com/nandobmont/ano-safra/calendar"
)

// CalendarDay is one row of the harvest calendar.
type CalendarDay struct {
	Date        string        `json:"date"` // YYYY-MM-DD
	Semester    calendar.Half `json:"semester"`
	HarvestYear string        `json:"harvest_year"`
	StartYear   string        `json:"start_year"`
	EndYear     string        `json:"end_year"`
	SpanStart   int           `json:"span_start"` // four-digit start year
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

// NewCalendarDay builds a row from a calendar classification.
func NewCalendarDay(c calendar.Classification) CalendarDay {
	return CalendarDay{
		Date:        calendar.FormatDate(c.Date),
		Semester:    c.Half,
		HarvestYear: c.HarvestYear.Label,
		StartYear:   c.HarvestYear.StartYear,
		EndYear:     c.HarvestYear.EndYear,
		SpanStart:   c.SpanStart,
	}
}

// HarvestSummary aggregates stored days for one harvest-year.
type HarvestSummary struct {
	SpanStart int    `json:"span_start"`
	StartYear string `json:"start_year"`
	EndYear   string `json:"end_year"`
	FirstDay  string `json:"first_day"`
	LastDay   string `json:"last_day"`
	Days      int    `json:"days"`
}
