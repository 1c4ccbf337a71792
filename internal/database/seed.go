package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nandobmont/ano-safra/calendar"
)

// ErrInvalidRange is returned by SeedRange for a reversed range or one
// longer than the allowed number of days.
var ErrInvalidRange = errors.New("invalid seed range")

// SeedRange classifies every day from start to end inclusive and upserts
// the result in one transaction. It returns the number of rows written.
//
// Ranges longer than maxDays are rejected before anything is built;
// maxDays <= 0 disables the limit.
func (db *DB) SeedRange(ctx context.Context, start, end time.Time, separator string, maxDays int) (int, error) {
	if start.After(end) {
		return 0, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange,
			calendar.FormatDate(start), calendar.FormatDate(end))
	}

	total := calendar.DaysInRange(start, end)
	if maxDays > 0 && total > maxDays {
		return 0, fmt.Errorf("%w: %d days exceeds the limit of %d", ErrInvalidRange, total, maxDays)
	}

	days := make([]CalendarDay, 0, total)
	err := calendar.DaysBetween(start, end, func(day time.Time) error {
		days = append(days, NewCalendarDay(calendar.Classify(day, separator)))
		return nil
	})
	if err != nil {
		return 0, err
	}

	n, err := db.UpsertDays(ctx, days)
	if err != nil {
		return 0, fmt.Errorf("seed range: %w", err)
	}

	db.logger.Info("harvest calendar seeded",
		slog.String("start", calendar.FormatDate(start)),
		slog.String("end", calendar.FormatDate(end)),
		slog.Int("days", n),
	)

	return n, nil
}
