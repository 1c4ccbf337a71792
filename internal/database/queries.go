package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nandobmont/ano-safra/calendar"
)

// execQuerier is satisfied by both *DB and *Tx.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Returns nil if the value is empty or not in a known layout.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}

	return nil
}

const dayColumns = `date, semester, harvest_year, start_year, end_year, span_start, created_at, updated_at`

const upsertDayQuery = `
	INSERT INTO calendar_days (date, semester, harvest_year, start_year, end_year, span_start)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(date) DO UPDATE SET
		semester     = excluded.semester,
		harvest_year = excluded.harvest_year,
		start_year   = excluded.start_year,
		end_year     = excluded.end_year,
		span_start   = excluded.span_start,
		updated_at   = datetime('now')
`

func upsertDay(ctx context.Context, q execQuerier, day CalendarDay) error {
	_, err := q.ExecContext(ctx, upsertDayQuery,
		day.Date,
		int(day.Semester),
		day.HarvestYear,
		day.StartYear,
		day.EndYear,
		day.SpanStart,
	)
	if err != nil {
		return fmt.Errorf("upsert day %s: %w", day.Date, err)
	}
	return nil
}

// =============================================================================
// Calendar Day Queries
// =============================================================================

// UpsertDay inserts a day or refreshes an existing one.
func (db *DB) UpsertDay(ctx context.Context, day CalendarDay) error {
	return upsertDay(ctx, db, day)
}

// UpsertDay inserts a day or refreshes an existing one within the transaction.
func (tx *Tx) UpsertDay(ctx context.Context, day CalendarDay) error {
	return upsertDay(ctx, tx, day)
}

// UpsertDays writes all days in a single transaction and returns how many
// rows were written. Nothing is written if any row fails.
func (db *DB) UpsertDays(ctx context.Context, days []CalendarDay) (int, error) {
	err := db.WithTx(ctx, func(tx *Tx) error {
		for _, day := range days {
			if err := tx.UpsertDay(ctx, day); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(days), nil
}

// GetDay retrieves the stored row for a YYYY-MM-DD date.
// Returns ErrNotFound if the day has not been seeded.
func (db *DB) GetDay(ctx context.Context, date string) (*CalendarDay, error) {
	query := `SELECT ` + dayColumns + ` FROM calendar_days WHERE date = ?`

	day, err := scanDay(db.QueryRowContext(ctx, query, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get day %s: %w", date, err)
	}
	return day, nil
}

// ListDaysBySpan returns every stored day whose harvest-year carries the
// given two-digit tokens, in date order. Days from different centuries
// share tokens; callers tell them apart by SpanStart.
func (db *DB) ListDaysBySpan(ctx context.Context, startYear, endYear string) ([]CalendarDay, error) {
	query := `SELECT ` + dayColumns + `
		FROM calendar_days
		WHERE start_year = ? AND end_year = ?
		ORDER BY date`

	days, err := db.listDays(ctx, query, startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("list days for %s-%s: %w", startYear, endYear, err)
	}
	return days, nil
}

// ListDaysByHarvest returns every stored day of the harvest-year that
// starts in spanStart, in date order.
func (db *DB) ListDaysByHarvest(ctx context.Context, spanStart int) ([]CalendarDay, error) {
	query := `SELECT ` + dayColumns + `
		FROM calendar_days
		WHERE span_start = ?
		ORDER BY date`

	days, err := db.listDays(ctx, query, spanStart)
	if err != nil {
		return nil, fmt.Errorf("list days for harvest %d: %w", spanStart, err)
	}
	return days, nil
}

func (db *DB) listDays(ctx context.Context, query string, args ...any) ([]CalendarDay, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []CalendarDay
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, *day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}

	return days, nil
}

// SummarizeHarvestYears returns one summary per stored harvest-year,
// ordered by the year it starts in.
func (db *DB) SummarizeHarvestYears(ctx context.Context) ([]HarvestSummary, error) {
	query := `
		SELECT span_start, start_year, end_year, MIN(date), MAX(date), COUNT(*)
		FROM calendar_days
		GROUP BY span_start, start_year, end_year
		ORDER BY span_start
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("summarize harvest years: %w", err)
	}
	defer rows.Close()

	var summaries []HarvestSummary
	for rows.Next() {
		var s HarvestSummary
		if err := rows.Scan(&s.SpanStart, &s.StartYear, &s.EndYear, &s.FirstDay, &s.LastDay, &s.Days); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	return summaries, nil
}

// CountDays returns the number of stored days.
func (db *DB) CountDays(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendar_days").Scan(&n); err != nil {
		return 0, fmt.Errorf("count days: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDay(row rowScanner) (*CalendarDay, error) {
	var day CalendarDay
	var semester int
	var createdAt, updatedAt sql.NullString

	if err := row.Scan(
		&day.Date,
		&semester,
		&day.HarvestYear,
		&day.StartYear,
		&day.EndYear,
		&day.SpanStart,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	day.Semester = calendar.Half(semester)
	day.CreatedAt = parseTimestamp(createdAt)
	day.UpdatedAt = parseTimestamp(updatedAt)

	return &day, nil
}
