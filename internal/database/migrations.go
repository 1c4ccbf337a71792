package database

// migrationsSQL holds every schema migration keyed by version.
// Versions are applied in ascending order and never edited once released.
var migrationsSQL = map[int]string{
	1: migrationV1CalendarDays,
	2: migrationV2HarvestYearIndex,
	3: migrationV3SpanStart,
}

// migrationV1CalendarDays creates the date dimension.
//
// One row per civil day. The semester and harvest-year columns are always
// derived from the date by the calendar package; they are stored so that
// SQL consumers can group by them without reimplementing the rules.
// harvest_year keeps the separator used when the row was written, while
// start_year/end_year are separator-free.
const migrationV1CalendarDays = `
CREATE TABLE IF NOT EXISTS calendar_days (
	date         TEXT PRIMARY KEY,            -- YYYY-MM-DD
	semester     INTEGER NOT NULL CHECK (semester IN (1, 2)),
	harvest_year TEXT NOT NULL,               -- e.g. 23/24
	start_year   TEXT NOT NULL,               -- two-digit token
	end_year     TEXT NOT NULL,               -- two-digit token
	created_at   TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at   TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// migrationV2HarvestYearIndex speeds up per-harvest listings.
const migrationV2HarvestYearIndex = `
CREATE INDEX IF NOT EXISTS idx_calendar_days_span
	ON calendar_days (start_year, end_year, date);
`

// migrationV3SpanStart adds the four-digit year a harvest-year starts in.
//
// The two-digit tokens repeat every century, so 1924/25 and 2024/25 share
// start_year/end_year. Existing rows are backfilled from their date and
// semester: semester 1 belongs to the harvest started the year before.
const migrationV3SpanStart = `
ALTER TABLE calendar_days ADD COLUMN span_start INTEGER NOT NULL DEFAULT 0;

UPDATE calendar_days
SET span_start = CAST(substr(date, 1, 4) AS INTEGER) - (CASE semester WHEN 1 THEN 1 ELSE 0 END);

CREATE INDEX IF NOT EXISTS idx_calendar_days_span_start
	ON calendar_days (span_start, date);
`
