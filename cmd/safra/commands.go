package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nandobmont/ano-safra/calendar"
	"github.com/nandobmont/ano-safra/internal/config"
	"github.com/nandobmont/ano-safra/internal/database"
	"github.com/nandobmont/ano-safra/internal/logger"
)

// Env is bound into every command's Run method.
type Env struct {
	Out    io.Writer
	Format string
	Calc   *calendar.Calculator
}

// print writes v in the selected output format.
func (e *Env) print(v any) error {
	switch e.Format {
	case "yaml":
		enc := yaml.NewEncoder(e.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(e.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// parseDateFlag parses an optional YYYY-MM-DD flag. Empty means now.
func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	date, err := calendar.ParseDate(value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", value, err)
	}
	return date, nil
}

type interval struct {
	From string `json:"de" yaml:"de"`
	To   string `json:"ate" yaml:"ate"`
}

type semestersOutput struct {
	Date      string              `json:"date" yaml:"date"`
	Current   calendar.Half       `json:"current" yaml:"current"`
	Semesters map[string]interval `json:"semesters" yaml:"semesters"`
}

// SemestersCmd prints both semesters of a date's calendar year
type SemestersCmd struct {
	Date string `short:"d" help:"Date as YYYY-MM-DD (default: today)"`
}

func (c *SemestersCmd) Run(env *Env) error {
	date, err := parseDateFlag(c.Date)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = env.Calc.Now()
	}

	pair := env.Calc.Semesters(date)
	out := semestersOutput{
		Date:      calendar.FormatDate(date),
		Current:   env.Calc.CurrentHalf(date),
		Semesters: make(map[string]interval, len(calendar.Halves)),
	}
	for _, h := range calendar.Halves {
		iv, _ := pair.Interval(h)
		out.Semesters[strconv.Itoa(int(h))] = interval{
			From: calendar.FormatDate(iv.From),
			To:   calendar.FormatDate(iv.To),
		}
	}
	return env.print(out)
}

// HarvestYearCmd prints the harvest-year of a date
type HarvestYearCmd struct {
	Date      string `short:"d" help:"Date as YYYY-MM-DD (default: today)"`
	Separator string `short:"s" default:"/" help:"Separator between the year tokens"`
}

func (c *HarvestYearCmd) Run(env *Env) error {
	date, err := parseDateFlag(c.Date)
	if err != nil {
		return err
	}
	return env.print(env.Calc.HarvestYearWithSeparator(date, c.Separator))
}

// StatusCmd prints the harvest-year of a date and whether it is current
type StatusCmd struct {
	Date string `short:"d" help:"Date as YYYY-MM-DD (default: today)"`
}

func (c *StatusCmd) Run(env *Env) error {
	date, err := parseDateFlag(c.Date)
	if err != nil {
		return err
	}
	return env.print(env.Calc.Status(date))
}

// SeedCmd stores the classification of every day in a range
type SeedCmd struct {
	From      string `required:"" help:"First day, YYYY-MM-DD"`
	To        string `required:"" help:"Last day, YYYY-MM-DD (at most MAX_RANGE_DAYS after --from)"`
	DB        string `name:"db" help:"SQLite file (default: DATABASE_PATH)"`
	Separator string `short:"s" default:"/" help:"Separator stored in harvest_year labels"`
}

type seedOutput struct {
	Database string `json:"database" yaml:"database"`
	From     string `json:"from" yaml:"from"`
	To       string `json:"to" yaml:"to"`
	Days     int    `json:"days" yaml:"days"`
	Stored   int    `json:"stored" yaml:"stored"`
}

func (c *SeedCmd) Run(env *Env) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Logs go to stderr so stdout stays machine readable
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	from, err := calendar.ParseDate(c.From, time.Local)
	if err != nil {
		return fmt.Errorf("invalid --from %q: %w", c.From, err)
	}
	to, err := calendar.ParseDate(c.To, time.Local)
	if err != nil {
		return fmt.Errorf("invalid --to %q: %w", c.To, err)
	}

	path := c.DB
	if path == "" {
		path = cfg.DatabasePath
	}

	db, err := database.Open(database.DefaultConfig(path), log)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	n, err := db.SeedRange(ctx, from, to, c.Separator, cfg.MaxRangeDays)
	if err != nil {
		return err
	}

	stored, err := db.CountDays(ctx)
	if err != nil {
		return err
	}

	log.Debug("seed finished", slog.String("database", path), slog.Int("stored", stored))

	return env.print(seedOutput{
		Database: path,
		From:     c.From,
		To:       c.To,
		Days:     n,
		Stored:   stored,
	})
}
