// Package main is the safra command-line tool.
package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/nandobmont/ano-safra/calendar"
)

// CLI defines the command-line interface structure
type CLI struct {
	Format string `short:"f" enum:"json,yaml" default:"json" help:"Output format (json, yaml)"`

	Semesters   SemestersCmd   `cmd:"" help:"Print both semesters of a date's year"`
	HarvestYear HarvestYearCmd `cmd:"" name:"harvest-year" help:"Print the harvest-year of a date"`
	Status      StatusCmd      `cmd:"" help:"Print the harvest-year of a date and whether it is current"`
	Seed        SeedCmd        `cmd:"" help:"Store the harvest calendar for a date range in SQLite"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("safra"),
		kong.Description("Semester and harvest-year (ano-safra) calculator"),
		kong.UsageOnError(),
	)

	env := &Env{
		Out:    os.Stdout,
		Format: cli.Format,
		Calc:   calendar.NewCalculator(),
	}
	err := ctx.Run(env)
	ctx.FatalIfErrorf(err)
}
