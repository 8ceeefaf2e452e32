package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sstandnes/kodak"
	"github.com/sstandnes/kodak/date"
	"github.com/sstandnes/kodak/renderer"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	date string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display valued holdings for a specific date" }
func (*holdingsCmd) Usage() string {
	return `kdk holdings [-d <date>]

  Displays the portfolio holdings (securities and cash) valued on a given
  date, with price fallback disclosures.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date for the holdings report (YYYY-MM-DD)")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	engine, _, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var diags []kodak.PriceDiagnostic
	cache := kodak.NewPriceCache(engine.Log)
	snap, err := engine.SnapshotAt(on, cache, &diags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating holdings report: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderSnapshot(snap) + renderer.DiagnosticsMarkdown(diags))
	return subcommands.ExitSuccess
}
