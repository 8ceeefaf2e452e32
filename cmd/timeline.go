package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sstandnes/kodak/renderer"
)

type timelineCmd struct{}

func (*timelineCmd) Name() string     { return "timeline" }
func (*timelineCmd) Synopsis() string { return "display the yearly equity curve" }
func (*timelineCmd) Usage() string {
	return `kdk timeline

  Walks the ledger year by year and displays end-of-year equity, net
  external flows, profit and the money-weighted return per year.
`
}

func (c *timelineCmd) SetFlags(f *flag.FlagSet) {}

func (c *timelineCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, _, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	points, diags, err := engine.YearlyEquityCurve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building equity curve: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.TimelineMarkdown(points, diags))
	return subcommands.ExitSuccess
}
