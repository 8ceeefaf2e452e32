package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sstandnes/kodak/date"
	"github.com/sstandnes/kodak/renderer"
)

type contributionCmd struct {
	year int
}

func (*contributionCmd) Name() string     { return "contribution" }
func (*contributionCmd) Synopsis() string { return "attribute one year's profit to positions" }
func (*contributionCmd) Usage() string {
	return `kdk contribution [-y <year>]

  Decomposes one year's profit into per-position rows, cost categories and
  the residual cash bucket, each with its money-weighted return and a share
  of the portfolio return.
`
}

func (c *contributionCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", date.Today().Year(), "Year to attribute")
}

func (c *contributionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, _, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rows, portfolioXirr, diags, err := engine.YearlyContribution(c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building contribution report: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ContributionMarkdown(c.year, rows, portfolioXirr, diags))
	return subcommands.ExitSuccess
}
