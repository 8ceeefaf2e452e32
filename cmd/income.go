package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sstandnes/kodak/renderer"
)

type incomeCmd struct{}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "display income and costs over the whole ledger" }
func (*incomeCmd) Usage() string {
	return `kdk income

  Displays all-time dividends, interest and fees with yearly breakdowns and
  top dividend payers.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {}

func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, _, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	summary := engine.IncomeAndCosts()
	dividendYears, _, topPayers := engine.DividendDetails()
	interestYears, _, _ := engine.InterestDetails()
	feeYears, _, _ := engine.FeeDetails()

	printMarkdown(renderer.IncomeMarkdown(summary, dividendYears, topPayers, interestYears, feeYears))
	return subcommands.ExitSuccess
}
