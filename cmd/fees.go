package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sstandnes/kodak/renderer"
)

type feesCmd struct{}

func (*feesCmd) Name() string     { return "fees" }
func (*feesCmd) Synopsis() string { return "compare fee cost per account" }
func (*feesCmd) Usage() string {
	return `kdk fees

  Compares accounts on trading-fee drag (fee per 100 traded) and recurring
  platform charges.
`
}

func (c *feesCmd) SetFlags(f *flag.FlagSet) {}

func (c *feesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, _, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.FeeAnalysisMarkdown(engine.FeeAnalysis(), engine.PlatformFees()))
	return subcommands.ExitSuccess
}
