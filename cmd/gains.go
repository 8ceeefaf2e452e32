package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sstandnes/kodak/renderer"
)

type gainsCmd struct{}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "display realized performance by year" }
func (*gainsCmd) Usage() string {
	return `kdk gains

  Replays the ledger and displays realized gains, dividends, interest, fees
  and tax per year.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, _, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.GainsMarkdown(engine.RealizedPerformance()))
	return subcommands.ExitSuccess
}
