package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sstandnes/kodak/renderer"
)

type fxCmd struct{}

func (*fxCmd) Name() string     { return "fx" }
func (*fxCmd) Synopsis() string { return "display currency profit and loss" }
func (*fxCmd) Usage() string {
	return `kdk fx

  Displays realized and unrealized currency profit per foreign currency,
  split between cash balances and securities.
`
}

func (c *fxCmd) SetFlags(f *flag.FlagSet) {}

func (c *fxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, _, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rows, diags, err := engine.FXPerformance()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building FX report: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.FXMarkdown(rows, diags))
	return subcommands.ExitSuccess
}
