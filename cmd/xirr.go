package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sstandnes/kodak"
	"github.com/sstandnes/kodak/renderer"
)

type xirrCmd struct {
	symbol string
}

func (*xirrCmd) Name() string     { return "xirr" }
func (*xirrCmd) Synopsis() string { return "display the all-time money-weighted return" }
func (*xirrCmd) Usage() string {
	return `kdk xirr [-s <symbol>]

  Computes the annualized money-weighted return over the whole ledger, for
  the portfolio or for a single instrument.
`
}

func (c *xirrCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Instrument symbol or ISIN; empty for the whole portfolio")
}

func (c *xirrCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, _, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var (
		rate  kodak.Percent
		diags []kodak.PriceDiagnostic
		label = "Portfolio"
	)
	if c.symbol == "" {
		rate, diags, err = engine.TotalXirr()
	} else {
		label = c.symbol
		rate, diags, err = engine.InstrumentXirr(c.symbol)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing XIRR: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.XirrMarkdown(label, rate, diags))
	return subcommands.ExitSuccess
}
