package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/sstandnes/kodak"
	"github.com/sstandnes/kodak/date"
)

type updateCmd struct {
	date string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetch closing prices for all held instruments" }
func (*updateCmd) Usage() string {
	return `kdk update [-d <date>]

  Fetches closing prices and currency rates for every held instrument from
  the market data provider and prints what was resolved. Fetched responses
  are cached on disk per day, so subsequent reports reuse them.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date to fetch prices for (YYYY-MM-DD)")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	engine, cfg, err := loadEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if cfg.EODHD.APIKey == "" {
		fmt.Fprintln(os.Stderr, "No market data provider configured: set eodhd.api_key in the config")
		return subcommands.ExitFailure
	}

	holdings, err := engine.Holdings(on, engine.Method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(holdings) == 0 {
		fmt.Println("Nothing held, nothing to fetch.")
		return subcommands.ExitSuccess
	}

	var symbols []string
	pairs := make(map[string]bool)
	for _, h := range holdings {
		symbols = append(symbols, h.Instrument.Label())
		cur := h.Instrument.Currency
		if cur != "" && cur != engine.BaseCurrency && !pairs[cur] {
			pairs[cur] = true
			symbols = append(symbols, kodak.PairSymbol(cur, engine.BaseCurrency))
		}
	}

	prices, err := engine.Provider.PricesOn(symbols, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching prices: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Prices on %s\n\n", on)
	fmt.Fprintln(&b, "| Symbol | Price |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, s := range symbols {
		if p, ok := prices[s]; ok {
			fmt.Fprintf(&b, "| %s | %.4f |\n", s, p)
		} else {
			fmt.Fprintf(&b, "| %s | missing |\n", s)
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
