package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/sstandnes/kodak"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `kdk fmt

  Reads the ledger file, validates every line, sorts transactions by date
  and writes the file back in canonical JSONL form: declarations first,
  stable field order, one event per line.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	in, err := os.Open(cfg.LedgerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open ledger %q: %v\n", cfg.LedgerPath, err)
		return subcommands.ExitFailure
	}
	ledger, err := kodak.DecodeLedger(in, cfg.BaseCurrency)
	in.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: ledger %q is not valid: %v\n", cfg.LedgerPath, err)
		return subcommands.ExitFailure
	}

	tmp := cfg.LedgerPath + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", tmp, err)
		return subcommands.ExitFailure
	}
	if err := kodak.EncodeLedger(out, ledger); err != nil {
		out.Close()
		os.Remove(tmp)
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", tmp, err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		fmt.Fprintf(os.Stderr, "Error closing %q: %v\n", tmp, err)
		return subcommands.ExitFailure
	}
	if err := os.Rename(tmp, cfg.LedgerPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error replacing %q: %v\n", cfg.LedgerPath, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %s (%d transactions).\n", cfg.LedgerPath, ledger.Len())
	return subcommands.ExitSuccess
}
