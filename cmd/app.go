// Package cmd implements the CLI application to inspect a portfolio ledger.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/sstandnes/kodak"
)

// Commands is the full list of subcommands. A main package registers them on
// its commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&holdingsCmd{},
	&timelineCmd{},
	&contributionCmd{},
	&fxCmd{},
	&xirrCmd{},
	&incomeCmd{},
	&feesCmd{},
	&gainsCmd{},
	&updateCmd{},
	&fmtCmd{},
}

// As a CLI application the lifecycle is one command, so globals are fine.

var configFile = flag.String("config", "kodak.toml", "Path to the configuration file")

// loadConfig reads the configuration file named by the -config flag.
func loadConfig() (*kodak.Config, error) {
	return kodak.LoadConfig(*configFile)
}

// newLogger builds the application logger from the configured level.
func newLogger(cfg *kodak.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}

// loadEngine loads config and ledger and wires the engine. A missing ledger
// file yields an empty ledger so read-only commands still run.
func loadEngine() (*kodak.Engine, *kodak.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := newLogger(cfg)

	ledger := kodak.NewLedger()
	f, err := os.Open(cfg.LedgerPath)
	switch {
	case os.IsNotExist(err):
		log.Warn().Str("path", cfg.LedgerPath).Msg("ledger file does not exist, starting empty")
	case err != nil:
		return nil, nil, fmt.Errorf("could not open ledger %q: %w", cfg.LedgerPath, err)
	default:
		defer f.Close()
		ledger, err = kodak.DecodeLedger(f, cfg.BaseCurrency)
		if err != nil {
			return nil, nil, err
		}
	}

	var provider kodak.MarketDataProvider
	if cfg.EODHD.APIKey != "" {
		provider = kodak.NewEODHDProvider(cfg.EODHD.APIKey, log)
	}

	engine, err := kodak.NewEngine(ledger, provider, cfg.BaseCurrency)
	if err != nil {
		return nil, nil, err
	}
	engine.Method = cfg.Method()
	engine.Log = log
	return engine, cfg, nil
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer cannot be used.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
