package kodak

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sstandnes/kodak/date"
)

// ErrNoBaseCurrency is returned when a computation requires the portfolio
// base currency and none is configured. This is a hard failure: every figure
// downstream would be silently wrong without it.
var ErrNoBaseCurrency = errors.New("base currency is not configured")

// Engine binds the ledger, the market data provider and the portfolio
// configuration into one computation surface. It is the read-side of the
// system: every method is a fresh replay of the ledger, and nothing is
// cached across calls beyond the run-scoped price cache each method creates.
type Engine struct {
	Ledger       *Ledger
	Provider     MarketDataProvider
	BaseCurrency string
	Method       CostBasisMethod // default costing convention for holdings
	Log          zerolog.Logger
	// Now is the date treated as "today" for open-ended computations.
	// Zero means the actual current date; fixed in tests.
	Now date.Date
}

// NewEngine creates an engine. The base currency is mandatory.
func NewEngine(ledger *Ledger, provider MarketDataProvider, baseCurrency string) (*Engine, error) {
	if baseCurrency == "" {
		return nil, ErrNoBaseCurrency
	}
	if err := ValidateCurrency(baseCurrency); err != nil {
		return nil, fmt.Errorf("invalid base currency: %w", err)
	}
	if provider == nil {
		provider = NewStaticMarketData()
	}
	return &Engine{
		Ledger:       ledger,
		Provider:     provider,
		BaseCurrency: baseCurrency,
		Method:       AverageCost,
		Log:          zerolog.Nop(),
	}, nil
}

// today returns the engine's notion of the current date.
func (e *Engine) today() date.Date {
	if !e.Now.IsZero() {
		return e.Now
	}
	return date.Today()
}

// instrumentsUpTo returns the distinct instruments referenced by transactions
// up to the cutoff, in first-seen order. An undeclared instrument is a hard
// error: without its symbol and currency a valuation would be silently wrong.
func (e *Engine) instrumentsUpTo(cutoff date.Date) ([]Instrument, error) {
	seen := make(map[string]bool)
	var out []Instrument
	for tx := range e.Ledger.TransactionsUpTo(cutoff) {
		if tx.Instrument == "" || seen[tx.Instrument] {
			continue
		}
		seen[tx.Instrument] = true
		ins := e.Ledger.Instrument(tx.Instrument)
		if ins == nil {
			return nil, errUndeclared(tx.Instrument)
		}
		out = append(out, *ins)
	}
	return out, nil
}

// fetchLive requests one batch of prices from the provider. A provider
// failure is a data gap: it is logged and the engine continues with an empty
// map, letting the resolver fall back tier by tier.
func (e *Engine) fetchLive(symbols []string, on date.Date) map[string]float64 {
	if len(symbols) == 0 {
		return nil
	}
	live, err := e.Provider.PricesOn(symbols, on)
	if err != nil {
		e.Log.Warn().Err(err).Stringer("date", on).Int("symbols", len(symbols)).
			Msg("market data unavailable, valuing from ledger fallbacks")
		return nil
	}
	return live
}

// fetchList returns the batch of symbols to request for valuing the given
// instruments: each quote symbol plus the currency pair of every instrument
// not trading in the base currency.
func (e *Engine) fetchList(instruments []Instrument) []string {
	var list []string
	pairs := make(map[string]bool)
	for _, ins := range instruments {
		list = append(list, ins.Label())
		if ins.Currency != "" && ins.Currency != e.BaseCurrency && !pairs[ins.Currency] {
			pairs[ins.Currency] = true
			list = append(list, PairSymbol(ins.Currency, e.BaseCurrency))
		}
	}
	return list
}
