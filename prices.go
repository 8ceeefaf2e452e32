package kodak

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sstandnes/kodak/date"
)

// PriceTier records the provenance of a resolved price, in fallback order.
type PriceTier int

const (
	// TierLive is a price taken from the live price map handed to the engine.
	TierLive PriceTier = iota + 1
	// TierTransaction is a price borrowed from the nearest ledger trade.
	TierTransaction
	// TierExchangeRate is a currency rate borrowed from the nearest
	// transaction's embedded exchange rate.
	TierExchangeRate
	// TierMissing means no price resolved; the caller values at cost basis.
	TierMissing
)

func (t PriceTier) String() string {
	switch t {
	case TierLive:
		return "live"
	case TierTransaction:
		return "transaction"
	case TierExchangeRate:
		return "exchange-rate"
	case TierMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// PriceDiagnostic is one audit record of a degraded price lookup. Reports
// surface these next to computed figures so users can gauge confidence.
type PriceDiagnostic struct {
	Symbol string
	On     date.Date
	Tier   PriceTier
	Price  float64
}

// PairSymbol returns the pseudo-symbol used to quote a currency against the
// base currency, e.g. PairSymbol("USD", "NOK") == "USDNOK=X".
func PairSymbol(currency, baseCurrency string) string {
	return currency + baseCurrency + "=X"
}

type priceKey struct {
	symbol string
	on     date.Date
}

// PriceCache memoizes resolved prices for the duration of one computation
// run. It is created per run and passed explicitly, so runs are isolated and
// there is no cross-run staleness to manage.
type PriceCache struct {
	runID  string
	prices map[priceKey]float64
	log    zerolog.Logger
}

// NewPriceCache creates a run-scoped cache. The run id tags every audit log
// line produced through this cache.
func NewPriceCache(log zerolog.Logger) *PriceCache {
	runID := uuid.NewString()
	return &PriceCache{
		runID:  runID,
		prices: make(map[priceKey]float64),
		log:    log.With().Str("run", runID).Logger(),
	}
}

// RunID returns the identifier of this computation run.
func (c *PriceCache) RunID() string { return c.runID }

func (c *PriceCache) get(symbol string, on date.Date) (float64, bool) {
	p, ok := c.prices[priceKey{symbol, on}]
	return p, ok
}

func (c *PriceCache) put(symbol string, on date.Date, price float64) {
	c.prices[priceKey{symbol, on}] = price
}

// PriceResolver resolves an instrument or currency-pair price for a date
// through a tiered fallback chain:
//
//  1. the live price map, when it carries a positive price,
//  2. the nearest-by-date ledger trade price for that instrument,
//  3. for CCYBASE=X pseudo-symbols, the nearest transaction's embedded
//     exchange rate, defaulting to 1.0 when no history exists,
//  4. price 0, signalling "not found": the caller values at cost basis.
//
// Every use of tiers 2-4 is appended to the caller's diagnostics list.
// Resolution never fails: data gaps degrade, they do not abort.
type PriceResolver struct {
	ledger       *Ledger
	baseCurrency string
	cache        *PriceCache
}

// NewPriceResolver binds a resolver to a ledger, a base currency and a
// run-scoped cache.
func NewPriceResolver(ledger *Ledger, baseCurrency string, cache *PriceCache) *PriceResolver {
	return &PriceResolver{ledger: ledger, baseCurrency: baseCurrency, cache: cache}
}

// Resolve returns the price for symbol on the given date, consulting the live
// map first and falling back through the ledger. Fallback uses are appended
// to diags.
func (r *PriceResolver) Resolve(symbol string, on date.Date, live map[string]float64, diags *[]PriceDiagnostic) float64 {
	if p, ok := live[symbol]; ok && p > 0 {
		return p
	}
	if p, ok := r.cache.get(symbol, on); ok {
		return p
	}

	if currency, isPair := r.pairCurrency(symbol); isPair {
		price := r.resolvePair(currency, symbol, on, diags)
		r.cache.put(symbol, on, price)
		return price
	}

	price := r.resolveInstrument(symbol, on, diags)
	r.cache.put(symbol, on, price)
	return price
}

// pairCurrency reports whether symbol is a currency-pair pseudo-symbol
// against the base currency, and returns the foreign currency if so.
func (r *PriceResolver) pairCurrency(symbol string) (string, bool) {
	suffix := r.baseCurrency + "=X"
	if !strings.HasSuffix(symbol, suffix) || len(symbol) == len(suffix) {
		return "", false
	}
	return strings.TrimSuffix(symbol, suffix), true
}

// resolveInstrument finds the trade with positive price nearest to the target
// date. Equidistant candidates resolve to the earliest date; this tie-break
// is implementation-defined, not a contract.
func (r *PriceResolver) resolveInstrument(symbol string, on date.Date, diags *[]PriceDiagnostic) float64 {
	instrument := r.ledger.InstrumentBySymbol(symbol)
	if instrument == nil {
		// unmapped instruments are labelled by ISIN
		instrument = r.ledger.Instrument(symbol)
	}
	var best float64
	bestDist := -1
	if instrument != nil {
		for _, tx := range r.ledger.ForInstrument(instrument.ISIN, date.Date{}) {
			if !tx.Type.IsTrade() || !tx.Price.IsPositive() {
				continue
			}
			dist := date.DaysBetween(tx.Date, on)
			if dist < 0 {
				dist = -dist
			}
			if bestDist < 0 || dist < bestDist {
				bestDist = dist
				best = tx.Price.AsFloat()
			}
		}
	}
	if bestDist >= 0 {
		r.record(symbol, on, TierTransaction, best, diags)
		return best
	}
	r.record(symbol, on, TierMissing, 0, diags)
	return 0
}

// resolvePair finds the embedded exchange rate nearest to the target date for
// transactions settled in the given currency, defaulting to 1.0 when the
// ledger has no history for it.
func (r *PriceResolver) resolvePair(currency, symbol string, on date.Date, diags *[]PriceDiagnostic) float64 {
	var best float64
	bestDist := -1
	for tx := range r.ledger.Transactions() {
		if tx.Currency() != currency || !tx.ExchangeRate.IsPositive() {
			continue
		}
		dist := date.DaysBetween(tx.Date, on)
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = tx.ExchangeRate.AsFloat()
		}
	}
	if bestDist >= 0 {
		r.record(symbol, on, TierExchangeRate, best, diags)
		return best
	}
	return 1.0
}

// record appends a diagnostics entry and writes the audit log line.
func (r *PriceResolver) record(symbol string, on date.Date, tier PriceTier, price float64, diags *[]PriceDiagnostic) {
	if diags != nil {
		*diags = append(*diags, PriceDiagnostic{Symbol: symbol, On: on, Tier: tier, Price: price})
	}
	event := r.cache.log.Debug()
	if tier == TierMissing {
		event = r.cache.log.Warn()
	}
	event.Str("symbol", symbol).Stringer("date", on).Stringer("tier", tier).Float64("price", price).
		Msg("price fallback used")
}
