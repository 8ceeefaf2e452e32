package kodak

import (
	"sort"

	"github.com/sstandnes/kodak/date"
)

// MarketDataProvider supplies closing prices for a set of symbols on a date.
// The returned map may be partial or empty: a missing symbol is a data gap,
// not an error, and the engine degrades through its fallback tiers.
//
// Implementations should treat one call as one batch: the engine requests all
// symbols and currency pairs for a valuation date at once.
type MarketDataProvider interface {
	PricesOn(symbols []string, on date.Date) (map[string]float64, error)
}

// pricePoint is one dated close in an in-memory series.
type pricePoint struct {
	on    date.Date
	price float64
}

// StaticMarketData is an in-memory MarketDataProvider backed by per-symbol
// price series. It serves tests and locally stored price files.
type StaticMarketData struct {
	series map[string][]pricePoint
}

// NewStaticMarketData creates an empty in-memory provider.
func NewStaticMarketData() *StaticMarketData {
	return &StaticMarketData{series: make(map[string][]pricePoint)}
}

// Append records a close for a symbol, replacing any existing value on the
// same date and keeping the series chronological.
func (m *StaticMarketData) Append(symbol string, on date.Date, price float64) {
	points := m.series[symbol]
	for i := range points {
		if points[i].on == on {
			points[i].price = price
			return
		}
	}
	points = append(points, pricePoint{on: on, price: price})
	sort.Slice(points, func(i, j int) bool { return points[i].on.Before(points[j].on) })
	m.series[symbol] = points
}

// PriceAsOf returns the last known price on or before the given date.
func (m *StaticMarketData) PriceAsOf(symbol string, on date.Date) (float64, bool) {
	var price float64
	found := false
	for _, p := range m.series[symbol] {
		if p.on.After(on) {
			break
		}
		price, found = p.price, true
	}
	return price, found
}

// PricesOn implements MarketDataProvider using the latest price on or before
// the requested date.
func (m *StaticMarketData) PricesOn(symbols []string, on date.Date) (map[string]float64, error) {
	out := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		if price, ok := m.PriceAsOf(symbol, on); ok {
			out[symbol] = price
		}
	}
	return out, nil
}

var _ MarketDataProvider = (*StaticMarketData)(nil)
