package kodak

import (
	"sort"

	"github.com/sstandnes/kodak/date"
)

// Holding is the computed net position of one instrument as of a cutoff
// date. It is recomputed on demand from the ledger, never stored.
type Holding struct {
	Instrument Instrument
	Quantity   Quantity
	CostBasis  Money // base currency, floored at zero
}

// Holdings replays the ledger up to asOf and returns every non-dust position
// under the given costing method, sorted by instrument label.
func (e *Engine) Holdings(asOf date.Date, method CostBasisMethod) ([]Holding, error) {
	instruments, err := e.instrumentsUpTo(asOf)
	if err != nil {
		return nil, err
	}
	var out []Holding
	for _, ins := range instruments {
		pos := CostBasis(e.Ledger.ForInstrument(ins.ISIN, asOf), method, e.BaseCurrency)
		if pos.Quantity.IsDust() {
			continue
		}
		out = append(out, Holding{Instrument: ins, Quantity: pos.Quantity, CostBasis: pos.CostBasis})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instrument.Label() < out[j].Instrument.Label() })
	return out, nil
}

// Snapshot is the reconstructed state of the whole portfolio as of a date:
// valued holdings plus the cash balance, in base currency.
type Snapshot struct {
	On       date.Date
	Holdings []ValuedHolding
	Cash     Money
	Total    Money
}

// ValuedHolding is a holding priced for the snapshot date.
type ValuedHolding struct {
	Holding
	AdjustedQuantity Quantity // split-adjusted to the present-day share scale
	Price            float64  // resolved price, 0 when unpriced
	Rate             float64  // currency conversion to base, 1 for base-currency instruments
	Value            Money    // market value, or cost basis when unpriced
}

// ValueAt returns total portfolio equity (holdings plus cash) as of a date.
// It is the scalar form of SnapshotAt.
func (e *Engine) ValueAt(on date.Date, cache *PriceCache, diags *[]PriceDiagnostic) (Money, error) {
	snap, err := e.SnapshotAt(on, cache, diags)
	if err != nil {
		return Money{}, err
	}
	return snap.Total, nil
}

// SnapshotAt reconstructs the portfolio as of a date.
//
// Positions are accumulated under weighted average cost: point-in-time
// snapshots always use the one consistent costing convention regardless of
// the engine's configured method. Cash is the sum of amount_local across all
// transaction types. Each non-dust holding is valued at split-adjusted
// quantity × resolved price × currency rate; when no price resolves the
// holding is valued at its cost basis so the snapshot never silently omits
// value. Price and rate gaps are appended to diags.
func (e *Engine) SnapshotAt(on date.Date, cache *PriceCache, diags *[]PriceDiagnostic) (*Snapshot, error) {
	holdings, err := e.Holdings(on, AverageCost)
	if err != nil {
		return nil, err
	}

	instruments := make([]Instrument, len(holdings))
	for i, h := range holdings {
		instruments[i] = h.Instrument
	}
	live := e.fetchLive(e.fetchList(instruments), on)
	resolver := NewPriceResolver(e.Ledger, e.BaseCurrency, cache)
	splits := e.Ledger.Splits()

	snap := &Snapshot{On: on, Cash: e.Ledger.CashBalance(on, e.BaseCurrency)}
	total := M(0, e.BaseCurrency)
	for _, h := range holdings {
		symbol := h.Instrument.Label()
		vh := ValuedHolding{Holding: h, Rate: 1}
		vh.AdjustedQuantity = splits.Adjust(symbol, h.Quantity, on)
		vh.Price = resolver.Resolve(symbol, on, live, diags)
		if h.Instrument.Currency != "" && h.Instrument.Currency != e.BaseCurrency {
			vh.Rate = resolver.Resolve(PairSymbol(h.Instrument.Currency, e.BaseCurrency), on, live, diags)
		}
		if vh.Price > 0 {
			vh.Value = M(vh.AdjustedQuantity.AsFloat()*vh.Price*vh.Rate, e.BaseCurrency)
		} else {
			vh.Value = h.CostBasis
		}
		total = total.Add(vh.Value)
		snap.Holdings = append(snap.Holdings, vh)
	}
	snap.Total = total.Add(snap.Cash)
	return snap, nil
}
