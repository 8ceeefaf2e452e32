package kodak

import (
	"sort"

	"github.com/sstandnes/kodak/date"
)

// SplitEvent is a share-count multiplier discovered from the ledger: a
// same-day pair of exchange-out and exchange-in transactions on one
// instrument. Ratio = quantity in / |quantity out|.
//
// Splits are derived on demand and never persisted.
type SplitEvent struct {
	Symbol string
	On     date.Date
	Ratio  Quantity
}

// SplitTable maps a quote symbol to its split events in chronological order.
type SplitTable map[string][]SplitEvent

// Splits discovers stock splits by pairing same-day EXCHANGE_OUT and
// EXCHANGE_IN transactions per instrument. Unpaired exchange legs (a true
// security swap rather than a split) produce no event.
func (l *Ledger) Splits() SplitTable {
	type key struct {
		isin string
		on   date.Date
	}
	ins := make(map[key]Quantity)
	outs := make(map[key]Quantity)
	for tx := range l.Transactions() {
		if tx.Instrument == "" {
			continue
		}
		k := key{isin: tx.Instrument, on: tx.Date}
		switch tx.Type {
		case ExchangeIn:
			ins[k] = ins[k].Add(tx.Quantity.Abs())
		case ExchangeOut:
			outs[k] = outs[k].Add(tx.Quantity.Abs())
		}
	}

	table := make(SplitTable)
	for k, qtyIn := range ins {
		qtyOut, ok := outs[k]
		if !ok || qtyOut.IsZero() {
			continue
		}
		instrument := l.Instrument(k.isin)
		if instrument == nil {
			continue
		}
		symbol := instrument.Label()
		table[symbol] = append(table[symbol], SplitEvent{
			Symbol: symbol,
			On:     k.on,
			Ratio:  qtyIn.Div(qtyOut),
		})
	}
	for symbol := range table {
		events := table[symbol]
		sort.Slice(events, func(i, j int) bool { return events[i].On.Before(events[j].On) })
		table[symbol] = events
	}
	return table
}

// Adjust scales a historical share quantity by the product of all split
// ratios strictly after the reference date, making it comparable against a
// present-day (post-split) price series. Splits on or before the reference
// date leave the quantity unchanged.
func (t SplitTable) Adjust(symbol string, rawQty Quantity, refDate date.Date) Quantity {
	events, ok := t[symbol]
	if !ok || rawQty.IsZero() {
		return rawQty
	}
	adjusted := rawQty
	for _, ev := range events {
		if ev.On.After(refDate) {
			adjusted = adjusted.Mul(ev.Ratio)
		}
	}
	return adjusted
}
