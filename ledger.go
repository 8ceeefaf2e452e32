package kodak

import (
	"fmt"
	"iter"
	"sort"

	"github.com/sstandnes/kodak/date"
)

// Ledger is the ordered, append-only journal of transactions, together with
// the instrument reference data needed to interpret them.
//
// Transactions are kept sorted by (date, insertion order). The engine assumes
// at most one writer at a time; replays are read-only.
type Ledger struct {
	transactions []Transaction
	instruments  map[string]Instrument // by ISIN
	bySymbol     map[string]string     // symbol -> ISIN
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		instruments: make(map[string]Instrument),
		bySymbol:    make(map[string]string),
	}
}

// DeclareInstrument registers or updates instrument reference data.
func (l *Ledger) DeclareInstrument(ins Instrument) error {
	if ins.ISIN == "" {
		return fmt.Errorf("instrument %q has no ISIN", ins.Symbol)
	}
	if ins.Currency != "" {
		if err := ValidateCurrency(ins.Currency); err != nil {
			return fmt.Errorf("instrument %s: %w", ins.ISIN, err)
		}
	}
	l.instruments[ins.ISIN] = ins
	if ins.Symbol != "" {
		l.bySymbol[ins.Symbol] = ins.ISIN
	}
	return nil
}

// Instrument returns the instrument declared with this ISIN, or nil if unknown.
func (l *Ledger) Instrument(isin string) *Instrument {
	ins, ok := l.instruments[isin]
	if !ok {
		return nil
	}
	return &ins
}

// InstrumentBySymbol returns the instrument with this quote symbol, or nil.
func (l *Ledger) InstrumentBySymbol(symbol string) *Instrument {
	isin, ok := l.bySymbol[symbol]
	if !ok {
		return nil
	}
	return l.Instrument(isin)
}

// Instruments iterates over all declared instruments in unspecified order.
func (l *Ledger) Instruments() iter.Seq[Instrument] {
	return func(yield func(Instrument) bool) {
		for _, ins := range l.instruments {
			if !yield(ins) {
				return
			}
		}
	}
}

// Append validates and records transactions, keeping the journal sorted.
func (l *Ledger) Append(txs ...Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
		l.transactions = append(l.transactions, tx)
	}
	l.stableSort()
	return nil
}

// stableSort orders transactions by date, preserving insertion order within a
// day. Same-day ordering matters for FIFO and for split pair discovery.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions iterates over all transactions in (date, insertion) order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	return l.TransactionsUpTo(date.Date{})
}

// TransactionsUpTo iterates over transactions with date <= cutoff, in order.
// A zero cutoff means no cutoff.
func (l *Ledger) TransactionsUpTo(cutoff date.Date) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if !cutoff.IsZero() && tx.Date.After(cutoff) {
				break
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// ForInstrument returns the transaction stream of one instrument up to the
// cutoff date (zero cutoff means the whole history).
func (l *Ledger) ForInstrument(isin string, cutoff date.Date) []Transaction {
	var out []Transaction
	for tx := range l.TransactionsUpTo(cutoff) {
		if tx.Instrument == isin {
			out = append(out, tx)
		}
	}
	return out
}

// Bounds returns the date of the first and last transactions.
// ok is false when the ledger is empty.
func (l *Ledger) Bounds() (first, last date.Date, ok bool) {
	if len(l.transactions) == 0 {
		return date.Date{}, date.Date{}, false
	}
	return l.transactions[0].Date, l.transactions[len(l.transactions)-1].Date, true
}

// CashBalance returns the base-currency cash balance as of a date: the sum of
// amount_local across every transaction type, since fees, dividends, trades
// and transfers all move cash.
func (l *Ledger) CashBalance(on date.Date, baseCurrency string) Money {
	total := M(0, baseCurrency)
	for tx := range l.TransactionsUpTo(on) {
		total = total.Add(tx.AmountLocal)
	}
	return total
}

// Currencies returns the set of settlement currencies seen in the ledger.
func (l *Ledger) Currencies() []string {
	seen := make(map[string]bool)
	var out []string
	for _, tx := range l.transactions {
		c := tx.Currency()
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
