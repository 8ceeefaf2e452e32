package kodak

import (
	"testing"

	"github.com/sstandnes/kodak/date"
)

var (
	equinor = Instrument{ISIN: "NO0010096985", Symbol: "EQNR", Currency: "NOK", Sector: "Energy"}
	apple   = Instrument{ISIN: "US0378331005", Symbol: "AAPL", Currency: "USD", Sector: "Technology"}
)

// NOK is a helper for tests to create base-currency money from const.
func NOK(v float64) Money { return M(v, "NOK") }

// USD is a helper for tests to create dollar money from const.
func USD(v float64) Money { return M(v, "USD") }

func day(s string) date.Date { return date.MustParse(s) }

// buy builds a purchase of the instrument. fx is the settlement-to-base
// rate; pass 0 for an instrument trading in the base currency.
func buy(on string, ins Instrument, qty, price, fx float64) Transaction {
	amount := -qty * price
	local := amount
	var rate Quantity
	if fx > 0 {
		local = amount * fx
		rate = Q(fx)
	}
	return Transaction{
		Instrument:   ins.ISIN,
		Date:         day(on),
		Type:         Buy,
		Quantity:     Q(qty),
		Price:        M(price, ins.Currency),
		Amount:       M(amount, ins.Currency),
		ExchangeRate: rate,
		AmountLocal:  M(local, "NOK"),
	}
}

// sell builds a sale of the instrument; qty is passed positive and stored
// negative per the disposal sign convention.
func sell(on string, ins Instrument, qty, price, fx float64) Transaction {
	amount := qty * price
	local := amount
	var rate Quantity
	if fx > 0 {
		local = amount * fx
		rate = Q(fx)
	}
	return Transaction{
		Instrument:   ins.ISIN,
		Date:         day(on),
		Type:         Sell,
		Quantity:     Q(-qty),
		Price:        M(price, ins.Currency),
		Amount:       M(amount, ins.Currency),
		ExchangeRate: rate,
		AmountLocal:  M(local, "NOK"),
	}
}

func deposit(on string, amount float64) Transaction {
	return Transaction{Date: day(on), Type: Deposit, Amount: NOK(amount), AmountLocal: NOK(amount)}
}

func withdrawal(on string, amount float64) Transaction {
	return Transaction{Date: day(on), Type: Withdrawal, Amount: NOK(-amount), AmountLocal: NOK(-amount)}
}

func dividend(on string, ins Instrument, amount, fx float64) Transaction {
	local := amount
	var rate Quantity
	if fx > 0 {
		local = amount * fx
		rate = Q(fx)
	}
	return Transaction{
		Instrument:   ins.ISIN,
		Date:         day(on),
		Type:         Dividend,
		Amount:       M(amount, ins.Currency),
		ExchangeRate: rate,
		AmountLocal:  M(local, "NOK"),
	}
}

func interestTx(on string, amount float64) Transaction {
	return Transaction{Date: day(on), Type: Interest, Amount: NOK(amount), AmountLocal: NOK(amount)}
}

func feeTx(on, account string, amount float64) Transaction {
	return Transaction{Account: account, Date: day(on), Type: Fee, Amount: NOK(-amount), AmountLocal: NOK(-amount)}
}

func taxTx(on string, amount float64) Transaction {
	return Transaction{Date: day(on), Type: Tax, Amount: NOK(-amount), AmountLocal: NOK(-amount)}
}

// fxTrade builds an instrument-less currency conversion: positive foreign
// buys the foreign currency, negative sells it back to base.
func fxTrade(on, currency string, foreign, rate float64) Transaction {
	return Transaction{
		Date:         day(on),
		Type:         CurrencyExchange,
		Amount:       M(foreign, currency),
		ExchangeRate: Q(rate),
		AmountLocal:  NOK(-foreign * rate),
	}
}

func newTestLedger(t *testing.T, instruments []Instrument, txs ...Transaction) *Ledger {
	t.Helper()
	ledger := NewLedger()
	for _, ins := range instruments {
		if err := ledger.DeclareInstrument(ins); err != nil {
			t.Fatalf("DeclareInstrument(%s) error = %v", ins.ISIN, err)
		}
	}
	if err := ledger.Append(txs...); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	return ledger
}

// newTestEngine builds an engine over the ledger with a pinned "today", so
// open-ended computations are reproducible.
func newTestEngine(t *testing.T, ledger *Ledger, provider MarketDataProvider, now string) *Engine {
	t.Helper()
	e, err := NewEngine(ledger, provider, "NOK")
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.Now = day(now)
	return e
}
