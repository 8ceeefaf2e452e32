package kodak

import (
	"fmt"

	"github.com/sstandnes/kodak/date"
)

// TransactionType identifies the kind of ledger event. The set is closed:
// ingestion maps broker-specific labels onto these before a transaction ever
// reaches the engine.
type TransactionType string

const (
	Buy              TransactionType = "BUY"
	Sell             TransactionType = "SELL"
	Dividend         TransactionType = "DIVIDEND"
	Interest         TransactionType = "INTEREST"
	Fee              TransactionType = "FEE"
	Tax              TransactionType = "TAX"
	Deposit          TransactionType = "DEPOSIT"
	Withdrawal       TransactionType = "WITHDRAWAL"
	TransferIn       TransactionType = "TRANSFER_IN"
	TransferOut      TransactionType = "TRANSFER_OUT"
	ExchangeIn       TransactionType = "EXCHANGE_IN"  // corporate action: shares received in an exchange
	ExchangeOut      TransactionType = "EXCHANGE_OUT" // corporate action: shares given up in an exchange
	Allotment        TransactionType = "ALLOTMENT"    // corporate action: shares allotted
	RightsIssue      TransactionType = "RIGHTS_ISSUE"
	Redemption       TransactionType = "REDEMPTION"
	CurrencyExchange TransactionType = "CURRENCY_EXCHANGE"
)

// FlowClass describes how a transaction type moves a security position.
type FlowClass int

const (
	// FlowNeutral transactions move cash but never share quantity.
	FlowNeutral FlowClass = iota
	// FlowIn transactions add shares to a position (acquisition class).
	FlowIn
	// FlowOut transactions remove shares from a position (disposal class).
	FlowOut
)

// flowTable is the static classification of every transaction type.
var flowTable = map[TransactionType]FlowClass{
	Buy:              FlowIn,
	TransferIn:       FlowIn,
	ExchangeIn:       FlowIn,
	Allotment:        FlowIn,
	RightsIssue:      FlowIn,
	Deposit:          FlowIn, // a security deposited in kind
	Sell:             FlowOut,
	TransferOut:      FlowOut,
	ExchangeOut:      FlowOut,
	Redemption:       FlowOut,
	Withdrawal:       FlowOut, // a security withdrawn in kind
	Dividend:         FlowNeutral,
	Interest:         FlowNeutral,
	Fee:              FlowNeutral,
	Tax:              FlowNeutral,
	CurrencyExchange: FlowNeutral,
}

// Flow returns the position-flow class of the transaction type.
// Unknown types are neutral: they move cash only.
func (t TransactionType) Flow() FlowClass { return flowTable[t] }

// IsExternal reports whether the type represents money or assets crossing
// the portfolio boundary (investor deposits, withdrawals and transfers).
// External flows are the cash-flow legs of money-weighted return.
func (t TransactionType) IsExternal() bool {
	switch t {
	case Deposit, Withdrawal, TransferIn, TransferOut:
		return true
	}
	return false
}

// IsTrade reports whether the type is an actual market trade carrying a price.
func (t TransactionType) IsTrade() bool { return t == Buy || t == Sell }

// Valid reports whether the type belongs to the closed set.
func (t TransactionType) Valid() bool {
	_, ok := flowTable[t]
	return ok
}

// Transaction is one immutable ledger event. It is created by ingestion and
// never mutated by the engine; all state is derived by replay.
//
// Sign convention: acquisition-class quantities are positive, disposal-class
// quantities negative. Amount is in the settlement currency; AmountLocal is
// the same value converted to the portfolio base currency at ExchangeRate.
type Transaction struct {
	Account      string          // broker account identifier
	Instrument   string          // instrument id (ISIN); empty for cash-only events
	Date         date.Date
	Type         TransactionType
	Quantity     Quantity // shares or units; zero for cash-only events
	Price        Money    // per-share price in the settlement currency
	Amount       Money    // total amount in the settlement currency
	ExchangeRate Quantity // settlement-to-base rate; zero when settling in base
	AmountLocal  Money    // total amount in the base currency
	Fee          Money    // embedded trade fee, settlement currency
	FeeLocal     Money    // embedded trade fee, base currency
	Source       string   // originating broker file, informational
}

// Currency returns the settlement currency of the transaction.
func (t Transaction) Currency() string { return t.Amount.Currency() }

// Validate checks the structural invariants an ingested transaction must hold.
// It does not reject oversells or sign anomalies in amounts: the ledger is a
// record of what brokers reported, and replay tolerates imperfect history.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction of type %s has no date", t.Type)
	}
	if t.Type.Flow() != FlowNeutral && !t.Quantity.IsZero() && t.Instrument == "" {
		return fmt.Errorf("%s on %s moves a position but names no instrument", t.Type, t.Date)
	}
	return nil
}
