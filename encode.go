package kodak

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sstandnes/kodak/date"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The ledger persists as a single JSONL file, one object per line, readable
// and diffable under version control. Instrument declarations come first
// (type DECLARE), then transactions in date order. Monetary fields are bare
// decimals; the settlement currency is its own field and amountLocal is in
// the configured base currency.

// declareType marks an instrument declaration line. It is a codec
// discriminator, not a member of the transaction type set.
const declareType = "DECLARE"

// MarshalJSON writes the transaction with a stable field order, omitting
// fields a cash-only event does not carry.
func (t Transaction) MarshalJSON() ([]byte, error) {
	w := &jsonObjectWriter{}
	w.Append("type", t.Type).
		Append("date", t.Date).
		Optional("account", t.Account).
		Optional("instrument", t.Instrument)
	if !t.Quantity.IsZero() {
		w.Append("quantity", t.Quantity)
	}
	if !t.Price.IsZero() {
		w.Append("price", t.Price)
	}
	w.Optional("currency", t.Currency()).
		Append("amount", t.Amount)
	if !t.ExchangeRate.IsZero() {
		w.Append("exchangeRate", t.ExchangeRate)
	}
	w.Append("amountLocal", t.AmountLocal)
	if !t.Fee.IsZero() {
		w.Append("fee", t.Fee)
	}
	if !t.FeeLocal.IsZero() {
		w.Append("feeLocal", t.FeeLocal)
	}
	w.Optional("source", t.Source)
	return w.MarshalJSON()
}

// jtransaction is the decoding shape of a transaction line. Monetary fields
// decode as bare decimals and are recombined with their currency afterwards.
type jtransaction struct {
	Type         TransactionType `json:"type"`
	Date         date.Date       `json:"date"`
	Account      string          `json:"account"`
	Instrument   string          `json:"instrument"`
	Quantity     Quantity        `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	ExchangeRate Quantity        `json:"exchangeRate"`
	AmountLocal  decimal.Decimal `json:"amountLocal"`
	Fee          decimal.Decimal `json:"fee"`
	FeeLocal     decimal.Decimal `json:"feeLocal"`
	Source       string          `json:"source"`
}

func (j jtransaction) transaction(baseCurrency string) Transaction {
	return Transaction{
		Account:      j.Account,
		Instrument:   j.Instrument,
		Date:         j.Date,
		Type:         j.Type,
		Quantity:     j.Quantity,
		Price:        M(j.Price, j.Currency),
		Amount:       M(j.Amount, j.Currency),
		ExchangeRate: j.ExchangeRate,
		AmountLocal:  M(j.AmountLocal, baseCurrency),
		Fee:          M(j.Fee, j.Currency),
		FeeLocal:     M(j.FeeLocal, baseCurrency),
		Source:       j.Source,
	}
}

// EncodeInstrument writes one instrument declaration line.
func EncodeInstrument(w io.Writer, ins Instrument) error {
	obj := &jsonObjectWriter{}
	obj.Append("type", declareType).
		Append("isin", ins.ISIN).
		Optional("symbol", ins.Symbol).
		Optional("currency", ins.Currency).
		Optional("sector", ins.Sector).
		Optional("region", ins.Region).
		Optional("asset_class", ins.AssetClass)
	jsonData, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal instrument %s: %w", ins.ISIN, err)
	}
	if _, err := w.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write instrument %s: %w", ins.ISIN, err)
	}
	return nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to
// the writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	jsonData, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger persists the whole ledger to an io.Writer in JSONL format:
// instrument declarations sorted by ISIN, then transactions in date order.
// The sort is stable, so transactions on the same day keep their relative
// order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	var instruments []Instrument
	for ins := range ledger.Instruments() {
		instruments = append(instruments, ins)
	}
	sort.Slice(instruments, func(i, j int) bool { return instruments[i].ISIN < instruments[j].ISIN })
	for _, ins := range instruments {
		if err := EncodeInstrument(w, ins); err != nil {
			return err
		}
	}

	ledger.stableSort()
	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLedger reads a JSONL stream and rebuilds the ledger. Amounts in the
// local fields are interpreted in baseCurrency. Lines are validated as they
// are appended; the first bad line aborts the decode.
func DecodeLedger(r io.Reader, baseCurrency string) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var identifier struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify line %q: %w", n, string(line), err)
		}

		if identifier.Type == declareType {
			var ins Instrument
			if err := json.Unmarshal(line, &ins); err != nil {
				return nil, fmt.Errorf("line %d: bad instrument declaration: %w", n, err)
			}
			if err := ledger.DeclareInstrument(ins); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			continue
		}

		var j jtransaction
		if err := json.Unmarshal(line, &j); err != nil {
			return nil, fmt.Errorf("line %d: bad transaction: %w", n, err)
		}
		if err := ledger.Append(j.transaction(baseCurrency)); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return ledger, nil
}
