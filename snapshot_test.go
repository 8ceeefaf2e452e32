package kodak

import (
	"errors"
	"math"
	"testing"
)

func TestSnapshotAt_EmptyLedger(t *testing.T) {
	ledger := newTestLedger(t, nil)
	e := newTestEngine(t, ledger, nil, "2024-12-31")

	snap, err := e.SnapshotAt(day("2024-12-31"), NewPriceCache(e.Log), nil)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	if len(snap.Holdings) != 0 {
		t.Errorf("got %d holdings, want 0", len(snap.Holdings))
	}
	if !snap.Total.IsZero() {
		t.Errorf("Total = %s, want 0", snap.Total)
	}
}

func TestSnapshotAt_ValuesFromProvider(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{equinor},
		deposit("2024-01-05", 10000),
		buy("2024-01-10", equinor, 10, 100, 0),
	)
	provider := NewStaticMarketData()
	provider.Append("EQNR", day("2024-12-30"), 150)
	e := newTestEngine(t, ledger, provider, "2024-12-31")

	var diags []PriceDiagnostic
	snap, err := e.SnapshotAt(day("2024-12-31"), NewPriceCache(e.Log), &diags)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	if len(snap.Holdings) != 1 {
		t.Fatalf("got %d holdings, want 1", len(snap.Holdings))
	}
	h := snap.Holdings[0]
	if h.Price != 150 || h.Rate != 1 {
		t.Errorf("Price, Rate = %v, %v, want 150, 1", h.Price, h.Rate)
	}
	if !h.Value.Equal(NOK(1500)) {
		t.Errorf("Value = %s, want 1500", h.Value)
	}
	if !snap.Cash.Equal(NOK(9000)) {
		t.Errorf("Cash = %s, want 9000", snap.Cash)
	}
	if !snap.Total.Equal(NOK(10500)) {
		t.Errorf("Total = %s, want 10500", snap.Total)
	}
	if len(diags) != 0 {
		t.Errorf("diags = %+v, want none with a live price", diags)
	}
}

func TestSnapshotAt_ForeignInstrument(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{apple},
		deposit("2024-01-05", 50000),
		buy("2024-01-10", apple, 10, 100, 10),
	)
	provider := NewStaticMarketData()
	provider.Append("AAPL", day("2024-12-30"), 200)
	provider.Append("USDNOK=X", day("2024-12-30"), 11)
	e := newTestEngine(t, ledger, provider, "2024-12-31")

	snap, err := e.SnapshotAt(day("2024-12-31"), NewPriceCache(e.Log), nil)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	h := snap.Holdings[0]
	if h.Rate != 11 {
		t.Errorf("Rate = %v, want 11", h.Rate)
	}
	if !h.Value.Equal(NOK(22000)) {
		t.Errorf("Value = %s, want 10 * 200 * 11 = 22000", h.Value)
	}
	if !snap.Cash.Equal(NOK(40000)) {
		t.Errorf("Cash = %s, want 40000", snap.Cash)
	}
}

func TestSnapshotAt_ForeignRateFromLedger(t *testing.T) {
	// no provider rate: the embedded exchange rate of the nearest
	// transaction stands in
	ledger := newTestLedger(t, []Instrument{apple},
		buy("2024-01-10", apple, 10, 100, 10),
	)
	provider := NewStaticMarketData()
	provider.Append("AAPL", day("2024-12-30"), 200)
	e := newTestEngine(t, ledger, provider, "2024-12-31")

	var diags []PriceDiagnostic
	snap, err := e.SnapshotAt(day("2024-12-31"), NewPriceCache(e.Log), &diags)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	h := snap.Holdings[0]
	if h.Rate != 10 {
		t.Errorf("Rate = %v, want the embedded 10", h.Rate)
	}
	if len(diags) != 1 || diags[0].Tier != TierExchangeRate {
		t.Fatalf("diags = %+v, want one exchange-rate entry", diags)
	}
}

func TestSnapshotAt_UnpricedHoldingValuedAtCost(t *testing.T) {
	transfer := Transaction{
		Instrument:  equinor.ISIN,
		Date:        day("2024-01-10"),
		Type:        TransferIn,
		Quantity:    Q(10),
		Amount:      NOK(0),
		AmountLocal: NOK(5000),
	}
	ledger := newTestLedger(t, []Instrument{equinor}, transfer)
	e := newTestEngine(t, ledger, nil, "2024-12-31")

	var diags []PriceDiagnostic
	snap, err := e.SnapshotAt(day("2024-12-31"), NewPriceCache(e.Log), &diags)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	h := snap.Holdings[0]
	if h.Price != 0 {
		t.Errorf("Price = %v, want 0", h.Price)
	}
	if !h.Value.Equal(NOK(5000)) {
		t.Errorf("Value = %s, want the 5000 cost basis", h.Value)
	}
	if len(diags) != 1 || diags[0].Tier != TierMissing {
		t.Fatalf("diags = %+v, want one missing-tier entry", diags)
	}
}

func TestSnapshotAt_SplitAdjustedQuantity(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{apple},
		buy("2024-01-10", apple, 10, 1000, 10),
		corpAction("2024-06-01", apple, ExchangeOut, -10),
		corpAction("2024-06-01", apple, ExchangeIn, 100),
	)
	provider := NewStaticMarketData()
	// post-split price scale
	provider.Append("AAPL", day("2024-03-01"), 110)
	provider.Append("USDNOK=X", day("2024-03-01"), 10)
	e := newTestEngine(t, ledger, provider, "2024-12-31")

	// before the split the ledger holds 10 shares; the valuation scales them
	// to the present-day 100
	snap, err := e.SnapshotAt(day("2024-03-01"), NewPriceCache(e.Log), nil)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	h := snap.Holdings[0]
	if !h.Quantity.Equal(Q(10)) {
		t.Errorf("Quantity = %s, want the raw 10", h.Quantity)
	}
	if !h.AdjustedQuantity.Equal(Q(100)) {
		t.Errorf("AdjustedQuantity = %s, want 100", h.AdjustedQuantity)
	}
	if !h.Value.Equal(NOK(110000)) {
		t.Errorf("Value = %s, want 100 * 110 * 10 = 110000", h.Value)
	}
}

func TestHoldings_DustPositionsClosed(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{equinor},
		buy("2024-01-10", equinor, 10, 100, 0),
		sell("2024-02-10", equinor, 10, 120, 0),
	)
	e := newTestEngine(t, ledger, nil, "2024-12-31")

	holdings, err := e.Holdings(day("2024-12-31"), AverageCost)
	if err != nil {
		t.Fatalf("Holdings() error = %v", err)
	}
	if len(holdings) != 0 {
		t.Errorf("got %d holdings, want 0 for a closed position", len(holdings))
	}
}

func TestHoldings_UndeclaredInstrumentFails(t *testing.T) {
	ledger := NewLedger()
	if err := ledger.Append(buy("2024-01-10", equinor, 10, 100, 0)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	e := newTestEngine(t, ledger, nil, "2024-12-31")

	_, err := e.Holdings(day("2024-12-31"), AverageCost)
	var undeclared *UndeclaredInstrumentError
	if !errors.As(err, &undeclared) {
		t.Fatalf("Holdings() error = %v, want UndeclaredInstrumentError", err)
	}
	if undeclared.ID != equinor.ISIN {
		t.Errorf("ID = %q, want %q", undeclared.ID, equinor.ISIN)
	}
}

func TestValueAt_MatchesSnapshotTotal(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{equinor},
		deposit("2024-01-05", 10000),
		buy("2024-01-10", equinor, 10, 100, 0),
	)
	provider := NewStaticMarketData()
	provider.Append("EQNR", day("2024-12-30"), 150)
	e := newTestEngine(t, ledger, provider, "2024-12-31")

	value, err := e.ValueAt(day("2024-12-31"), NewPriceCache(e.Log), nil)
	if err != nil {
		t.Fatalf("ValueAt() error = %v", err)
	}
	snap, err := e.SnapshotAt(day("2024-12-31"), NewPriceCache(e.Log), nil)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	if math.Abs(value.AsFloat()-snap.Total.AsFloat()) > 1e-9 {
		t.Errorf("ValueAt = %s, SnapshotAt total = %s", value, snap.Total)
	}
}
