package kodak

import (
	"math"
	"testing"
)

func TestFXPerformance_CashRealized(t *testing.T) {
	ledger := newTestLedger(t, nil,
		fxTrade("2024-01-10", "USD", 1000, 8),
		fxTrade("2024-03-10", "USD", -500, 9),
	)
	e := newTestEngine(t, ledger, nil, "2024-12-31")

	rows, _, err := e.FXPerformance()
	if err != nil {
		t.Fatalf("FXPerformance() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1: %+v", len(rows), rows)
	}
	row := rows[0]
	if row.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", row.Currency)
	}
	if !row.CashHoldings.Equal(Q(500)) {
		t.Errorf("CashHoldings = %s, want 500", row.CashHoldings)
	}
	// bought 1000 USD at 8, sold 500 back at 9: 500 NOK realized
	if math.Abs(row.RealizedCashPL.AsFloat()-500) > 1e-9 {
		t.Errorf("RealizedCashPL = %s, want 500", row.RealizedCashPL)
	}
	// remaining 500 USD cost 4000, marked at the nearest known rate of 9
	if math.Abs(row.UnrealizedCashPL.AsFloat()-500) > 1e-9 {
		t.Errorf("UnrealizedCashPL = %s, want 500", row.UnrealizedCashPL)
	}
	if math.Abs(row.TotalRealizedPL.AsFloat()-500) > 1e-9 {
		t.Errorf("TotalRealizedPL = %s, want 500", row.TotalRealizedPL)
	}
}

func TestFXPerformance_SecuritiesRealized(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{apple},
		buy("2023-01-10", apple, 10, 100, 8),
		sell("2024-01-10", apple, 10, 100, 9),
	)
	e := newTestEngine(t, ledger, nil, "2024-12-31")

	rows, _, err := e.FXPerformance()
	if err != nil {
		t.Fatalf("FXPerformance() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1: %+v", len(rows), rows)
	}
	row := rows[0]
	// the share price never moved; 1000 USD of proceeds repatriated at 9
	// against a blended purchase rate of 8 is pure currency profit
	if math.Abs(row.RealizedSecuritiesPL.AsFloat()-1000) > 1e-9 {
		t.Errorf("RealizedSecuritiesPL = %s, want 1000", row.RealizedSecuritiesPL)
	}
	if !row.UnrealizedSecuritiesPL.IsZero() {
		t.Errorf("UnrealizedSecuritiesPL = %s, want 0 for a closed position", row.UnrealizedSecuritiesPL)
	}
	if !row.CashHoldings.IsZero() {
		t.Errorf("CashHoldings = %s, want 0: trade legs never touch cash inventory", row.CashHoldings)
	}
}

func TestFXPerformance_SecuritiesUnrealized(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{apple},
		buy("2023-01-10", apple, 10, 100, 8),
	)
	provider := NewStaticMarketData()
	provider.Append("AAPL", day("2024-12-31"), 100)
	provider.Append("USDNOK=X", day("2024-12-31"), 10)
	e := newTestEngine(t, ledger, provider, "2024-12-31")

	rows, _, err := e.FXPerformance()
	if err != nil {
		t.Fatalf("FXPerformance() error = %v", err)
	}
	row := rows[0]
	// 1000 USD of market value, rate drifted from 8 to 10
	if math.Abs(row.UnrealizedSecuritiesPL.AsFloat()-2000) > 1e-9 {
		t.Errorf("UnrealizedSecuritiesPL = %s, want 2000", row.UnrealizedSecuritiesPL)
	}
	if !row.RealizedSecuritiesPL.IsZero() {
		t.Errorf("RealizedSecuritiesPL = %s, want 0 with nothing sold", row.RealizedSecuritiesPL)
	}
}

func TestFXPerformance_BaseCurrencyInstrumentsExcluded(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{equinor},
		buy("2024-01-10", equinor, 10, 100, 0),
	)
	e := newTestEngine(t, ledger, nil, "2024-12-31")

	rows, _, err := e.FXPerformance()
	if err != nil {
		t.Fatalf("FXPerformance() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0 for a base-currency portfolio", len(rows))
	}
}

func TestFXCashState_DustResets(t *testing.T) {
	s := &fxCashState{}
	s.apply(1000, -8000)
	s.apply(-999.995, 9000)
	if s.holdings != 0 || s.cost != 0 {
		t.Errorf("holdings, cost = %v, %v, want 0, 0 after sub-cent residue", s.holdings, s.cost)
	}
}

func TestForeignAmount(t *testing.T) {
	usdSettled := buy("2024-01-10", apple, 10, 100, 8)
	if got := foreignAmount(usdSettled, "USD"); got != 1000 {
		t.Errorf("foreignAmount = %v, want the 1000 settlement amount", got)
	}

	// settled in base, converted back through the recorded rate
	nokSettled := Transaction{
		Instrument:   apple.ISIN,
		Date:         day("2024-01-10"),
		Type:         Buy,
		Quantity:     Q(10),
		Amount:       NOK(-8000),
		ExchangeRate: Q(8),
		AmountLocal:  NOK(-8000),
	}
	if got := foreignAmount(nokSettled, "USD"); got != 1000 {
		t.Errorf("foreignAmount = %v, want 8000 / 8 = 1000", got)
	}
}
