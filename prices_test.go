package kodak

import (
	"testing"

	"github.com/rs/zerolog"
)

func newTestResolver(t *testing.T, ledger *Ledger) *PriceResolver {
	t.Helper()
	return NewPriceResolver(ledger, "NOK", NewPriceCache(zerolog.Nop()))
}

func TestResolve_LivePriceWins(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{equinor},
		buy("2024-01-10", equinor, 10, 100, 0),
	)
	r := newTestResolver(t, ledger)

	var diags []PriceDiagnostic
	live := map[string]float64{"EQNR": 123.5}
	if got := r.Resolve("EQNR", day("2024-06-01"), live, &diags); got != 123.5 {
		t.Errorf("Resolve = %v, want the live 123.5", got)
	}
	if len(diags) != 0 {
		t.Errorf("got %d diagnostics, want none for a live price", len(diags))
	}
}

func TestResolve_ZeroLivePriceFallsThrough(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{equinor},
		buy("2024-01-10", equinor, 10, 100, 0),
	)
	r := newTestResolver(t, ledger)

	var diags []PriceDiagnostic
	live := map[string]float64{"EQNR": 0}
	if got := r.Resolve("EQNR", day("2024-06-01"), live, &diags); got != 100 {
		t.Errorf("Resolve = %v, want the 100 trade fallback", got)
	}
}

func TestResolve_NearestTrade(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{equinor},
		buy("2024-01-01", equinor, 10, 100, 0),
		buy("2024-01-11", equinor, 10, 200, 0),
	)

	tests := []struct {
		name string
		on   string
		want float64
	}{
		{"closer to the first trade", "2024-01-03", 100},
		{"closer to the second trade", "2024-01-09", 200},
		{"future trade can be nearest", "2024-01-08", 200},
		{"equidistant resolves to the earliest", "2024-01-06", 100},
		{"long after both", "2025-06-01", 200},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestResolver(t, ledger)
			var diags []PriceDiagnostic
			if got := r.Resolve("EQNR", day(tc.on), nil, &diags); got != tc.want {
				t.Errorf("Resolve(EQNR @ %s) = %v, want %v", tc.on, got, tc.want)
			}
			if len(diags) != 1 || diags[0].Tier != TierTransaction {
				t.Fatalf("diags = %+v, want one transaction-tier entry", diags)
			}
		})
	}
}

func TestResolve_ZeroPriceTradesIgnored(t *testing.T) {
	// in-kind transfers carry no price and must not become a fallback
	transfer := Transaction{
		Instrument:  equinor.ISIN,
		Date:        day("2024-06-01"),
		Type:        TransferIn,
		Quantity:    Q(10),
		Amount:      NOK(0),
		AmountLocal: NOK(5000),
	}
	ledger := newTestLedger(t, []Instrument{equinor},
		buy("2024-01-01", equinor, 10, 100, 0),
		transfer,
	)
	r := newTestResolver(t, ledger)
	var diags []PriceDiagnostic
	if got := r.Resolve("EQNR", day("2024-06-01"), nil, &diags); got != 100 {
		t.Errorf("Resolve = %v, want 100 from the only priced trade", got)
	}
}

func TestResolve_MissingPrice(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{equinor})
	r := newTestResolver(t, ledger)

	var diags []PriceDiagnostic
	if got := r.Resolve("EQNR", day("2024-06-01"), nil, &diags); got != 0 {
		t.Errorf("Resolve = %v, want 0 when nothing resolves", got)
	}
	if len(diags) != 1 || diags[0].Tier != TierMissing || diags[0].Price != 0 {
		t.Fatalf("diags = %+v, want one missing-tier entry at price 0", diags)
	}
}

func TestResolve_CurrencyPair(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{apple},
		buy("2024-01-01", apple, 10, 100, 10.2),
		buy("2024-08-01", apple, 10, 100, 11.0),
	)
	r := newTestResolver(t, ledger)

	var diags []PriceDiagnostic
	if got := r.Resolve("USDNOK=X", day("2024-02-01"), nil, &diags); got != 10.2 {
		t.Errorf("Resolve(USDNOK=X) = %v, want the nearest embedded rate 10.2", got)
	}
	if len(diags) != 1 || diags[0].Tier != TierExchangeRate {
		t.Fatalf("diags = %+v, want one exchange-rate-tier entry", diags)
	}
}

func TestResolve_CurrencyPairDefaultsToParity(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{equinor},
		buy("2024-01-01", equinor, 10, 100, 0),
	)
	r := newTestResolver(t, ledger)

	// no EUR history anywhere: parity, and no diagnostic for it
	var diags []PriceDiagnostic
	if got := r.Resolve("EURNOK=X", day("2024-02-01"), nil, &diags); got != 1.0 {
		t.Errorf("Resolve(EURNOK=X) = %v, want 1.0", got)
	}
	if len(diags) != 0 {
		t.Errorf("diags = %+v, want none for the parity default", diags)
	}
}

func TestResolve_CachesPerRun(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{equinor},
		buy("2024-01-01", equinor, 10, 100, 0),
	)
	r := newTestResolver(t, ledger)

	var diags []PriceDiagnostic
	r.Resolve("EQNR", day("2024-06-01"), nil, &diags)
	r.Resolve("EQNR", day("2024-06-01"), nil, &diags)
	if len(diags) != 1 {
		t.Errorf("got %d diagnostics for a repeated lookup, want 1", len(diags))
	}

	// a different date is a different cache entry
	r.Resolve("EQNR", day("2024-07-01"), nil, &diags)
	if len(diags) != 2 {
		t.Errorf("got %d diagnostics after a new date, want 2", len(diags))
	}
}

func TestPairSymbol(t *testing.T) {
	if got := PairSymbol("USD", "NOK"); got != "USDNOK=X" {
		t.Errorf("PairSymbol = %q, want USDNOK=X", got)
	}
}

func TestPriceCache_RunID(t *testing.T) {
	a := NewPriceCache(zerolog.Nop())
	b := NewPriceCache(zerolog.Nop())
	if a.RunID() == "" || a.RunID() == b.RunID() {
		t.Errorf("run ids should be distinct and non-empty: %q, %q", a.RunID(), b.RunID())
	}
}
