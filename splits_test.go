package kodak

import "testing"

func corpAction(on string, ins Instrument, typ TransactionType, qty float64) Transaction {
	return Transaction{
		Instrument:  ins.ISIN,
		Date:        day(on),
		Type:        typ,
		Quantity:    Q(qty),
		Amount:      M(0, ins.Currency),
		AmountLocal: NOK(0),
	}
}

func TestSplits_PairedExchangeIsASplit(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{apple},
		buy("2024-01-10", apple, 10, 1000, 10),
		corpAction("2024-06-01", apple, ExchangeOut, -10),
		corpAction("2024-06-01", apple, ExchangeIn, 100),
	)
	table := ledger.Splits()
	events := table["AAPL"]
	if len(events) != 1 {
		t.Fatalf("got %d split events, want 1", len(events))
	}
	if !events[0].Ratio.Equal(Q(10)) {
		t.Errorf("Ratio = %s, want 10", events[0].Ratio)
	}
	if events[0].On != day("2024-06-01") {
		t.Errorf("On = %s, want 2024-06-01", events[0].On)
	}
}

func TestSplits_UnpairedExchangeIsNotASplit(t *testing.T) {
	// an exchange-in with no same-day exchange-out is a security swap
	ledger := newTestLedger(t, []Instrument{apple},
		corpAction("2024-06-01", apple, ExchangeIn, 100),
	)
	if table := ledger.Splits(); len(table) != 0 {
		t.Errorf("got %d symbols with splits, want 0: %v", len(table), table)
	}
}

func TestSplits_DifferentDaysDoNotPair(t *testing.T) {
	ledger := newTestLedger(t, []Instrument{apple},
		corpAction("2024-06-01", apple, ExchangeOut, -10),
		corpAction("2024-06-02", apple, ExchangeIn, 100),
	)
	if table := ledger.Splits(); len(table) != 0 {
		t.Errorf("got %d symbols with splits, want 0: %v", len(table), table)
	}
}

func TestSplitTable_Adjust(t *testing.T) {
	table := SplitTable{
		"AAPL": {
			{Symbol: "AAPL", On: day("2023-06-01"), Ratio: Q(4)},
			{Symbol: "AAPL", On: day("2024-06-01"), Ratio: Q(10)},
		},
	}
	tests := []struct {
		name string
		ref  string
		want Quantity
	}{
		{"before both splits", "2023-01-01", Q(400)},
		{"between the splits", "2023-12-31", Q(100)},
		{"on the split day", "2024-06-01", Q(10)},
		{"after both splits", "2024-12-31", Q(10)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := table.Adjust("AAPL", Q(10), day(tc.ref))
			if !got.Equal(tc.want) {
				t.Errorf("Adjust(10 @ %s) = %s, want %s", tc.ref, got, tc.want)
			}
		})
	}
}

func TestSplitTable_AdjustUnknownSymbol(t *testing.T) {
	table := SplitTable{}
	if got := table.Adjust("EQNR", Q(10), day("2024-01-01")); !got.Equal(Q(10)) {
		t.Errorf("Adjust = %s, want unchanged 10", got)
	}
}
