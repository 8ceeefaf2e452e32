package kodak

import (
	"math"
	"testing"

	"github.com/sstandnes/kodak/date"
)

func TestXirr_DoublingInOneYear(t *testing.T) {
	flows := []CashFlow{
		{On: day("2023-01-01"), Amount: -1000},
		{On: day("2024-01-01"), Amount: 2000},
	}
	got := Xirr(flows)
	if math.Abs(got-1.0) > 0.01 {
		t.Errorf("Xirr = %v, want ~1.0 (100%% annualized)", got)
	}
}

func TestXirr_FlatPortfolio(t *testing.T) {
	flows := []CashFlow{
		{On: day("2023-01-01"), Amount: -1000},
		{On: day("2024-01-01"), Amount: 1000},
	}
	got := Xirr(flows)
	if math.Abs(got) > 0.001 {
		t.Errorf("Xirr = %v, want ~0", got)
	}
}

func TestXirr_TenPercentOverTwoYears(t *testing.T) {
	// 1000 grows to 1210 over exactly two 365-day years: 10% annualized
	flows := []CashFlow{
		{On: day("2023-01-01"), Amount: -1000},
		{On: day("2023-01-01").Add(730), Amount: 1210},
	}
	got := Xirr(flows)
	if math.Abs(got-0.10) > 0.001 {
		t.Errorf("Xirr = %v, want ~0.10", got)
	}
}

func TestXirr_Degenerate(t *testing.T) {
	tests := []struct {
		name  string
		flows []CashFlow
	}{
		{"no flows", nil},
		{"all positive", []CashFlow{{On: day("2023-01-01"), Amount: 100}, {On: day("2024-01-01"), Amount: 200}}},
		{"all negative", []CashFlow{{On: day("2023-01-01"), Amount: -100}, {On: day("2024-01-01"), Amount: -200}}},
		{"zeros only", []CashFlow{{On: day("2023-01-01"), Amount: 0}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Xirr(tc.flows); got != 0 {
				t.Errorf("Xirr = %v, want 0", got)
			}
		})
	}
}

func TestXirr_UnsortedInput(t *testing.T) {
	flows := []CashFlow{
		{On: day("2024-01-01"), Amount: 2000},
		{On: day("2023-01-01"), Amount: -1000},
	}
	got := Xirr(flows)
	if math.Abs(got-1.0) > 0.01 {
		t.Errorf("Xirr = %v, want ~1.0 regardless of input order", got)
	}
}

func TestXirr_IntermediateFlows(t *testing.T) {
	// invest twice, recover everything with a gain: the rate is positive
	// and NPV at the solution is ~0
	flows := []CashFlow{
		{On: day("2022-01-01"), Amount: -1000},
		{On: day("2022-07-01"), Amount: -500},
		{On: day("2023-07-01"), Amount: 1800},
	}
	rate := Xirr(flows)
	if rate <= 0 {
		t.Fatalf("Xirr = %v, want positive", rate)
	}
	first := flows[0].On
	var npv float64
	for _, f := range flows {
		years := float64(date.DaysBetween(first, f.On)) / 365.0
		npv += f.Amount / math.Pow(1+rate, years)
	}
	if math.Abs(npv) > 1e-3 {
		t.Errorf("NPV at solved rate = %v, want ~0", npv)
	}
}
