package kodak

import (
	"math"
	"sort"

	"github.com/sstandnes/kodak/date"
)

// CashFlow is one dated flow for money-weighted return. Negative amounts are
// money invested (outflow from the investor), positive amounts money
// returned, including the synthetic terminal flow carrying the ending
// valuation.
type CashFlow struct {
	On     date.Date
	Amount float64
}

const (
	xirrMaxIterations = 50
	xirrTolerance     = 1e-6
	xirrInitialRate   = 0.1
)

// Xirr solves for the annualized money-weighted return of a set of dated cash
// flows using Newton-Raphson on the net-present-value function
//
//	NPV(r) = sum_i amount_i / (1+r)^years_i, years_i = days(i, 0) / 365.
//
// Degenerate inputs (no flows, or all flows of one sign) have no root and
// return 0 immediately. If the iteration does not converge the last iterate
// is returned as a best-effort estimate; callers cannot distinguish that case
// and should treat extreme results with suspicion.
func Xirr(flows []CashFlow) float64 {
	if len(flows) == 0 {
		return 0
	}
	sorted := make([]CashFlow, len(flows))
	copy(sorted, flows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].On.Before(sorted[j].On) })

	allNonNegative, allNonPositive := true, true
	for _, f := range sorted {
		if f.Amount < 0 {
			allNonNegative = false
		}
		if f.Amount > 0 {
			allNonPositive = false
		}
	}
	if allNonNegative || allNonPositive {
		return 0
	}

	first := sorted[0].On
	years := make([]float64, len(sorted))
	for i, f := range sorted {
		years[i] = float64(date.DaysBetween(first, f.On)) / 365.0
	}

	rate := xirrInitialRate
	for i := 0; i < xirrMaxIterations; i++ {
		var npv, derivative float64
		for j, year := range years {
			amount := sorted[j].Amount
			base := 1 + rate
			if base <= 0 {
				// fractional powers of a non-positive base are undefined
				base = 1e-6
			}
			pow := math.Pow(base, year)
			npv += amount / pow
			derivative -= amount * year * math.Pow(base, year-1) / (pow * pow)
		}
		if math.Abs(npv) < xirrTolerance {
			return rate
		}
		if derivative == 0 {
			break
		}
		next := rate - npv/derivative
		if math.Abs(next-rate) < xirrTolerance {
			return next
		}
		rate = next
	}
	return rate
}
