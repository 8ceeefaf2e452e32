package kodak

import (
	"sort"

	"github.com/sstandnes/kodak/date"
)

// IncomeSummary is the all-time income and cost totals, base currency.
type IncomeSummary struct {
	Dividends Money
	Interest  Money
	Fees      Money
}

// feeOf returns the fee a transaction carries: the full amount of an
// explicit FEE event, or the embedded trade fee otherwise.
func feeOf(tx Transaction) Money {
	if tx.Type == Fee {
		return tx.AmountLocal.Abs()
	}
	return tx.FeeLocal.Abs()
}

// IncomeAndCosts sums all-time dividends, interest and fees. Fees combine
// explicit fee events with fees embedded in trades.
func (e *Engine) IncomeAndCosts() IncomeSummary {
	base := e.BaseCurrency
	s := IncomeSummary{Dividends: M(0, base), Interest: M(0, base), Fees: M(0, base)}
	for tx := range e.Ledger.Transactions() {
		switch tx.Type {
		case Dividend:
			s.Dividends = s.Dividends.Add(tx.AmountLocal)
		case Interest:
			s.Interest = s.Interest.Add(tx.AmountLocal.Abs())
		}
		s.Fees = s.Fees.Add(feeOf(tx))
	}
	return s
}

// YearlyAmount is one year's total for a single income or cost category.
type YearlyAmount struct {
	Year  int
	Total Money
}

// LabelAmount is a total attributed to one label: an instrument, a currency
// or an account.
type LabelAmount struct {
	Label string
	Total Money
}

// Payment is one income or cost event, for the recent-payments listings.
type Payment struct {
	Date        date.Date
	Currency    string
	Amount      Money // settlement currency magnitude
	AmountLocal Money // base currency magnitude
	Source      string
}

// recentPayments caps the detail listings; older events stay in the yearly
// totals only.
const recentPayments = 50

func sortYearly(m map[int]Money) []YearlyAmount {
	out := make([]YearlyAmount, 0, len(m))
	for y, t := range m {
		out = append(out, YearlyAmount{Year: y, Total: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func sortByTotal(m map[string]Money) []LabelAmount {
	out := make([]LabelAmount, 0, len(m))
	for l, t := range m {
		out = append(out, LabelAmount{Label: l, Total: t})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[j].Total.LessThan(out[i].Total)
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// DividendDetails breaks dividends down three ways: totals per year, top
// payers in the current year and top payers all time.
func (e *Engine) DividendDetails() (yearly []YearlyAmount, currentYear, allTime []LabelAmount) {
	thisYear := e.today().Year()
	byYear := make(map[int]Money)
	byPayerYear := make(map[string]Money)
	byPayer := make(map[string]Money)
	for tx := range e.Ledger.Transactions() {
		if tx.Type != Dividend {
			continue
		}
		byYear[tx.Date.Year()] = byYear[tx.Date.Year()].Add(tx.AmountLocal)
		label := tx.Instrument
		if ins := e.Ledger.Instrument(tx.Instrument); ins != nil {
			label = ins.Label()
		}
		byPayer[label] = byPayer[label].Add(tx.AmountLocal)
		if tx.Date.Year() == thisYear {
			byPayerYear[label] = byPayerYear[label].Add(tx.AmountLocal)
		}
	}
	return sortYearly(byYear), sortByTotal(byPayerYear), sortByTotal(byPayer)
}

// InterestDetails breaks interest down by year and by settlement currency,
// plus the most recent payments.
func (e *Engine) InterestDetails() (yearly []YearlyAmount, byCurrency []LabelAmount, recent []Payment) {
	byYear := make(map[int]Money)
	byCur := make(map[string]Money)
	for tx := range e.Ledger.Transactions() {
		if tx.Type != Interest {
			continue
		}
		byYear[tx.Date.Year()] = byYear[tx.Date.Year()].Add(tx.AmountLocal.Abs())
		byCur[tx.Currency()] = byCur[tx.Currency()].Add(tx.AmountLocal.Abs())
		recent = append(recent, Payment{
			Date:        tx.Date,
			Currency:    tx.Currency(),
			Amount:      tx.Amount.Abs(),
			AmountLocal: tx.AmountLocal.Abs(),
			Source:      tx.Source,
		})
	}
	recent = latestPayments(recent)
	return sortYearly(byYear), sortByTotal(byCur), recent
}

// FeeDetails breaks fees down by year and by settlement currency, plus the
// most recent charges. Explicit fee events and embedded trade fees are
// combined.
func (e *Engine) FeeDetails() (yearly []YearlyAmount, byCurrency []LabelAmount, recent []Payment) {
	byYear := make(map[int]Money)
	byCur := make(map[string]Money)
	for tx := range e.Ledger.Transactions() {
		fee := feeOf(tx)
		if fee.IsZero() {
			continue
		}
		byYear[tx.Date.Year()] = byYear[tx.Date.Year()].Add(fee)
		byCur[tx.Currency()] = byCur[tx.Currency()].Add(fee)
		recent = append(recent, Payment{
			Date:        tx.Date,
			Currency:    tx.Currency(),
			AmountLocal: fee,
			Source:      tx.Source,
		})
	}
	recent = latestPayments(recent)
	return sortYearly(byYear), sortByTotal(byCur), recent
}

func latestPayments(all []Payment) []Payment {
	sort.SliceStable(all, func(i, j int) bool { return all[j].Date.Before(all[i].Date) })
	if len(all) > recentPayments {
		all = all[:recentPayments]
	}
	return all
}

// AccountFees measures trading-fee drag for one account: fee cost per 100
// base-currency units traded.
type AccountFees struct {
	Account     string
	TotalTraded Money
	TotalFees   Money
	FeePer100   float64
	Trades      int
}

// FeeAnalysis aggregates embedded trade fees per account, cheapest venue
// first.
func (e *Engine) FeeAnalysis() []AccountFees {
	type acc struct {
		traded, fees Money
		trades       int
	}
	base := e.BaseCurrency
	byAccount := make(map[string]*acc)
	for tx := range e.Ledger.Transactions() {
		if !tx.Type.IsTrade() {
			continue
		}
		a, ok := byAccount[tx.Account]
		if !ok {
			a = &acc{traded: M(0, base), fees: M(0, base)}
			byAccount[tx.Account] = a
		}
		a.traded = a.traded.Add(tx.AmountLocal.Abs())
		a.fees = a.fees.Add(tx.FeeLocal.Abs())
		a.trades++
	}
	var out []AccountFees
	for name, a := range byAccount {
		row := AccountFees{Account: name, TotalTraded: a.traded, TotalFees: a.fees, Trades: a.trades}
		if traded := a.traded.AsFloat(); traded > 0 {
			row.FeePer100 = a.fees.AsFloat() / traded * 100
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FeePer100 != out[j].FeePer100 {
			return out[i].FeePer100 < out[j].FeePer100
		}
		return out[i].Account < out[j].Account
	})
	return out
}

// AccountCharges measures recurring platform and custody fees for one
// account.
type AccountCharges struct {
	Account    string
	TotalFees  Money
	MonthlyAvg Money
	Charges    int
}

// PlatformFees aggregates explicit fee events per account with an average
// monthly cost, most expensive first. Trading fees embedded in BUY/SELL
// events are excluded; FeeAnalysis covers those.
func (e *Engine) PlatformFees() []AccountCharges {
	type acc struct {
		fees        Money
		charges     int
		first, last date.Date
	}
	base := e.BaseCurrency
	byAccount := make(map[string]*acc)
	for tx := range e.Ledger.Transactions() {
		if tx.Type != Fee {
			continue
		}
		a, ok := byAccount[tx.Account]
		if !ok {
			a = &acc{fees: M(0, base), first: tx.Date, last: tx.Date}
			byAccount[tx.Account] = a
		}
		a.fees = a.fees.Add(tx.AmountLocal.Abs())
		a.charges++
		if tx.Date.Before(a.first) {
			a.first = tx.Date
		}
		if tx.Date.After(a.last) {
			a.last = tx.Date
		}
	}
	var out []AccountCharges
	for name, a := range byAccount {
		months := float64(date.DaysBetween(a.first, a.last)) / 30.44
		if months < 1 {
			months = 1
		}
		out = append(out, AccountCharges{
			Account:    name,
			TotalFees:  a.fees,
			MonthlyAvg: M(a.fees.AsFloat()/months, base),
			Charges:    a.charges,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MonthlyAvg.Equal(out[j].MonthlyAvg) {
			return out[j].MonthlyAvg.LessThan(out[i].MonthlyAvg)
		}
		return out[i].Account < out[j].Account
	})
	return out
}

// RealizedYear is one year of closed performance: average-cost realized
// gains plus the income and cost categories, base currency.
type RealizedYear struct {
	Year          int
	RealizedGains Money
	Dividends     Money
	Interest      Money
	Fees          Money
	Tax           Money
	Total         Money
}

// RealizedPerformance replays the full ledger and attributes realized gains,
// dividends, interest, fees and tax to the year they occurred.
//
// Disposal cost uses the running average. Gains are recognized on market
// disposals (sells, redemptions, exchange-outs); in-kind withdrawals and
// transfers reduce the inventory without realizing anything.
func (e *Engine) RealizedPerformance() []RealizedYear {
	base := e.BaseCurrency
	years := make(map[int]*RealizedYear)
	stat := func(y int) *RealizedYear {
		r, ok := years[y]
		if !ok {
			r = &RealizedYear{
				Year:          y,
				RealizedGains: M(0, base),
				Dividends:     M(0, base),
				Interest:      M(0, base),
				Fees:          M(0, base),
				Tax:           M(0, base),
			}
			years[y] = r
		}
		return r
	}

	positions := make(map[string]*wacBasis)
	for tx := range e.Ledger.Transactions() {
		y := tx.Date.Year()
		if !tx.FeeLocal.IsZero() {
			r := stat(y)
			r.Fees = r.Fees.Sub(tx.FeeLocal.Abs())
		}
		switch tx.Type {
		case Dividend:
			r := stat(y)
			r.Dividends = r.Dividends.Add(tx.AmountLocal)
		case Interest:
			r := stat(y)
			r.Interest = r.Interest.Add(tx.AmountLocal)
		case Tax:
			r := stat(y)
			r.Tax = r.Tax.Add(tx.AmountLocal)
		case Fee:
			r := stat(y)
			r.Fees = r.Fees.Sub(tx.AmountLocal.Abs())
		}

		if tx.Instrument == "" {
			continue
		}
		acc, ok := positions[tx.Instrument]
		if !ok {
			acc = &wacBasis{cost: M(0, base)}
			positions[tx.Instrument] = acc
		}
		switch tx.Type.Flow() {
		case FlowIn:
			acc.acquire(tx)
		case FlowOut:
			if acc.qty.IsPositive() {
				switch tx.Type {
				case Sell, Redemption, ExchangeOut:
					gain := tx.AmountLocal.Abs().Sub(acc.disposalCost(tx))
					r := stat(y)
					r.RealizedGains = r.RealizedGains.Add(gain)
				}
			}
			acc.dispose(tx)
			if acc.qty.IsDust() {
				positions[tx.Instrument] = &wacBasis{cost: M(0, base)}
			}
		}
	}

	var out []RealizedYear
	for _, r := range years {
		r.Total = r.RealizedGains.Add(r.Dividends).Add(r.Interest).Add(r.Fees).Add(r.Tax)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
