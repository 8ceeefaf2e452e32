package kodak

import (
	"sort"

	"github.com/sstandnes/kodak/date"
)

// EquityPoint is one year of the portfolio equity curve.
type EquityPoint struct {
	Year        int
	StartEquity Money
	NetFlow     Money // external deposits minus withdrawals during the year
	EndEquity   Money
	Profit      Money   // EndEquity - StartEquity - NetFlow
	Return      Percent // money-weighted return for the year
}

// ContributionRow attributes one slice of a year's profit: an instrument, a
// cost category ([Fees], [Interest], [Div Tax]) or the residual
// [Cash FX & Float] bucket.
type ContributionRow struct {
	Label        string
	SOYValue     Money
	EOYValue     Money
	NetAdditions Money
	Dividends    Money
	Profit       Money
	IRR          Percent
	Contribution Percent
}

// Category labels for non-instrument contribution rows. The starred residual
// bucket collects profit the instrument and category rows cannot explain:
// FX drift on uninvested cash, margin effects and rounding.
const (
	RowFees        = "[Fees]"
	RowInterest    = "[Interest]"
	RowDividendTax = "[Div Tax]"
	RowCashFloat   = "[Cash FX & Float]*"
)

// yearlyFlows collects the external cash flows (deposits, withdrawals,
// transfers) per calendar year, as investor-signed XIRR flows.
func (e *Engine) yearlyFlows() map[int][]CashFlow {
	flows := make(map[int][]CashFlow)
	for tx := range e.Ledger.Transactions() {
		if !tx.Type.IsExternal() {
			continue
		}
		y := tx.Date.Year()
		// a deposit is money the investor put in: an outflow from the
		// investor's point of view, hence the sign flip
		flows[y] = append(flows[y], CashFlow{On: tx.Date, Amount: -tx.AmountLocal.AsFloat()})
	}
	return flows
}

// replayState is the incremental valuation state shared by the yearly
// replayers: per-instrument average-cost positions and the cash balance.
type replayState struct {
	cur       string
	positions map[string]*wacBasis // by ISIN
	cash      Money
}

func newReplayState(baseCurrency string) *replayState {
	return &replayState{
		cur:       baseCurrency,
		positions: make(map[string]*wacBasis),
		cash:      M(0, baseCurrency),
	}
}

// apply folds one transaction into the state.
func (s *replayState) apply(tx Transaction) {
	s.cash = s.cash.Add(tx.AmountLocal)
	if tx.Instrument == "" {
		return
	}
	acc, ok := s.positions[tx.Instrument]
	if !ok {
		acc = &wacBasis{cost: M(0, s.cur)}
		s.positions[tx.Instrument] = acc
	}
	switch tx.Type.Flow() {
	case FlowIn:
		acc.acquire(tx)
	case FlowOut:
		acc.dispose(tx)
	}
}

// dropDust removes closed positions from the state.
func (s *replayState) dropDust() {
	for isin, acc := range s.positions {
		if acc.position().Quantity.IsDust() {
			delete(s.positions, isin)
		}
	}
}

// valueHoldings prices every open position for a date, falling back to cost
// basis when unpriced, and returns the total holdings value.
func (e *Engine) valueHoldings(s *replayState, on date.Date, splits SplitTable, resolver *PriceResolver, diags *[]PriceDiagnostic) (Money, error) {
	var instruments []Instrument
	for isin := range s.positions {
		ins := e.Ledger.Instrument(isin)
		if ins == nil {
			return Money{}, errUndeclared(isin)
		}
		instruments = append(instruments, *ins)
	}
	sort.Slice(instruments, func(i, j int) bool { return instruments[i].Label() < instruments[j].Label() })
	live := e.fetchLive(e.fetchList(instruments), on)

	total := M(0, e.BaseCurrency)
	for _, ins := range instruments {
		pos := s.positions[ins.ISIN].position()
		total = total.Add(e.valuePosition(ins, pos, on, splits, resolver, live, diags))
	}
	return total, nil
}

// valuePosition prices one position for a date: split-adjusted quantity ×
// price × currency rate, or the cost basis when no price resolves.
func (e *Engine) valuePosition(ins Instrument, pos Position, on date.Date, splits SplitTable, resolver *PriceResolver, live map[string]float64, diags *[]PriceDiagnostic) Money {
	symbol := ins.Label()
	price := resolver.Resolve(symbol, on, live, diags)
	if price <= 0 {
		return pos.CostBasis
	}
	rate := 1.0
	if ins.Currency != "" && ins.Currency != e.BaseCurrency {
		rate = resolver.Resolve(PairSymbol(ins.Currency, e.BaseCurrency), on, live, diags)
	}
	adjusted := splits.Adjust(symbol, pos.Quantity, on)
	return M(adjusted.AsFloat()*price*rate, e.BaseCurrency)
}

// YearlyEquityCurve walks the ledger year by year, valuing the portfolio at
// each year end, and reports equity, net external flow, profit and the
// money-weighted return per year. The diagnostics list discloses every
// fallback price used along the curve.
func (e *Engine) YearlyEquityCurve() ([]EquityPoint, []PriceDiagnostic, error) {
	if _, _, ok := e.Ledger.Bounds(); !ok {
		return nil, nil, nil
	}

	cache := NewPriceCache(e.Log)
	resolver := NewPriceResolver(e.Ledger, e.BaseCurrency, cache)
	splits := e.Ledger.Splits()
	flows := e.yearlyFlows()

	var (
		points     []EquityPoint
		diags      []PriceDiagnostic
		state      = newReplayState(e.BaseCurrency)
		prevEquity = M(0, e.BaseCurrency)
		txIter     = make([]Transaction, 0, e.Ledger.Len())
	)
	var years []int
	for tx := range e.Ledger.Transactions() {
		txIter = append(txIter, tx)
		if n := len(years); n == 0 || years[n-1] != tx.Date.Year() {
			years = append(years, tx.Date.Year())
		}
	}

	// only years with activity get a point; the cursor walks the sorted
	// transaction slice once across all years
	i := 0
	for _, year := range years {
		for i < len(txIter) && txIter[i].Date.Year() == year {
			state.apply(txIter[i])
			i++
		}
		state.dropDust()

		yearEnd := date.YearRange(year).To
		holdingsValue, err := e.valueHoldings(state, yearEnd, splits, resolver, &diags)
		if err != nil {
			return nil, diags, err
		}
		equity := holdingsValue.Add(state.cash)

		yearFlows := flows[year]
		netFlow := M(0, e.BaseCurrency)
		for _, f := range yearFlows {
			netFlow = netFlow.Add(M(-f.Amount, e.BaseCurrency))
		}

		var xFlows []CashFlow
		if prevEquity.IsPositive() {
			xFlows = append(xFlows, CashFlow{On: date.YearRange(year - 1).To, Amount: -prevEquity.AsFloat()})
		}
		xFlows = append(xFlows, yearFlows...)
		if equity.IsPositive() {
			xFlows = append(xFlows, CashFlow{On: yearEnd, Amount: equity.AsFloat()})
		}

		points = append(points, EquityPoint{
			Year:        year,
			StartEquity: prevEquity,
			NetFlow:     netFlow,
			EndEquity:   equity,
			Profit:      equity.Sub(prevEquity).Sub(netFlow),
			Return:      Percent(Xirr(xFlows) * 100),
		})
		prevEquity = equity
	}
	return points, diags, nil
}

// YearlyContribution decomposes one year's profit into per-instrument rows,
// fee/interest/tax category rows and the residual cash-float bucket, each
// with a money-weighted return and a linear share of the portfolio return.
//
// Contribution % is profit-weighted apportionment of the portfolio XIRR, not
// a compounding (Brinson-style) attribution: the shares sum to the portfolio
// return but individual rows are approximations.
func (e *Engine) YearlyContribution(year int) ([]ContributionRow, Percent, []PriceDiagnostic, error) {
	base := e.BaseCurrency
	soyDate := date.YearRange(year - 1).To
	eoyDate := date.YearRange(year).To

	cache := NewPriceCache(e.Log)
	resolver := NewPriceResolver(e.Ledger, base, cache)
	splits := e.Ledger.Splits()

	// Replay up to year end, snapshotting per-instrument state at the
	// start-of-year boundary on the way.
	state := newReplayState(base)
	soyPositions := make(map[string]Position)
	eoyPositions := make(map[string]Position)
	cashSOY := M(0, base)

	externalFlow := M(0, base)
	fees := M(0, base)
	interest := M(0, base)
	tax := M(0, base)
	instrumentFlows := make(map[string][]CashFlow)
	netTradeFlow := make(map[string]Money)
	dividends := make(map[string]Money)

	for tx := range e.Ledger.TransactionsUpTo(eoyDate) {
		state.apply(tx)
		if !tx.Date.After(soyDate) {
			cashSOY = cashSOY.Add(tx.AmountLocal)
			if tx.Instrument != "" {
				soyPositions[tx.Instrument] = state.positions[tx.Instrument].position()
			}
		}
		if tx.Instrument != "" {
			eoyPositions[tx.Instrument] = state.positions[tx.Instrument].position()
		}

		if tx.Date.Year() != year {
			continue
		}
		switch {
		case tx.Type.IsExternal():
			externalFlow = externalFlow.Add(tx.AmountLocal)
		case tx.Type == Fee:
			fees = fees.Add(tx.AmountLocal)
		case tx.Type == Interest:
			interest = interest.Add(tx.AmountLocal)
		case tx.Type == Tax:
			tax = tax.Add(tx.AmountLocal)
		}
		if tx.FeeLocal.IsPositive() {
			fees = fees.Sub(tx.FeeLocal.Abs())
		}
		if tx.Instrument != "" {
			switch tx.Type {
			case Buy, Sell, Redemption, Dividend:
				instrumentFlows[tx.Instrument] = append(instrumentFlows[tx.Instrument],
					CashFlow{On: tx.Date, Amount: tx.AmountLocal.AsFloat()})
				if tx.Type == Dividend {
					dividends[tx.Instrument] = dividends[tx.Instrument].Add(tx.AmountLocal)
				} else {
					netTradeFlow[tx.Instrument] = netTradeFlow[tx.Instrument].Add(tx.AmountLocal)
				}
			}
		}
	}
	cashEOY := state.cash

	dropDustPositions(soyPositions)
	dropDustPositions(eoyPositions)

	// every instrument open at either boundary gets a row
	seen := make(map[string]bool)
	var isins []string
	for isin := range soyPositions {
		seen[isin] = true
		isins = append(isins, isin)
	}
	for isin := range eoyPositions {
		if !seen[isin] {
			isins = append(isins, isin)
		}
	}
	sort.Strings(isins)

	var instruments []Instrument
	for _, isin := range isins {
		ins := e.Ledger.Instrument(isin)
		if ins == nil {
			return nil, 0, nil, errUndeclared(isin)
		}
		instruments = append(instruments, *ins)
	}

	var diags []PriceDiagnostic
	fetch := e.fetchList(instruments)
	liveSOY := e.fetchLive(fetch, soyDate)
	liveEOY := e.fetchLive(fetch, eoyDate)

	valueAt := func(ins Instrument, positions map[string]Position, on date.Date, live map[string]float64) Money {
		pos, ok := positions[ins.ISIN]
		if !ok {
			return M(0, base)
		}
		return e.valuePosition(ins, pos, on, splits, resolver, live, &diags)
	}

	equitySOY := cashSOY
	equityEOY := cashEOY
	for _, ins := range instruments {
		equitySOY = equitySOY.Add(valueAt(ins, soyPositions, soyDate, liveSOY))
		equityEOY = equityEOY.Add(valueAt(ins, eoyPositions, eoyDate, liveEOY))
	}
	totalProfit := equityEOY.Sub(equitySOY).Sub(externalFlow)

	// portfolio-level money-weighted return for the year
	var portfolioFlows []CashFlow
	if equitySOY.IsPositive() {
		portfolioFlows = append(portfolioFlows, CashFlow{On: soyDate, Amount: -equitySOY.AsFloat()})
	}
	portfolioFlows = append(portfolioFlows, e.yearlyFlows()[year]...)
	if equityEOY.IsPositive() {
		portfolioFlows = append(portfolioFlows, CashFlow{On: eoyDate, Amount: equityEOY.AsFloat()})
	}
	portfolioXirr := Percent(Xirr(portfolioFlows) * 100)

	one := M(1, base)
	var rows []ContributionRow
	sumInstrumentProfit := M(0, base)
	for _, ins := range instruments {
		soyValue := valueAt(ins, soyPositions, soyDate, liveSOY)
		eoyValue := valueAt(ins, eoyPositions, eoyDate, liveEOY)
		tradeFlow := M(0, base).Add(netTradeFlow[ins.ISIN])
		divs := M(0, base).Add(dividends[ins.ISIN])
		profit := eoyValue.Sub(soyValue).Add(tradeFlow).Add(divs)
		sumInstrumentProfit = sumInstrumentProfit.Add(profit)

		var flows []CashFlow
		if soyValue.IsPositive() {
			flows = append(flows, CashFlow{On: soyDate, Amount: -soyValue.AsFloat()})
		}
		flows = append(flows, instrumentFlows[ins.ISIN]...)
		if eoyValue.IsPositive() {
			flows = append(flows, CashFlow{On: eoyDate, Amount: eoyValue.AsFloat()})
		}

		// skip rows that round to nothing
		if soyValue.Abs().GreaterThan(one) || eoyValue.Abs().GreaterThan(one) || profit.Abs().GreaterThan(one) {
			rows = append(rows, ContributionRow{
				Label:        ins.Label(),
				SOYValue:     soyValue,
				EOYValue:     eoyValue,
				NetAdditions: tradeFlow.Neg(),
				Dividends:    divs,
				Profit:       profit,
				IRR:          Percent(Xirr(flows) * 100),
			})
		}
	}

	// category rows and the residual float bucket
	floatProfit := totalProfit.Sub(sumInstrumentProfit)
	residual := floatProfit.Sub(fees).Sub(interest).Sub(tax)
	tenth := M(0.1, base)
	zero := M(0, base)
	for _, cat := range []struct {
		label  string
		profit Money
	}{{RowFees, fees}, {RowInterest, interest}, {RowDividendTax, tax}} {
		if cat.profit.Abs().GreaterThan(tenth) {
			rows = append(rows, ContributionRow{
				Label: cat.label, SOYValue: zero, EOYValue: zero,
				NetAdditions: zero, Dividends: zero, Profit: cat.profit,
			})
		}
	}
	rows = append(rows, ContributionRow{
		Label:        RowCashFloat,
		SOYValue:     cashSOY,
		EOYValue:     cashEOY,
		NetAdditions: externalFlow,
		Dividends:    zero,
		Profit:       residual,
	})

	// linear apportionment of the portfolio return by profit share
	if totalProfit.Abs().GreaterThan(one) {
		total := totalProfit.AsFloat()
		for i := range rows {
			rows[i].Contribution = Percent(rows[i].Profit.AsFloat() / total * float64(portfolioXirr))
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Profit.GreaterThan(rows[j].Profit) })
	return rows, portfolioXirr, diags, nil
}

// TotalXirr computes the all-time annualized money-weighted return: every
// external flow at its date, plus the current total equity as the terminal
// flow at today.
func (e *Engine) TotalXirr() (Percent, []PriceDiagnostic, error) {
	var flows []CashFlow
	for tx := range e.Ledger.Transactions() {
		if tx.Type.IsExternal() {
			flows = append(flows, CashFlow{On: tx.Date, Amount: -tx.AmountLocal.AsFloat()})
		}
	}

	var diags []PriceDiagnostic
	cache := NewPriceCache(e.Log)
	equity, err := e.ValueAt(e.today(), cache, &diags)
	if err != nil {
		return 0, diags, err
	}
	if equity.IsPositive() {
		flows = append(flows, CashFlow{On: e.today(), Amount: equity.AsFloat()})
	}
	return Percent(Xirr(flows) * 100), diags, nil
}

// InstrumentXirr computes the all-time money-weighted return of one
// instrument from its trades, dividends and redemptions, with the current
// position value as the terminal flow.
func (e *Engine) InstrumentXirr(symbol string) (Percent, []PriceDiagnostic, error) {
	ins := e.Ledger.InstrumentBySymbol(symbol)
	if ins == nil {
		ins = e.Ledger.Instrument(symbol)
	}
	if ins == nil {
		return 0, nil, errUndeclared(symbol)
	}

	var flows []CashFlow
	for _, tx := range e.Ledger.ForInstrument(ins.ISIN, date.Date{}) {
		switch tx.Type {
		case Buy, Sell, Redemption, Dividend:
			flows = append(flows, CashFlow{On: tx.Date, Amount: tx.AmountLocal.AsFloat()})
		}
	}

	var diags []PriceDiagnostic
	cache := NewPriceCache(e.Log)
	resolver := NewPriceResolver(e.Ledger, e.BaseCurrency, cache)
	splits := e.Ledger.Splits()
	pos := CostBasis(e.Ledger.ForInstrument(ins.ISIN, e.today()), AverageCost, e.BaseCurrency)
	if !pos.Quantity.IsDust() {
		live := e.fetchLive(e.fetchList([]Instrument{*ins}), e.today())
		value := e.valuePosition(*ins, pos, e.today(), splits, resolver, live, &diags)
		if value.IsPositive() {
			flows = append(flows, CashFlow{On: e.today(), Amount: value.AsFloat()})
		}
	}
	return Percent(Xirr(flows) * 100), diags, nil
}

// dropDustPositions removes closed positions from a boundary snapshot.
func dropDustPositions(positions map[string]Position) {
	for isin, pos := range positions {
		if pos.Quantity.IsDust() {
			delete(positions, isin)
		}
	}
}

// errUndeclared is the hard error for a ledger reference with no instrument
// reference data: valuations without a symbol and currency would be silently
// wrong.
func errUndeclared(id string) error {
	return &UndeclaredInstrumentError{ID: id}
}

// UndeclaredInstrumentError reports a transaction or query referencing an
// instrument the reference data does not know.
type UndeclaredInstrumentError struct{ ID string }

func (e *UndeclaredInstrumentError) Error() string {
	return "instrument " + e.ID + " is not declared in the reference data"
}
