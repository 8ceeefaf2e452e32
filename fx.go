package kodak

import (
	"sort"
)

// FXRow is the all-time FX profit decomposition for one foreign currency:
// realized and unrealized, split between cash held in that currency and
// securities trading in it. All P&L figures are in the base currency.
type FXRow struct {
	Currency               string
	CashHoldings           Quantity // foreign units still held
	RealizedCashPL         Money
	UnrealizedCashPL       Money
	RealizedSecuritiesPL   Money
	UnrealizedSecuritiesPL Money
	TotalRealizedPL        Money
	TotalUnrealizedPL      Money
}

// fxCashState is the average-cost inventory of one foreign currency held as
// cash: instrument-less transactions settling in that currency.
type fxCashState struct {
	holdings float64 // foreign units
	cost     float64 // base currency paid for them
	realized float64 // base currency
}

// cash position dust is coarser than share dust: brokers leave fractional
// cents behind on conversions
const fxCashDust = 0.01

func (s *fxCashState) apply(foreign, local float64) {
	switch {
	case foreign > 0:
		s.holdings += foreign
		s.cost += abs(local)
	case foreign < 0:
		if s.holdings > 0 {
			portion := min(abs(foreign)/s.holdings, 1.0)
			costPortion := s.cost * portion
			s.realized += abs(local) - costPortion
			s.cost -= costPortion
		}
		s.holdings += foreign
		if abs(s.holdings) < fxCashDust {
			s.holdings = 0
			s.cost = 0
		}
	}
}

// fxSecurityState tracks one foreign-currency instrument's cost basis in
// both currencies at once, so the blended purchase rate (local cost over
// foreign cost) is available when a sale realizes an FX move.
type fxSecurityState struct {
	currency    string
	qty         float64
	foreignCost float64
	localCost   float64
	realized    float64 // base currency
}

func (s *fxSecurityState) buy(qty, foreign, local float64) {
	s.qty += qty
	s.foreignCost += foreign
	s.localCost += local
}

func (s *fxSecurityState) sell(qty, foreign, saleRate float64) {
	if s.qty <= 0 {
		return
	}
	avgRate := saleRate
	if s.foreignCost > 0 {
		avgRate = s.localCost / s.foreignCost
	}
	s.realized += foreign * (saleRate - avgRate)

	portion := min(abs(qty)/s.qty, 1.0)
	s.qty += qty // negative on a sale
	s.foreignCost -= s.foreignCost * portion
	s.localCost -= s.localCost * portion
	if abs(s.qty) < 0.001 {
		s.qty = 0
		s.foreignCost = 0
		s.localCost = 0
	}
}

func (s *fxSecurityState) avgRate() float64 {
	if s.foreignCost <= 0 {
		return 0
	}
	return s.localCost / s.foreignCost
}

// foreignAmount derives the trade's value in the instrument's currency. When
// the trade settled in that same currency the settlement amount is already
// foreign; otherwise the base amount is converted back through the recorded
// rate.
func foreignAmount(tx Transaction, securityCurrency string) float64 {
	if tx.Currency() == securityCurrency {
		return abs(tx.Amount.AsFloat())
	}
	if rate := tx.ExchangeRate.AsFloat(); rate > 0 {
		return abs(tx.AmountLocal.AsFloat()) / rate
	}
	return abs(tx.AmountLocal.AsFloat())
}

// FXPerformance decomposes all-time currency profit per foreign currency
// into four buckets: realized and unrealized, on cash and on securities.
//
// Securities FX P&L isolates the exchange-rate component of a foreign trade:
// sale proceeds in the instrument's currency times the drift between the
// sale rate and the blended purchase rate. Price movement in the foreign
// currency is deliberately excluded; it belongs to the instrument, not the
// currency.
func (e *Engine) FXPerformance() ([]FXRow, []PriceDiagnostic, error) {
	base := e.BaseCurrency
	cashStates := make(map[string]*fxCashState)
	securityStates := make(map[string]*fxSecurityState) // by ISIN

	for tx := range e.Ledger.Transactions() {
		if tx.Instrument != "" && tx.Type.IsTrade() {
			ins := e.Ledger.Instrument(tx.Instrument)
			if ins == nil {
				return nil, nil, errUndeclared(tx.Instrument)
			}
			securityCurrency := ins.Currency
			if securityCurrency == "" {
				securityCurrency = tx.Currency()
			}
			if securityCurrency == base {
				continue
			}
			st, ok := securityStates[tx.Instrument]
			if !ok {
				st = &fxSecurityState{currency: securityCurrency}
				securityStates[tx.Instrument] = st
			}
			foreign := foreignAmount(tx, securityCurrency)
			switch tx.Type {
			case Buy:
				st.buy(tx.Quantity.AsFloat(), foreign, abs(tx.AmountLocal.AsFloat()))
			case Sell:
				rate := tx.ExchangeRate.AsFloat()
				if rate <= 0 {
					rate = 1.0
				}
				st.sell(tx.Quantity.AsFloat(), foreign, rate)
			}
			continue
		}
		if tx.Instrument == "" && tx.Currency() != "" && tx.Currency() != base {
			cs, ok := cashStates[tx.Currency()]
			if !ok {
				cs = &fxCashState{}
				cashStates[tx.Currency()] = cs
			}
			cs.apply(tx.Amount.AsFloat(), tx.AmountLocal.AsFloat())
		}
	}

	currencies := make(map[string]bool)
	for c := range cashStates {
		currencies[c] = true
	}
	for _, st := range securityStates {
		currencies[st.currency] = true
	}
	var ordered []string
	for c := range currencies {
		ordered = append(ordered, c)
	}
	sort.Strings(ordered)

	// current holdings and rates for the unrealized legs
	holdings, err := e.Holdings(e.today(), AverageCost)
	if err != nil {
		return nil, nil, err
	}
	var diags []PriceDiagnostic
	cache := NewPriceCache(e.Log)
	resolver := NewPriceResolver(e.Ledger, base, cache)
	var instruments []Instrument
	for _, h := range holdings {
		instruments = append(instruments, h.Instrument)
	}
	live := e.fetchLive(e.fetchList(instruments), e.today())

	var rows []FXRow
	for _, currency := range ordered {
		cs := cashStates[currency]
		if cs == nil {
			cs = &fxCashState{}
		}
		rate := resolver.Resolve(PairSymbol(currency, base), e.today(), live, &diags)

		realizedSec := 0.0
		for _, st := range securityStates {
			if st.currency == currency {
				realizedSec += st.realized
			}
		}

		unrealizedSec := 0.0
		for _, h := range holdings {
			if h.Instrument.Currency != currency {
				continue
			}
			st, ok := securityStates[h.Instrument.ISIN]
			if !ok || st.qty <= 0 || st.foreignCost <= 0 {
				continue
			}
			price := resolver.Resolve(h.Instrument.Label(), e.today(), live, &diags)
			if price <= 0 {
				continue
			}
			foreignValue := h.Quantity.AsFloat() * price
			unrealizedSec += foreignValue * (rate - st.avgRate())
		}

		unrealizedCash := 0.0
		if cs.holdings > 1.0 && cs.cost > 0 {
			unrealizedCash = cs.holdings*rate - cs.cost
		}

		rows = append(rows, FXRow{
			Currency:               currency,
			CashHoldings:           Q(cs.holdings),
			RealizedCashPL:         M(cs.realized, base),
			UnrealizedCashPL:       M(unrealizedCash, base),
			RealizedSecuritiesPL:   M(realizedSec, base),
			UnrealizedSecuritiesPL: M(unrealizedSec, base),
			TotalRealizedPL:        M(cs.realized+realizedSec, base),
			TotalUnrealizedPL:      M(unrealizedCash+unrealizedSec, base),
		})
	}
	return rows, diags, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
