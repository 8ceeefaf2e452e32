package kodak

import "fmt"

// CostBasisMethod defines the method for calculating cost basis.
type CostBasisMethod int

const (
	// AverageCost calculates the cost basis by averaging the cost of all shares.
	AverageCost CostBasisMethod = iota
	// FIFO (First-In, First-Out) assumes the first shares purchased are the
	// first ones sold.
	FIFO
)

func (m CostBasisMethod) String() string {
	switch m {
	case AverageCost:
		return "average"
	case FIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch s {
	case "average":
		return AverageCost, nil
	case "fifo":
		return FIFO, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

// Position is the net state of one instrument after a replay: signed share
// count and remaining cost basis in base currency.
type Position struct {
	Quantity  Quantity
	CostBasis Money
}

// costBasis accumulates acquisition and disposal events under one costing
// convention. Both implementations track identical net quantity; only the
// cost they report differs.
type costBasis interface {
	acquire(tx Transaction)
	dispose(tx Transaction)
	// disposalCost returns the cost that a disposal of |tx.Quantity| would
	// remove, before mutating state. Used for realized-gain accounting.
	disposalCost(tx Transaction) Money
	position() Position
}

// newCostBasis returns a fresh accumulator for the given method.
func newCostBasis(method CostBasisMethod, baseCurrency string) costBasis {
	switch method {
	case FIFO:
		return &fifoBasis{cur: baseCurrency}
	default:
		return &wacBasis{cost: M(0, baseCurrency)}
	}
}

// wacBasis is the weighted-average-cost accumulator: one blended per-share
// cost for the whole position.
type wacBasis struct {
	qty  Quantity
	cost Money
}

func (w *wacBasis) acquire(tx Transaction) {
	w.qty = w.qty.Add(tx.Quantity.Abs())
	w.cost = w.cost.Add(tx.AmountLocal.Abs())
}

func (w *wacBasis) disposalCost(tx Transaction) Money {
	if !w.qty.IsPositive() {
		return M(0, w.cost.Currency())
	}
	avg := w.cost.DivQty(w.qty)
	removed := avg.Mul(tx.Quantity.Abs())
	if removed.GreaterThan(w.cost) {
		// oversell: never remove more cost than is recorded
		return w.cost
	}
	return removed
}

func (w *wacBasis) dispose(tx Transaction) {
	w.cost = w.cost.Sub(w.disposalCost(tx))
	w.qty = w.qty.Sub(tx.Quantity.Abs())
}

func (w *wacBasis) position() Position {
	cost := w.cost
	if cost.IsNegative() {
		cost = M(0, cost.Currency())
	}
	return Position{Quantity: w.qty, CostBasis: cost}
}

// fifoBasis is the lot-queue accumulator: disposals consume the oldest
// purchase tranches first.
type fifoBasis struct {
	cur  string
	lots lots
	// net tracks the signed quantity independently of the queue so that an
	// oversell yields the same net quantity the WAC path reports.
	net Quantity
}

func (f *fifoBasis) acquire(tx Transaction) {
	qty := tx.Quantity.Abs()
	f.net = f.net.Add(qty)
	f.lots = append(f.lots, lot{On: tx.Date, Quantity: qty, Cost: tx.AmountLocal.Abs()})
}

func (f *fifoBasis) disposalCost(tx Transaction) Money {
	c := f.lots.costOfSelling(tx.Quantity.Abs())
	return M(0, f.cur).Add(c)
}

func (f *fifoBasis) dispose(tx Transaction) {
	f.net = f.net.Sub(tx.Quantity.Abs())
	f.lots = f.lots.sell(tx.Quantity.Abs())
}

func (f *fifoBasis) position() Position {
	return Position{Quantity: f.net, CostBasis: M(0, f.cur).Add(f.lots.cost())}
}

// CostBasis replays one instrument's transaction stream (ordered by date,
// insertion order) and returns its position under the chosen method.
//
// Disposing more than is currently held is tolerated: the cost basis floors
// at zero and the net quantity goes negative. The result is documented as an
// approximation, not rejected.
func CostBasis(txs []Transaction, method CostBasisMethod, baseCurrency string) Position {
	acc := newCostBasis(method, baseCurrency)
	replayCostBasis(txs, acc)
	return acc.position()
}

// replayCostBasis feeds a transaction stream into an accumulator.
func replayCostBasis(txs []Transaction, acc costBasis) {
	for _, tx := range txs {
		switch tx.Type.Flow() {
		case FlowIn:
			acc.acquire(tx)
		case FlowOut:
			acc.dispose(tx)
		}
	}
}
