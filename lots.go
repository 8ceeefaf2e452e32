package kodak

import "github.com/sstandnes/kodak/date"

// lot is a single acquisition tranche, used for FIFO cost accounting.
// Lots are ephemeral: they exist only while a replay is running.
type lot struct {
	On       date.Date
	Quantity Quantity
	Cost     Money // total cost of the lot in base currency
}

type lots []lot

// costOfSelling returns the FIFO cost of disposing the given quantity,
// without mutating the queue.
func (l lots) costOfSelling(quantityToSell Quantity) Money {
	var cost Money
	for _, current := range l {
		if quantityToSell.IsZero() || quantityToSell.IsNegative() {
			break
		}
		if current.Quantity.GreaterThan(quantityToSell) {
			// partial sale from this lot
			portion := current.Cost.Mul(quantityToSell).DivQty(current.Quantity)
			return cost.Add(portion)
		}
		// full consumption of this lot
		cost = cost.Add(current.Cost)
		quantityToSell = quantityToSell.Sub(current.Quantity)
	}
	// Oversell falls through here: the cost of whatever lots existed is all
	// there is to remove. Tolerated, by the same approximation the reports use.
	return cost
}

// sell consumes the given quantity from the front of the queue and returns
// the remaining lots. Exhausted lots are dropped; an oversell simply empties
// the queue.
func (l lots) sell(quantityToSell Quantity) lots {
	var remaining lots
	for _, current := range l {
		if quantityToSell.IsZero() || quantityToSell.IsNegative() {
			remaining = append(remaining, current)
			continue
		}
		if current.Quantity.GreaterThan(quantityToSell) {
			// partial sale from this lot
			soldCost := current.Cost.Mul(quantityToSell).DivQty(current.Quantity)
			remaining = append(remaining, lot{
				On:       current.On,
				Quantity: current.Quantity.Sub(quantityToSell),
				Cost:     current.Cost.Sub(soldCost),
			})
			quantityToSell = Q(0)
		} else {
			quantityToSell = quantityToSell.Sub(current.Quantity)
		}
	}
	return remaining
}

// quantity returns the total quantity held across all lots.
func (l lots) quantity() Quantity {
	total := Q(0)
	for _, current := range l {
		total = total.Add(current.Quantity)
	}
	return total
}

// cost returns the total cost basis across all lots.
func (l lots) cost() Money {
	var total Money
	for _, current := range l {
		total = total.Add(current.Cost)
	}
	return total
}
