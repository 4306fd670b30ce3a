// Package costing implements average-cost (weighted moving average) valuation
// of stock receipts.
package costing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity is returned when the incoming quantity is not positive.
	ErrInvalidQuantity = errors.New("costing: incoming quantity must be greater than zero")
	// ErrInvalidUnitCost is returned when the incoming unit cost is not positive.
	ErrInvalidUnitCost = errors.New("costing: incoming unit cost must be greater than zero")
	// ErrNegativeOnHand is returned when the current on-hand quantity is negative.
	ErrNegativeOnHand = errors.New("costing: on-hand quantity must not be negative")
)

// Result is the state of a product after a receipt.
type Result struct {
	Quantity int
	AvgCost  int64
}

// WeightedAverage blends an incoming receipt of qtyIn units at unitCost into the
// current on-hand quantity valued at avgCost. The new average is rounded half away
// from zero to a whole currency unit.
func WeightedAverage(onHand int, avgCost int64, qtyIn int, unitCost int64) (Result, error) {
	if qtyIn <= 0 {
		return Result{}, ErrInvalidQuantity
	}
	if unitCost <= 0 {
		return Result{}, ErrInvalidUnitCost
	}
	if onHand < 0 {
		return Result{}, ErrNegativeOnHand
	}

	total := onHand + qtyIn
	if total == 0 {
		return Result{Quantity: 0, AvgCost: avgCost}, nil
	}

	current := decimal.NewFromInt(int64(onHand)).Mul(decimal.NewFromInt(avgCost))
	incoming := decimal.NewFromInt(int64(qtyIn)).Mul(decimal.NewFromInt(unitCost))
	blended := current.Add(incoming).Div(decimal.NewFromInt(int64(total))).Round(0)

	return Result{Quantity: total, AvgCost: blended.IntPart()}, nil
}

// Valuation returns quantity × avgCost, the carrying value of on-hand stock.
func Valuation(quantity int, avgCost int64) int64 {
	return decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromInt(avgCost)).IntPart()
}
