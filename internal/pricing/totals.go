// Package pricing derives order totals and cash change.
package pricing

import (
	"errors"
	"fmt"
)

// DeliveryMethod labels how an order reaches the customer.
type DeliveryMethod string

const (
	DeliveryPickup       DeliveryMethod = "PICKUP"
	DeliveryStoreCourier DeliveryMethod = "STORE_COURIER"
	// DeliveryRideHailing is paid by the customer directly to the driver.
	DeliveryRideHailing DeliveryMethod = "RIDE_HAILING"
)

var (
	ErrUnknownDeliveryMethod = errors.New("pricing: unknown delivery method")
	ErrEmptyOrder            = errors.New("pricing: order has no items")
	ErrInvalidLine           = errors.New("pricing: invalid order line")
	ErrInsufficientCash      = errors.New("pricing: amount tendered is less than total")
)

// ShippingTable maps a delivery method to its flat shipping cost.
type ShippingTable map[DeliveryMethod]int64

// DefaultShippingTable returns the store's table with the given courier fee.
func DefaultShippingTable(courierFee int64) ShippingTable {
	return ShippingTable{
		DeliveryPickup:       0,
		DeliveryStoreCourier: courierFee,
		DeliveryRideHailing:  0,
	}
}

// Cost looks up the shipping cost for method.
func (t ShippingTable) Cost(method DeliveryMethod) (int64, error) {
	cost, ok := t[method]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDeliveryMethod, method)
	}
	return cost, nil
}

// Line is one priced order line.
type Line struct {
	UnitPrice int64
	Quantity  int
}

// Total returns UnitPrice × Quantity.
func (l Line) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Totals are the monetary totals of an order.
type Totals struct {
	Subtotal     int64 `json:"subtotal"`
	ShippingCost int64 `json:"shipping_cost"`
	Total        int64 `json:"total"`
}

// Compute derives subtotal, shipping and total for lines delivered by method.
func Compute(lines []Line, method DeliveryMethod, table ShippingTable) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, ErrEmptyOrder
	}

	var subtotal int64
	for i, l := range lines {
		if l.Quantity <= 0 || l.UnitPrice < 0 {
			return Totals{}, fmt.Errorf("%w: line %d", ErrInvalidLine, i+1)
		}
		subtotal += l.Total()
	}

	shipping, err := table.Cost(method)
	if err != nil {
		return Totals{}, err
	}

	return Totals{Subtotal: subtotal, ShippingCost: shipping, Total: subtotal + shipping}, nil
}

// Change returns tendered − total for a cash payment. A negative change blocks
// the transaction with ErrInsufficientCash.
func Change(total, tendered int64) (int64, error) {
	change := tendered - total
	if change < 0 {
		return 0, fmt.Errorf("%w: short by %d", ErrInsufficientCash, -change)
	}
	return change, nil
}
