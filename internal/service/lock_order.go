package service

import (
	"bytes"
	"sort"

	"go-storefront/internal/model"
)

// Multi-product transactions lock product rows in id order.

func sortedPurchaseItems(items []model.PurchaseItem) []model.PurchaseItem {
	out := append([]model.PurchaseItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return bytes.Compare(out[i].ProductID[:], out[j].ProductID[:]) < 0
	})
	return out
}

func sortedOrderItems(items []model.OrderItem) []model.OrderItem {
	out := append([]model.OrderItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return bytes.Compare(out[i].ProductID[:], out[j].ProductID[:]) < 0
	})
	return out
}
