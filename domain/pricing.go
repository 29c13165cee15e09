package domain

import "github.com/shopspring/decimal"

// ItemsSubtotal sums every line subtotal.
func ItemsSubtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

// ComputeTotal -> subtotal - discount + delivery fee (hanya delivery), minimal 0,
// dibulatkan 2 desimal.
func ComputeTotal(items []LineItem, orderType OrderType, deliveryFee, discount decimal.Decimal) decimal.Decimal {
	total := ItemsSubtotal(items).Sub(discount)
	if orderType == OrderTypeDelivery {
		total = total.Add(deliveryFee)
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return total.Round(2)
}
