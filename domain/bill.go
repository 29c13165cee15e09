package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillItem is a line item routed back to the order it came from.
type BillItem struct {
	LineItem
	OrderID      string `json:"order_id"`
	ItemIndex    int    `json:"item_index"`
	IsAdditional bool   `json:"is_additional"`
}

// Bill is a read-side merge of open orders of one table and customer.
// It is rebuilt from the order set on every read and never stored.
type Bill struct {
	Key           string          `json:"key"`
	OrderID       string          `json:"order_id"`
	OrderNumber   int             `json:"order_number"`
	TenantSlug    string          `json:"tenant_slug"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_whatsapp"`
	Type          OrderType       `json:"type"`
	TableNumber   string          `json:"table_number,omitempty"`
	Address       string          `json:"address,omitempty"`
	Observation   string          `json:"observation,omitempty"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []BillItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Grouped       bool            `json:"is_grouped"`
	OrderIDs      []string        `json:"order_ids"`
}

func (b Bill) Contains(orderID string) bool {
	for _, id := range b.OrderIDs {
		if id == orderID {
			return true
		}
	}
	return false
}

// WaitMinutes is measured from the primary (earliest) order.
func (b Bill) WaitMinutes(now time.Time) int {
	d := now.Sub(b.CreatedAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
