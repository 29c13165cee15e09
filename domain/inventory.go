package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryCategory string

const (
	InventoryProteins InventoryCategory = "proteinas"
	InventoryDrinks   InventoryCategory = "bebidas"
	InventorySupplies InventoryCategory = "suprimentos"
	InventoryOther    InventoryCategory = "outros"
)

type InventoryItem struct {
	ID         string            `json:"id"`
	TenantSlug string            `json:"tenant_slug"`
	Name       string            `json:"name"`
	CurrentQty decimal.Decimal   `json:"current_qty"`
	MinQty     decimal.Decimal   `json:"min_qty"`
	Unit       string            `json:"unit"`
	Category   InventoryCategory `json:"category"`
	CostPrice  decimal.Decimal   `json:"cost_price"`
}

func (i InventoryItem) IsLow() bool {
	return i.CurrentQty.LessThanOrEqual(i.MinQty)
}

type WasteRecord struct {
	ID          string          `json:"id"`
	TenantSlug  string          `json:"tenant_slug"`
	InventoryID string          `json:"inventory_id"`
	ItemName    string          `json:"item_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	CostValue   decimal.Decimal `json:"cost_value"`
	Reason      string          `json:"reason"`
	Date        time.Time       `json:"date"`
}

type Coupon struct {
	ID            string          `json:"id"`
	TenantSlug    string          `json:"tenant_slug"`
	Code          string          `json:"code"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MaxUses       int             `json:"max_uses"`
	CurrentUses   int             `json:"current_uses"`
	IsActive      bool            `json:"is_active"`
	UserID        string          `json:"user_id,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
}

// Exhausted -> MaxUses 0 berarti tanpa batas
func (c Coupon) Exhausted() bool {
	return c.MaxUses > 0 && c.CurrentUses >= c.MaxUses
}

type Customer struct {
	ID            string          `json:"id"`
	TenantSlug    string          `json:"tenant_slug"`
	Name          string          `json:"name"`
	WhatsApp      string          `json:"whatsapp"`
	Email         string          `json:"email,omitempty"`
	Address       string          `json:"address,omitempty"`
	TotalOrders   int             `json:"total_orders"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	LastOrderDate *time.Time      `json:"last_order_date,omitempty"`
}
