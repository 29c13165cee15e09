package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidValue wraps every rejected enum value (order type, status).
var ErrInvalidValue = errors.New("invalid value")

type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeDineIn   OrderType = "dine-in"
)

// ParseOrderType menerima juga "local", nilai lama dari storefront.
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delivery":
		return OrderTypeDelivery, nil
	case "dine-in", "dine_in", "local":
		return OrderTypeDineIn, nil
	}
	return "", fmt.Errorf("%w: unknown order type %q", ErrInvalidValue, s)
}

type Status string

const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusReadyToSend    Status = "ready_to_send"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusFinished       Status = "finished"
	StatusCanceled       Status = "canceled"
)

// BoardStatuses are the kitchen board columns, in display order.
var BoardStatuses = []Status{StatusPending, StatusPreparing, StatusReadyToSend, StatusOutForDelivery}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusPreparing, StatusReadyToSend, StatusOutForDelivery, StatusFinished, StatusCanceled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidValue, s)
}

// IsOpen -> true selama order belum finished/canceled
func (s Status) IsOpen() bool {
	return s != StatusFinished && s != StatusCanceled
}

type Side struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LineItem is one cart line inside an order.
type LineItem struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category,omitempty"`
	InventoryID string          `json:"inventory_id,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Sides       []Side          `json:"selected_sides,omitempty"`
	Doneness    string          `json:"doneness,omitempty"`
	Note        string          `json:"note,omitempty"`
	Checked     bool            `json:"checked"`
}

// SidesPrice -> jumlah harga extra dari semua side yang dipilih
func (li LineItem) SidesPrice() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range li.Sides {
		sum = sum.Add(s.Price)
	}
	return sum
}

// Subtotal is (unit price + sides) x quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Add(li.SidesPrice()).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Order struct {
	ID            string          `json:"id"`
	OrderNumber   int             `json:"order_number"`
	TenantSlug    string          `json:"tenant_slug"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_whatsapp"`
	UserID        string          `json:"user_id,omitempty"`
	Type          OrderType       `json:"type"`
	TableNumber   string          `json:"table_number,omitempty"`
	Address       string          `json:"address,omitempty"`
	Observation   string          `json:"observation,omitempty"`
	Items         []LineItem      `json:"items"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	Discount      decimal.Decimal `json:"discount_applied"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (o Order) IsOpen() bool { return o.Status.IsOpen() }

// WaitMinutes -> berapa menit order sudah menunggu sejak dibuat
func (o Order) WaitMinutes(now time.Time) int {
	d := now.Sub(o.CreatedAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// Clone returns a copy whose item slice can be mutated freely.
func (o Order) Clone() Order {
	cp := o
	cp.Items = CloneItems(o.Items)
	return cp
}

func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = it
		if it.Sides != nil {
			out[i].Sides = append([]Side(nil), it.Sides...)
		}
	}
	return out
}
