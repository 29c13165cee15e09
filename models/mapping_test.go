package models

import (
	"testing"

	"github.com/comanda-app/comanda/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestOrderToDomainDefaults(t *testing.T) {
	rec := Order{
		ID:          "o1",
		Type:        "local",
		TableNumber: "4",
		Status:      "",
		Items:       datatypes.NewJSONSlice([]domain.LineItem{{ProductID: "p1", Quantity: 0, UnitPrice: decimal.NewFromInt(10)}}),
	}
	o := rec.ToDomain()
	assert.Equal(t, domain.OrderTypeDineIn, o.Type)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, 0, rec.Items[0].Quantity, "record untouched")

	legacy := Order{ID: "o2", Type: "???", TableNumber: ""}
	assert.Equal(t, domain.OrderTypeDelivery, legacy.ToDomain().Type)
	assert.NotNil(t, legacy.ToDomain().Items)
}

func TestOrderRoundTripKeepsUserID(t *testing.T) {
	o := domain.Order{ID: "o1", UserID: "u1", Type: domain.OrderTypeDelivery, Status: domain.StatusPreparing}
	rec := OrderFromDomain(o)
	if assert.NotNil(t, rec.UserID) {
		assert.Equal(t, "u1", *rec.UserID)
	}
	assert.Nil(t, OrderFromDomain(domain.Order{}).UserID)
	assert.Equal(t, "u1", rec.ToDomain().UserID)
}

func TestTenantToDomain(t *testing.T) {
	rec := Tenant{Slug: "sabor", PrinterWidth: 33, IsOpen: true}
	tn := rec.ToDomain([]MenuCategory{{ID: "c1", Name: "Lanches", Icon: "burger"}})
	assert.Equal(t, 80, tn.Printer.Width)
	assert.NotNil(t, tn.OperatingHours)
	assert.Equal(t, []domain.Category{{ID: "c1", Name: "Lanches", Icon: "burger"}}, tn.Categories)
}

func TestProductAndInventoryDefaults(t *testing.T) {
	p := Product{ID: "p1", Availability: "weird"}.ToDomain()
	assert.Equal(t, domain.Available, p.Availability)
	assert.NotNil(t, p.Sides)

	inv := InventoryItem{ID: "i1", Category: "xyz"}.ToDomain()
	assert.Equal(t, domain.InventoryOther, inv.Category)
	assert.Equal(t, "un", inv.Unit)
}

func TestCouponFromDomainUppercasesCode(t *testing.T) {
	c := CouponFromDomain(domain.Coupon{Code: " bemvindo10 "})
	assert.Equal(t, "BEMVINDO10", c.Code)
	assert.Nil(t, c.UserID)
}
