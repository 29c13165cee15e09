package models

import (
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Order struct {
	ID               string                               `gorm:"primaryKey;type:varchar(36)"`
	TenantSlug       string                               `gorm:"type:varchar(64);not null;index:idx_order_tenant_status;uniqueIndex:idx_order_tenant_number"`
	OrderNumber      int                                  `gorm:"not null;uniqueIndex:idx_order_tenant_number"`
	CustomerName     string                               `gorm:"type:varchar(255)"`
	CustomerWhatsapp string                               `gorm:"type:varchar(32);index"`
	UserID           *string                              `gorm:"type:varchar(36)"`
	Type             string                               `gorm:"type:varchar(20);not null"`
	TableNumber      string                               `gorm:"type:varchar(20)"`
	Address          string                               `gorm:"type:varchar(255)"`
	Observation      string                               `gorm:"type:text"`
	Items            datatypes.JSONSlice[domain.LineItem] `gorm:"not null"`
	CouponCode       string                               `gorm:"type:varchar(50)"`
	DiscountApplied  decimal.Decimal                      `gorm:"type:decimal(10,2);not null;default:0"`
	DeliveryFee      decimal.Decimal                      `gorm:"type:decimal(10,2);not null;default:0"`
	PaymentMethod    string                               `gorm:"type:varchar(30)"`
	Total            decimal.Decimal                      `gorm:"type:decimal(10,2);not null;default:0"`
	Status           string                               `gorm:"type:varchar(20);not null;default:'pending';index:idx_order_tenant_status"`
	CreatedAt        time.Time                            `gorm:"not null;index"`
	UpdatedAt        time.Time                            `gorm:"not null"`
}
