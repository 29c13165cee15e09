package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Coupon struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)"`
	TenantSlug    string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_coupon_tenant_code"`
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_coupon_tenant_code"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MaxUses       int             `gorm:"not null;default:0"`
	CurrentUses   int             `gorm:"not null;default:0"`
	IsActive      bool            `gorm:"not null"`
	UserID        *string         `gorm:"type:varchar(36)"`
	CustomerEmail *string         `gorm:"type:varchar(255)"`
	CustomerPhone *string         `gorm:"type:varchar(32)"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}
