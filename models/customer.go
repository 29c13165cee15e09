package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer -> satu baris per nomor WhatsApp per tenant
type Customer struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)"`
	TenantSlug    string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_customer_tenant_phone"`
	WhatsApp      string          `gorm:"column:whatsapp;type:varchar(32);not null;uniqueIndex:idx_customer_tenant_phone"`
	Name          string          `gorm:"type:varchar(255)"`
	Email         string          `gorm:"type:varchar(255)"`
	Address       string          `gorm:"type:varchar(255)"`
	TotalOrders   int             `gorm:"not null;default:0"`
	TotalSpent    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	LastOrderDate *time.Time
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}
