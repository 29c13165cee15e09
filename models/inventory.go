package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID         string          `gorm:"primaryKey;type:varchar(36)"`
	TenantSlug string          `gorm:"type:varchar(64);not null;index"`
	Name       string          `gorm:"type:varchar(255);not null"`
	CurrentQty decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	MinQty     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Unit       string          `gorm:"type:varchar(20);not null;default:'un'"`
	Category   string          `gorm:"type:varchar(30);not null;default:'outros'"`
	CostPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

type WasteRecord struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	TenantSlug  string          `gorm:"type:varchar(64);not null;index"`
	InventoryID string          `gorm:"type:varchar(36);not null"`
	ItemName    string          `gorm:"type:varchar(255)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Unit        string          `gorm:"type:varchar(20)"`
	CostValue   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Reason      string          `gorm:"type:varchar(255)"`
	Date        time.Time       `gorm:"not null;index"`
}
