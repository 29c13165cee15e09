package models

import (
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product -> item di katalog/menu tenant
type Product struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)"`
	TenantSlug    string          `gorm:"type:varchar(64);not null;index"`
	Name          string          `gorm:"type:varchar(255);not null"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Category      string          `gorm:"type:varchar(100);index"`
	Description   string          `gorm:"type:text"`
	Image         string          `gorm:"type:varchar(255)"`
	PrepTime      string          `gorm:"type:varchar(50)"`
	Rating        float64
	IsVegan       bool
	IsCombo       bool
	IsHighlighted bool
	Availability  string  `gorm:"type:varchar(20);not null;default:'available'"`
	InventoryID   *string `gorm:"type:varchar(36)"`
	Stock         int     `gorm:"not null;default:0"`
	Sides         datatypes.JSONSlice[domain.Side]
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}
