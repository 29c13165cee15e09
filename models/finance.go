package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ManualTransaction -> entrada/saida lancada manualmente no caixa
type ManualTransaction struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TenantSlug  string          `gorm:"type:varchar(64);not null;index" json:"tenant_slug"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type        string          `gorm:"type:varchar(10);not null" json:"type"`
	Category    string          `gorm:"type:varchar(50)" json:"category"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
}

type FixedCost struct {
	ID         string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TenantSlug string          `gorm:"type:varchar(64);not null;index" json:"tenant_slug"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	DueDay     int             `json:"due_day"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
}

type FinancialSnapshot struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TenantSlug  string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_snapshot_period" json:"tenant_slug"`
	Month       int             `gorm:"not null;uniqueIndex:idx_snapshot_period" json:"month"`
	Year        int             `gorm:"not null;uniqueIndex:idx_snapshot_period" json:"year"`
	Revenue     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"revenue"`
	Expenses    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"expenses"`
	NetProfit   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"net_profit"`
	OrdersCount int             `gorm:"not null" json:"orders_count"`
	Details     datatypes.JSON  `json:"details"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
}
