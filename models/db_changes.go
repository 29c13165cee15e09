package models

import (
	"time"
)

// DBChange is one outbox row, written in the same transaction as the change
// it describes.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	TenantSlug string    `gorm:"type:varchar(64);not null;index"`
	Entity     string    `gorm:"type:varchar(50);not null;index:idx_entity_action"`
	RecordID   string    `gorm:"type:varchar(36);not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_entity_action"`
	ChangedAt  time.Time `gorm:"not null"`
	Processed  bool      `gorm:"default:false;index:idx_processed"`
}

// AllModels -> urutan AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&Tenant{}, &User{}, &MenuCategory{}, &Product{}, &Order{},
		&InventoryItem{}, &WasteRecord{}, &Coupon{}, &Customer{},
		&ManualTransaction{}, &FixedCost{}, &FinancialSnapshot{},
		&Notification{}, &DBChange{},
	}
}
