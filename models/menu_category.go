package models

import "time"

type MenuCategory struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	TenantSlug string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_category_tenant_name"`
	Name       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_tenant_name"`
	Icon       string    `gorm:"type:varchar(50)"`
	SortOrder  int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}
