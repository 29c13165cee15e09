package models

import (
	"time"
)

type Notification struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TenantSlug string    `gorm:"type:varchar(64);not null;index" json:"tenant_slug"`
	UserID     *string   `gorm:"type:varchar(36)" json:"user_id"`
	Title      string    `gorm:"type:varchar(100);not null" json:"title"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Type       string    `gorm:"type:varchar(20);not null;default:'info'" json:"type"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}
