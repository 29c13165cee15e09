package services

import (
	"context"
	"errors"
	"time"

	"github.com/comanda-app/comanda/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotifInfo   = "info"
	NotifOrder  = "order"
	NotifPromo  = "promo"
	NotifSystem = "system"
)

var ErrNotificationNotFound = errors.New("notification not found")

// StaffBroadcaster is the realtime side (kds.Hub).
type StaffBroadcaster interface {
	BroadcastStaffNotification(tenant string, data interface{})
}

type NotificationService struct {
	DB  *gorm.DB
	Hub StaffBroadcaster
}

func NewNotificationService(db *gorm.DB, hub StaffBroadcaster) *NotificationService {
	return &NotificationService{DB: db, Hub: hub}
}

func newNotification(tenant, typ, title, message string) models.Notification {
	switch typ {
	case NotifInfo, NotifOrder, NotifPromo, NotifSystem:
	default:
		typ = NotifInfo
	}
	return models.Notification{
		ID:         uuid.NewString(),
		TenantSlug: tenant,
		Title:      title,
		Message:    message,
		Type:       typ,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
}

// createTx writes inside the caller's transaction; call Announce after commit.
func (s *NotificationService) createTx(tx *gorm.DB, tenant, typ, title, message string) (models.Notification, error) {
	n := newNotification(tenant, typ, title, message)
	return n, tx.Create(&n).Error
}

// Announce pushes an already stored notification to connected staff.
func (s *NotificationService) Announce(n models.Notification) {
	if s == nil || s.Hub == nil {
		return
	}
	s.Hub.BroadcastStaffNotification(n.TenantSlug, n)
}

func (s *NotificationService) Create(ctx context.Context, tenant, typ, title, message string) (models.Notification, error) {
	n, err := s.createTx(s.DB.WithContext(ctx), tenant, typ, title, message)
	if err != nil {
		return n, err
	}
	s.Announce(n)
	return n, nil
}

// List -> notifikasi aktif untuk tenant, milik user atau broadcast (user_id null)
func (s *NotificationService) List(ctx context.Context, tenant, userID string) ([]models.Notification, error) {
	q := s.DB.WithContext(ctx).Where("tenant_slug = ? AND is_active = ?", tenant, true)
	if userID != "" {
		q = q.Where("user_id = ? OR user_id IS NULL", userID)
	} else {
		q = q.Where("user_id IS NULL")
	}
	var out []models.Notification
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *NotificationService) MarkRead(ctx context.Context, tenant, id string) error {
	res := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND tenant_slug = ?", id, tenant).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) Delete(ctx context.Context, tenant, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND tenant_slug = ?", id, tenant).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
