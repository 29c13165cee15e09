package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCouponInvalid    = errors.New("coupon invalid")
	ErrCouponExhausted  = errors.New("coupon expired or exhausted")
	ErrCouponNotYours   = errors.New("coupon does not belong to this customer")
	ErrCouponDuplicate  = errors.New("coupon code already exists")
	ErrCouponIncomplete = errors.New("coupon code and positive discount required")
)

type CouponService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

func NewCouponService(db *gorm.DB, notifications *NotificationService) *CouponService {
	return &CouponService{DB: db, Notifications: notifications}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *CouponService) List(ctx context.Context, tenant string) ([]domain.Coupon, error) {
	var recs []models.Coupon
	if err := s.DB.WithContext(ctx).Where("tenant_slug = ?", tenant).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Coupon, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

func (s *CouponService) codeTaken(tx *gorm.DB, tenant, code, exceptID string) (bool, error) {
	var n int64
	q := tx.Model(&models.Coupon{}).Where("tenant_slug = ? AND code = ?", tenant, code)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// Create stores a coupon. An active coupon open to everyone is also
// announced as a promo notification.
func (s *CouponService) Create(ctx context.Context, tenant string, c domain.Coupon) (domain.Coupon, error) {
	c.TenantSlug = tenant
	c.Code = normalizeCode(c.Code)
	if c.Code == "" || c.DiscountValue.LessThanOrEqual(decimal.Zero) {
		return domain.Coupon{}, ErrCouponIncomplete
	}
	c.ID = uuid.NewString()
	rec := models.CouponFromDomain(c)

	var notif *models.Notification
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.codeTaken(tx, tenant, rec.Code, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrCouponDuplicate
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		if s.Notifications != nil && rec.IsActive && rec.CustomerEmail == nil && rec.CustomerPhone == nil && rec.UserID == nil {
			n, err := s.Notifications.createTx(tx, tenant, NotifPromo, "Novo Cupom Disponível! 🎟️",
				fmt.Sprintf("Use o código %s e ganhe R$ %s de desconto em seu pedido!", rec.Code, rec.DiscountValue.StringFixed(2)))
			if err != nil {
				return err
			}
			notif = &n
		}
		return nil
	})
	if err != nil {
		return domain.Coupon{}, err
	}
	if notif != nil {
		s.Notifications.Announce(*notif)
	}
	return rec.ToDomain(), nil
}

func (s *CouponService) Update(ctx context.Context, tenant, id string, c domain.Coupon) (domain.Coupon, error) {
	var out models.Coupon
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND tenant_slug = ?", id, tenant).First(&out).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCouponInvalid
			}
			return err
		}
		c.ID, c.TenantSlug = id, tenant
		c.Code = normalizeCode(c.Code)
		if c.Code == "" {
			c.Code = out.Code
		}
		taken, err := s.codeTaken(tx, tenant, c.Code, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrCouponDuplicate
		}
		rec := models.CouponFromDomain(c)
		rec.CreatedAt = out.CreatedAt
		if err := tx.Select("*").Omit("created_at").Save(&rec).Error; err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return domain.Coupon{}, err
	}
	return out.ToDomain(), nil
}

func (s *CouponService) Delete(ctx context.Context, tenant, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND tenant_slug = ?", id, tenant).Delete(&models.Coupon{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponInvalid
	}
	return nil
}

// Validate checks a code the way checkout does: unknown -> invalid,
// inactive or used up -> exhausted, bound to another user -> not yours.
func (s *CouponService) Validate(ctx context.Context, tenant, code, userID string) (domain.Coupon, error) {
	return s.validateTx(s.DB.WithContext(ctx), tenant, code, userID)
}

func (s *CouponService) validateTx(tx *gorm.DB, tenant, code, userID string) (domain.Coupon, error) {
	code = normalizeCode(code)
	if code == "" {
		return domain.Coupon{}, ErrCouponInvalid
	}
	var rec models.Coupon
	err := tx.Where("tenant_slug = ? AND UPPER(code) = ?", tenant, code).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Coupon{}, ErrCouponInvalid
	}
	if err != nil {
		return domain.Coupon{}, err
	}
	c := rec.ToDomain()
	if !c.IsActive || c.Exhausted() {
		return domain.Coupon{}, ErrCouponExhausted
	}
	if c.UserID != "" && c.UserID != userID {
		return domain.Coupon{}, ErrCouponNotYours
	}
	return c, nil
}

func (s *CouponService) incrementUsageTx(tx *gorm.DB, id string) error {
	return tx.Model(&models.Coupon{}).Where("id = ?", id).
		Update("current_uses", gorm.Expr("current_uses + 1")).Error
}

// PublicPromos -> kupon aktif tanpa restriksi yang masih punya kuota
func (s *CouponService) PublicPromos(ctx context.Context, tenant string) ([]domain.Coupon, error) {
	var recs []models.Coupon
	if err := s.DB.WithContext(ctx).
		Where("tenant_slug = ? AND is_active = ? AND user_id IS NULL AND customer_email IS NULL AND customer_phone IS NULL", tenant, true).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Coupon, 0, len(recs))
	for _, r := range recs {
		if c := r.ToDomain(); !c.Exhausted() {
			out = append(out, c)
		}
	}
	return out, nil
}
