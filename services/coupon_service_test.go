package services

import (
	"testing"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponValidate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db, nil)

	_, err := svc.Create(ctx, "sabor", domain.Coupon{Code: "promo10", DiscountValue: dec("10"), IsActive: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "sabor", domain.Coupon{Code: "velho", DiscountValue: dec("5"), IsActive: false})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "sabor", domain.Coupon{Code: "cheio", DiscountValue: dec("5"), MaxUses: 2, CurrentUses: 2, IsActive: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "sabor", domain.Coupon{Code: "vip", DiscountValue: dec("15"), IsActive: true, UserID: "u1"})
	require.NoError(t, err)

	tests := []struct {
		code, user string
		want       error
	}{
		{"PROMO10", "", nil},
		{" promo10 ", "u9", nil},
		{"NADA", "", ErrCouponInvalid},
		{"", "", ErrCouponInvalid},
		{"VELHO", "", ErrCouponExhausted},
		{"CHEIO", "", ErrCouponExhausted},
		{"VIP", "u2", ErrCouponNotYours},
		{"VIP", "u1", nil},
	}
	for _, tc := range tests {
		c, err := svc.Validate(ctx, "sabor", tc.code, tc.user)
		if tc.want == nil {
			assert.NoError(t, err, tc.code)
			assert.NotEmpty(t, c.ID)
		} else {
			assert.ErrorIs(t, err, tc.want, tc.code)
		}
	}

	_, err = svc.Validate(ctx, "outro", "PROMO10", "")
	assert.ErrorIs(t, err, ErrCouponInvalid, "coupons are per tenant")
}

func TestCouponCreateAnnouncesPublicPromo(t *testing.T) {
	db := setupTestDB(t)
	hub := &recordingHub{}
	svc := NewCouponService(db, NewNotificationService(db, hub))

	c, err := svc.Create(ctx, "sabor", domain.Coupon{Code: "festa", DiscountValue: dec("7.5"), IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "FESTA", c.Code)

	_, err = svc.Create(ctx, "sabor", domain.Coupon{Code: "so-pra-voce", DiscountValue: dec("5"), IsActive: true, CustomerEmail: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "sabor", domain.Coupon{Code: "Festa", DiscountValue: dec("1"), IsActive: true})
	assert.ErrorIs(t, err, ErrCouponDuplicate)

	var notes []models.Notification
	require.NoError(t, db.Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, NotifPromo, notes[0].Type)
	assert.Equal(t, "Novo Cupom Disponível! 🎟️", notes[0].Title)
	assert.Equal(t, "Use o código FESTA e ganhe R$ 7.50 de desconto em seu pedido!", notes[0].Message)
	assert.Len(t, hub.notes, 1)

	promos, err := svc.PublicPromos(ctx, "sabor")
	require.NoError(t, err)
	require.Len(t, promos, 1)
	assert.Equal(t, "FESTA", promos[0].Code)
}

func TestCouponUpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db, nil)
	a, err := svc.Create(ctx, "sabor", domain.Coupon{Code: "A", DiscountValue: dec("1"), IsActive: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "sabor", domain.Coupon{Code: "B", DiscountValue: dec("1"), IsActive: true})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "sabor", a.ID, domain.Coupon{Code: "b", DiscountValue: dec("2")})
	assert.ErrorIs(t, err, ErrCouponDuplicate)

	up, err := svc.Update(ctx, "sabor", a.ID, domain.Coupon{Code: "c", DiscountValue: dec("2"), IsActive: false})
	require.NoError(t, err)
	assert.Equal(t, "C", up.Code)
	assert.False(t, up.IsActive)

	require.NoError(t, svc.Delete(ctx, "sabor", a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "sabor", a.ID), ErrCouponInvalid)

	list, err := svc.List(ctx, "sabor")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateCouponNeedsCodeAndDiscount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db, nil)
	_, err := svc.Create(ctx, "sabor", domain.Coupon{Code: " ", DiscountValue: dec("5")})
	assert.ErrorIs(t, err, ErrCouponIncomplete)
	_, err = svc.Create(ctx, "sabor", domain.Coupon{Code: "ZERO", DiscountValue: dec("0")})
	assert.ErrorIs(t, err, ErrCouponIncomplete)
}
