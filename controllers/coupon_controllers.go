package controllers

import (
	"net/http"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
)

type CouponController struct {
	Coupons *services.CouponService
}

func NewCouponController(coupons *services.CouponService) *CouponController {
	return &CouponController{Coupons: coupons}
}

func (cc *CouponController) GetAllCoupons(c *gin.Context) {
	list, err := cc.Coupons.List(c.Request.Context(), tenantOf(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of coupons", list)
}

type couponRequest struct {
	domain.Coupon
	IsActive *bool `json:"is_active"`
}

// toCoupon -> kupon baru aktif kecuali is_active=false dikirim eksplisit
func (r couponRequest) toCoupon() domain.Coupon {
	out := r.Coupon
	out.IsActive = r.IsActive == nil || *r.IsActive
	return out
}

func (cc *CouponController) CreateCoupon(c *gin.Context) {
	var in couponRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	created, err := cc.Coupons.Create(c.Request.Context(), tenantOf(c), in.toCoupon())
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Coupon created", created)
}

func (cc *CouponController) UpdateCoupon(c *gin.Context) {
	var in couponRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := cc.Coupons.Update(c.Request.Context(), tenantOf(c), c.Param("coupon_id"), in.toCoupon())
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Coupon updated", updated)
}

func (cc *CouponController) DeleteCoupon(c *gin.Context) {
	id := c.Param("coupon_id")
	if err := cc.Coupons.Delete(c.Request.Context(), tenantOf(c), id); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Coupon deleted", gin.H{"coupon_id": id})
}

// ValidateCoupon -> dipakai storefront sebelum checkout
func (cc *CouponController) ValidateCoupon(c *gin.Context) {
	var body struct {
		Code   string `json:"code" binding:"required"`
		UserID string `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	cp, err := cc.Coupons.Validate(c.Request.Context(), tenantOf(c), body.Code, body.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Coupon valid", gin.H{
		"code":           cp.Code,
		"discount_value": cp.DiscountValue,
	})
}

func (cc *CouponController) PublicPromos(c *gin.Context) {
	list, err := cc.Coupons.PublicPromos(c.Request.Context(), tenantOf(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, cp := range list {
		out = append(out, gin.H{"code": cp.Code, "discount_value": cp.DiscountValue})
	}
	utils.RespondJSON(c, http.StatusOK, "Promotions", out)
}
