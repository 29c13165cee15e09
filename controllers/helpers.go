package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/kitchen"
	"github.com/comanda-app/comanda/middlewares"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
)

var errBadRange = errors.New("invalid date range")

// tenantOf -> slug dari URL publik (/t/:tenant), kalau tidak ada dari token
func tenantOf(c *gin.Context) string {
	if t := c.Param("tenant"); t != "" {
		return t
	}
	return c.GetString(middlewares.CtxTenant)
}

// statusFor maps service and engine errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, kitchen.ErrOrderNotFound),
		errors.Is(err, kitchen.ErrItemNotFound),
		errors.Is(err, kitchen.ErrProductNotFound),
		errors.Is(err, services.ErrTenantNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrInventoryNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrTransactionNotFound),
		errors.Is(err, services.ErrFixedCostNotFound),
		errors.Is(err, services.ErrCouponInvalid):
		return http.StatusNotFound
	case errors.Is(err, kitchen.ErrInvalidTransition),
		errors.Is(err, kitchen.ErrStatusConflict),
		errors.Is(err, services.ErrCategoryExists),
		errors.Is(err, services.ErrCouponDuplicate),
		errors.Is(err, services.ErrMonthClosed):
		return http.StatusConflict
	case errors.Is(err, services.ErrStoreClosed),
		errors.Is(err, services.ErrProductSoldOut),
		errors.Is(err, services.ErrCouponExhausted),
		errors.Is(err, services.ErrCouponNotYours):
		return http.StatusUnprocessableEntity
	case errors.Is(err, kitchen.ErrNotConfirmed),
		errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrUnknownProduct),
		errors.Is(err, services.ErrUnknownSide),
		errors.Is(err, services.ErrMissingTable),
		errors.Is(err, services.ErrMissingDelivery),
		errors.Is(err, services.ErrInvalidProduct),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrCouponIncomplete),
		errors.Is(err, errBadRange):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func respondErr(c *gin.Context, err error) {
	utils.RespondError(c, statusFor(err), err)
}

// parseRange reads ?month=2024-03 or ?from=2024-03-01&to=2024-03-31 (both
// days included). No parameters gives zero times.
func parseRange(c *gin.Context, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if m := c.Query("month"); m != "" {
		t, err := time.ParseInLocation("2006-01", m, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: month %q", errBadRange, m)
		}
		from, to := services.MonthRange(t.Year(), t.Month(), loc)
		return from, to, nil
	}
	var from, to time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return from, to, fmt.Errorf("%w: from %q", errBadRange, s)
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return from, to, fmt.Errorf("%w: to %q", errBadRange, s)
		}
		to = t.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, fmt.Errorf("%w: from after to", errBadRange)
	}
	return from, to, nil
}
