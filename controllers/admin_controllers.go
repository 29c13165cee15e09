package controllers

import (
	"net/http"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminController -> pengaturan tenant dan ringkasan dashboard
type AdminController struct {
	Catalog   *services.CatalogService
	Store     *services.OrderStore
	Inventory *services.InventoryService
	Now       func() time.Time
	Location  *time.Location
}

func NewAdminController(catalog *services.CatalogService, store *services.OrderStore, inventory *services.InventoryService, loc *time.Location) *AdminController {
	return &AdminController{Catalog: catalog, Store: store, Inventory: inventory, Now: time.Now, Location: loc}
}

type DashboardStats struct {
	Date         string                `json:"date"`
	OrdersToday  int                   `json:"orders_today"`
	RevenueToday decimal.Decimal       `json:"revenue_today"`
	AverageTick  decimal.Decimal       `json:"average_ticket"`
	ByStatus     map[domain.Status]int `json:"by_status"`
	Delivery     int                   `json:"delivery"`
	DineIn       int                   `json:"dine_in"`
	LowStock     int                   `json:"low_stock"`
	IsOpenNow    bool                  `json:"is_open_now"`
}

func (ac *AdminController) GetSettings(c *gin.Context) {
	t, err := ac.Catalog.Tenant(c.Request.Context(), tenantOf(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tenant settings", t)
}

func (ac *AdminController) UpdateSettings(c *gin.Context) {
	var in services.TenantSettings
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	t, err := ac.Catalog.UpdateSettings(c.Request.Context(), tenantOf(c), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.InfoLogger.WithField("tenant", t.Slug).Info("settings updated")
	utils.RespondJSON(c, http.StatusOK, "Tenant settings updated", t)
}

// GetDashboardStats -> order hari ini; revenue hanya dari order finished
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()
	tenant := tenantOf(c)
	loc := ac.Location
	if loc == nil {
		loc = time.Local
	}
	now := ac.Now().In(loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	t, err := ac.Catalog.Tenant(ctx, tenant)
	if err != nil {
		respondErr(c, err)
		return
	}
	orders, err := ac.Store.ListOrders(ctx, tenant, from, from.AddDate(0, 0, 1), "")
	if err != nil {
		respondErr(c, err)
		return
	}
	low, err := ac.Inventory.List(ctx, tenant, true)
	if err != nil {
		respondErr(c, err)
		return
	}

	stats := DashboardStats{
		Date:      from.Format("2006-01-02"),
		ByStatus:  map[domain.Status]int{},
		LowStock:  len(low),
		IsOpenNow: t.IsOpenAt(now),
	}
	finished := 0
	for _, o := range orders {
		if o.Status == domain.StatusCanceled {
			continue
		}
		stats.OrdersToday++
		stats.ByStatus[o.Status]++
		if o.Type == domain.OrderTypeDelivery {
			stats.Delivery++
		} else {
			stats.DineIn++
		}
		if o.Status == domain.StatusFinished {
			finished++
			stats.RevenueToday = stats.RevenueToday.Add(o.Total)
		}
	}
	if finished > 0 {
		stats.AverageTick = stats.RevenueToday.Div(decimal.NewFromInt(int64(finished))).Round(2)
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
