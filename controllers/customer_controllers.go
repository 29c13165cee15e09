package controllers

import (
	"net/http"
	"time"

	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	Orders *services.OrderService
	Store  *services.OrderStore
}

func NewCustomerController(orders *services.OrderService, store *services.OrderStore) *CustomerController {
	return &CustomerController{Orders: orders, Store: store}
}

// GetAllCustomers -> tabel customers (diisi saat checkout)
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	list, err := cc.Orders.Customers(c.Request.Context(), tenantOf(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of customers", list)
}

// GetMetrics -> CRM dari order pada periode (default: 30 hari terakhir)
func (cc *CustomerController) GetMetrics(c *gin.Context) {
	loc := cc.Orders.Location
	from, to, err := parseRange(c, loc)
	if err != nil {
		respondErr(c, err)
		return
	}
	now := time.Now()
	if cc.Orders.Now != nil {
		now = cc.Orders.Now()
	}
	if from.IsZero() && to.IsZero() {
		from = now.AddDate(0, 0, -30)
	}
	orders, err := cc.Store.ListOrders(c.Request.Context(), tenantOf(c), from, to, "")
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer metrics", services.BuildCustomerReport(orders, now))
}
