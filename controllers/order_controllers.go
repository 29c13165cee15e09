package controllers

import (
	"net/http"

	"github.com/comanda-app/comanda/middlewares"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderController struct {
	Orders *services.OrderService
	Store  *services.OrderStore
}

func NewOrderController(orders *services.OrderService, store *services.OrderStore) *OrderController {
	return &OrderController{Orders: orders, Store: store}
}

// PlaceOrder -> checkout storefront, balas order + link WhatsApp ke restoran
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var in services.PlaceOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	placed, err := oc.Orders.PlaceOrder(c.Request.Context(), tenantOf(c), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed", placed)
}

// CounterSale -> penjualan balcão oleh staff
func (oc *OrderController) CounterSale(c *gin.Context) {
	var in services.CounterSaleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	o, err := oc.Orders.CounterSale(c.Request.Context(), tenantOf(c), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"tenant":   o.TenantSlug,
		"order_id": o.ID,
		"user_id":  c.GetString(middlewares.CtxUserID),
	}).Info("counter sale")
	utils.RespondJSON(c, http.StatusCreated, "Counter sale registered", o)
}

// GetAllOrders -> ?from=&to= atau ?month=, ?status=
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	from, to, err := parseRange(c, oc.Orders.Location)
	if err != nil {
		respondErr(c, err)
		return
	}
	orders, err := oc.Store.ListOrders(c.Request.Context(), tenantOf(c), from, to, c.Query("status"))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	o, err := oc.Store.GetOrder(c.Request.Context(), tenantOf(c), c.Param("order_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", o)
}
