package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/kds"
	"github.com/comanda-app/comanda/kitchen"
	"github.com/comanda-app/comanda/middlewares"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// KitchenController serves the kitchen board and its four commands.
type KitchenController struct {
	Kitchen  *kitchen.Registry
	Hub      *kds.Hub
	Upgrader websocket.Upgrader
}

func NewKitchenController(reg *kitchen.Registry, hub *kds.Hub, allowedOrigin string) *KitchenController {
	return &KitchenController{
		Kitchen: reg,
		Hub:     hub,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

func (kc *KitchenController) engine(c *gin.Context) (*kitchen.Engine, bool) {
	e, err := kc.Kitchen.Engine(c.Request.Context(), tenantOf(c))
	if err != nil {
		utils.RespondError(c, http.StatusServiceUnavailable, err)
		return nil, false
	}
	return e, true
}

// GetBoard -> kolom status berisi bill, filter ?type=delivery|dine-in&q=
func (kc *KitchenController) GetBoard(c *gin.Context) {
	e, ok := kc.engine(c)
	if !ok {
		return
	}
	cols := e.Board(kitchen.BoardFilter{Type: c.Query("type"), Search: c.Query("q")})
	utils.RespondJSON(c, http.StatusOK, "Kitchen board", cols)
}

func (kc *KitchenController) GetBill(c *gin.Context) {
	e, ok := kc.engine(c)
	if !ok {
		return
	}
	bill, found := e.BillFor(c.Param("order_id"))
	if !found {
		respondErr(c, kitchen.ErrOrderNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill detail", bill)
}

// ToggleItem -> centang / batal centang satu item
func (kc *KitchenController) ToggleItem(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("item index must be a number"))
		return
	}
	e, ok := kc.engine(c)
	if !ok {
		return
	}
	o, err := e.ToggleItemPrepared(c.Request.Context(), c.Param("order_id"), idx)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item toggled", o)
}

func (kc *KitchenController) AdvanceStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	next, err := domain.ParseStatus(body.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	e, ok := kc.engine(c)
	if !ok {
		return
	}
	res, err := e.AdvanceStatus(c.Request.Context(), c.Param("order_id"), next)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"tenant":   e.Tenant(),
		"order_id": res.Order.ID,
		"status":   res.Order.Status,
		"user_id":  c.GetString(middlewares.CtxUserID),
	}).Info("order advanced")
	utils.RespondJSON(c, http.StatusOK, "Status updated", res)
}

// CloseBill -> tutup semua order dalam bill meja yang memuat order_id
func (kc *KitchenController) CloseBill(c *gin.Context) {
	e, ok := kc.engine(c)
	if !ok {
		return
	}
	closed, err := e.CloseBillFor(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill closed", closed)
}

// DeleteOrder needs ?confirm=true; ?return_stock=true gives quantities back.
func (kc *KitchenController) DeleteOrder(c *gin.Context) {
	confirm, _ := strconv.ParseBool(c.Query("confirm"))
	returnStock, _ := strconv.ParseBool(c.Query("return_stock"))
	e, ok := kc.engine(c)
	if !ok {
		return
	}
	report, err := e.DeleteOrder(c.Request.Context(), c.Param("order_id"), kitchen.DeleteOptions{
		Confirmed:   confirm,
		ReturnStock: returnStock,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"tenant":   e.Tenant(),
		"order_id": c.Param("order_id"),
		"user_id":  c.GetString(middlewares.CtxUserID),
	}).Warn("order deleted")
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"stock_returns": report})
}

// KDSHandler -> endpoint WebSocket; snapshot board dulu, lalu event feed
func (kc *KitchenController) KDSHandler(c *gin.Context) {
	e, ok := kc.engine(c)
	if !ok {
		return
	}
	ws, err := kc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("websocket upgrade")
		return
	}

	snapshot := kds.Message{Event: kds.EventBoardSnapshot, Data: e.Board(kitchen.BoardFilter{})}
	if err := kc.Hub.Join(ws, e.Tenant(), c.GetString(middlewares.CtxRole), snapshot); err != nil {
		ws.Close()
		return
	}

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	kc.Hub.UnregisterClient(ws)
}
