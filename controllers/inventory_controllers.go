package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InventoryController struct {
	Inventory *services.InventoryService
	Location  *time.Location
}

func NewInventoryController(inv *services.InventoryService, loc *time.Location) *InventoryController {
	return &InventoryController{Inventory: inv, Location: loc}
}

// GetAllItems -> ?low=true hanya yang di bawah minimum
func (ic *InventoryController) GetAllItems(c *gin.Context) {
	low, _ := strconv.ParseBool(c.Query("low"))
	items, err := ic.Inventory.List(c.Request.Context(), tenantOf(c), low)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory", items)
}

func (ic *InventoryController) GetItemByID(c *gin.Context) {
	item, err := ic.Inventory.Get(c.Request.Context(), tenantOf(c), c.Param("item_id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item", item)
}

func (ic *InventoryController) CreateItem(c *gin.Context) {
	var in domain.InventoryItem
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := ic.Inventory.Create(c.Request.Context(), tenantOf(c), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Inventory item created", item)
}

func (ic *InventoryController) UpdateItem(c *gin.Context) {
	var in domain.InventoryItem
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := ic.Inventory.Update(c.Request.Context(), tenantOf(c), c.Param("item_id"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item updated", item)
}

func (ic *InventoryController) DeleteItem(c *gin.Context) {
	id := c.Param("item_id")
	if err := ic.Inventory.Delete(c.Request.Context(), tenantOf(c), id); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item deleted", gin.H{"item_id": id})
}

// AdjustQty -> delta positif (entrada) atau negatif (saída), minimal 0
func (ic *InventoryController) AdjustQty(c *gin.Context) {
	var body struct {
		Delta decimal.Decimal `json:"delta"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := ic.Inventory.Adjust(c.Request.Context(), tenantOf(c), c.Param("item_id"), body.Delta)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory adjusted", item)
}

func (ic *InventoryController) RecordWaste(c *gin.Context) {
	var body struct {
		Quantity decimal.Decimal `json:"quantity"`
		Reason   string          `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	rec, err := ic.Inventory.RecordWaste(c.Request.Context(), tenantOf(c), c.Param("item_id"), body.Quantity, body.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Waste recorded", rec)
}

func (ic *InventoryController) WasteLog(c *gin.Context) {
	from, to, err := parseRange(c, ic.Location)
	if err != nil {
		respondErr(c, err)
		return
	}
	log, err := ic.Inventory.WasteLog(c.Request.Context(), tenantOf(c), from, to)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waste log", log)
}

func (ic *InventoryController) Valuation(c *gin.Context) {
	items, err := ic.Inventory.List(c.Request.Context(), tenantOf(c), false)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock valuation", services.Valuation(items))
}

// ShoppingList -> teks siap kirim lewat WhatsApp
func (ic *InventoryController) ShoppingList(c *gin.Context) {
	items, err := ic.Inventory.List(c.Request.Context(), tenantOf(c), true)
	if err != nil {
		respondErr(c, err)
		return
	}
	now := time.Now()
	if ic.Location != nil {
		now = now.In(ic.Location)
	}
	c.String(http.StatusOK, services.ShoppingList(items, now))
}
