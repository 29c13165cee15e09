package controllers

import (
	"net/http"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Catalog *services.CatalogService
}

func NewMenuController(catalog *services.CatalogService) *MenuController {
	return &MenuController{Catalog: catalog}
}

// PublicMenu -> cardápio publik, produk esgotado disembunyikan
func (mc *MenuController) PublicMenu(c *gin.Context) {
	menu, err := mc.Catalog.Menu(c.Request.Context(), tenantOf(c), true)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", menu)
}

func (mc *MenuController) GetAllMenus(c *gin.Context) {
	menu, err := mc.Catalog.Menu(c.Request.Context(), tenantOf(c), false)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", menu)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	created, err := mc.Catalog.CreateProduct(c.Request.Context(), tenantOf(c), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", created)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := mc.Catalog.UpdateProduct(c.Request.Context(), tenantOf(c), c.Param("product_id"), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", updated)
}

func (mc *MenuController) SetAvailability(c *gin.Context) {
	var body struct {
		Availability domain.Availability `json:"availability" binding:"required,oneof=available low_stock out_of_stock"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := mc.Catalog.SetAvailability(c.Request.Context(), tenantOf(c), c.Param("product_id"), body.Availability); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Availability updated", gin.H{"availability": body.Availability})
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id := c.Param("product_id")
	if err := mc.Catalog.DeleteProduct(c.Request.Context(), tenantOf(c), id); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"product_id": id})
}
