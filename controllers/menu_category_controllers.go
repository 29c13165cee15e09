package controllers

import (
	"net/http"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
)

type MenuCategoryController struct {
	Catalog *services.CatalogService
}

func NewMenuCategoryController(catalog *services.CatalogService) *MenuCategoryController {
	return &MenuCategoryController{Catalog: catalog}
}

func (mc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	cats, err := mc.Catalog.Categories(c.Request.Context(), tenantOf(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", cats)
}

func (mc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
		Icon string `json:"icon"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	cat, err := mc.Catalog.CreateCategory(c.Request.Context(), tenantOf(c), domain.Category{Name: body.Name, Icon: body.Icon})
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", cat)
}

func (mc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	id := c.Param("category_id")
	if err := mc.Catalog.DeleteCategory(c.Request.Context(), tenantOf(c), id); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}
