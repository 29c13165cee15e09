package controllers

import (
	"net/http"

	"github.com/comanda-app/comanda/middlewares"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(n *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: n}
}

// GetAllNotifications -> milik user ini + broadcast tenant
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	list, err := nc.Notifications.List(c.Request.Context(), tenantOf(c), c.GetString(middlewares.CtxUserID))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", list)
}

// CreateNotification -> broadcast ke semua staff tenant
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	var body struct {
		Type    string `json:"type"`
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	n, err := nc.Notifications.Create(c.Request.Context(), tenantOf(c), body.Type, body.Title, body.Message)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Notification created", n)
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	id := c.Param("notif_id")
	if err := nc.Notifications.MarkRead(c.Request.Context(), tenantOf(c), id); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification read", gin.H{"notif_id": id})
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id := c.Param("notif_id")
	if err := nc.Notifications.Delete(c.Request.Context(), tenantOf(c), id); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
