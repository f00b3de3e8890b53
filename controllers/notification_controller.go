package controllers

import (
	"errors"
	"net/http"

	"shelfshare/app"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct{ *Srv }

func NewNotificationController(s *Srv) *NotificationController {
	return &NotificationController{Srv: s}
}

// GET /notifications
func (nc *NotificationController) List(c *gin.Context) {
	ns, err := nc.Repo.ListNotifications(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"notifications": ns})
}

// POST /notifications/:id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	err := nc.Repo.MarkNotificationRead(c.Request.Context(), app.CurrentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
