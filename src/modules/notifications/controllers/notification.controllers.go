package notifications

import (
	"net/http"

	"movieexplorer/src/modules/auth/middleware"
	notifications "movieexplorer/src/modules/notifications/services"
	"movieexplorer/src/utils"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service *notifications.Service
}

func NewController(service *notifications.Service) *Controller {
	return &Controller{service: service}
}

func (ctl *Controller) RegisterDevice(c *gin.Context) {
	var req struct {
		DeviceToken string `json:"device_token" binding:"required"`
	}
	if serr := utils.Bind(c, &req); serr != nil {
		utils.RespondError(c, serr)
		return
	}
	pref, err := ctl.service.RegisterDevice(c.Request.Context(), middleware.CurrentSession(c), req.DeviceToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device token registered", "preference": pref})
}

func (ctl *Controller) Toggle(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if serr := utils.Bind(c, &req); serr != nil {
		utils.RespondError(c, serr)
		return
	}
	pref, err := ctl.service.Toggle(c.Request.Context(), middleware.CurrentSession(c), *req.Enabled)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	msg := "Notifications disabled"
	if pref.Enabled {
		msg = "Notifications enabled"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "preference": pref})
}

func (ctl *Controller) Get(c *gin.Context) {
	pref, err := ctl.service.Preference(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}
