package subscriptions

import (
	"net/http"

	"movieexplorer/src/modules/auth/middleware"
	subscriptions "movieexplorer/src/modules/subscriptions/services"
	"movieexplorer/src/utils"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service *subscriptions.Service
}

func NewController(service *subscriptions.Service) *Controller {
	return &Controller{service: service}
}

func (ctl *Controller) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": ctl.service.Plans()})
}

func (ctl *Controller) Create(c *gin.Context) {
	var req struct {
		PlanType string `json:"plan_type" binding:"required"`
	}
	if serr := utils.Bind(c, &req); serr != nil {
		serr.Message = "Please select a plan"
		utils.RespondError(c, serr)
		return
	}
	res, err := ctl.service.Checkout(c.Request.Context(), middleware.CurrentSession(c), req.PlanType)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *Controller) Status(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	plan, err := ctl.service.Status(c.Request.Context(), sess)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_type": plan, "premium": sess.IsPremium()})
}

func (ctl *Controller) Success(c *gin.Context) {
	v, err := ctl.service.Verify(c.Request.Context(), middleware.CurrentSession(c), c.Query("session_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   v.Message,
		"plan_type": v.PlanType,
		"redirect":  "/",
	})
}
