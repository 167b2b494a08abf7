package movies

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Carousels serves the dashboard rows. A failed row carries its own error
// and never fails the response.
func (ctl *Controller) Carousels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"carousels": ctl.carousels.Dashboard(c.Request.Context())})
}
