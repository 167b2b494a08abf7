package files

import (
	"bytes"
	"net/http"

	file "movieexplorer/src/modules/files/services"
	"movieexplorer/src/utils"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	images *file.ImageService
}

func NewController(images *file.ImageService) *Controller {
	return &Controller{images: images}
}

func (ctl *Controller) FileController(c *gin.Context) {
	filepath := c.Param("filepath")
	if filepath == "" || filepath == "/" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filepath"})
		return
	}

	img, serr := ctl.images.Fetch(c.Request.Context(), filepath)
	if serr != nil {
		utils.RespondError(c, serr)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, int64(len(img.Data)), img.ContentType, bytes.NewReader(img.Data), nil)
}
