package movies

import (
	"log/slog"
	"net/http"

	"movieexplorer/src/modules/auth/middleware"
	lib "movieexplorer/src/modules/movies/lib"
	movies "movieexplorer/src/modules/movies/services"
	"movieexplorer/src/utils"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service   *movies.Service
	carousels *movies.CarouselService
	catalog   movies.Catalog
	pageSize  int
	logger    *slog.Logger
}

func NewController(service *movies.Service, carousels *movies.CarouselService, catalog movies.Catalog, pageSize int, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{service: service, carousels: carousels, catalog: catalog, pageSize: pageSize, logger: logger}
}

func (ctl *Controller) Detail(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	detail, err := ctl.service.Detail(c.Request.Context(), middleware.CurrentSession(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (ctl *Controller) Create(c *gin.Context) {
	var form lib.MovieForm
	if serr := utils.Bind(c, &form); serr != nil {
		utils.RespondError(c, serr)
		return
	}
	movie, err := ctl.service.Create(c.Request.Context(), middleware.CurrentSession(c), form)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Movie created successfully", "movie": movie})
}

func (ctl *Controller) Update(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var form lib.MovieForm
	if serr := utils.Bind(c, &form); serr != nil {
		utils.RespondError(c, serr)
		return
	}
	movie, err := ctl.service.Update(c.Request.Context(), middleware.CurrentSession(c), id, form)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Movie updated successfully", "movie": movie})
}

func (ctl *Controller) Delete(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := ctl.service.Delete(c.Request.Context(), middleware.CurrentSession(c), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Movie deleted successfully"})
}
