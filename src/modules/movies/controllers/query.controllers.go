package movies

import (
	"net/http"
	"strconv"

	lib "movieexplorer/src/modules/movies/lib"
	movies "movieexplorer/src/modules/movies/services"
	"movieexplorer/src/utils"

	"github.com/gin-gonic/gin"
)

// Browse runs one synchronous fetch for the BrowseState in the query string.
func (ctl *Controller) Browse(c *gin.Context) {
	state := lib.ParseBrowseState(c.Request.URL.Query())
	browser := movies.NewBrowser(ctl.catalog, movies.BrowserOptions{PageSize: ctl.pageSize, Logger: ctl.logger})
	browser.Restore(state)
	c.JSON(http.StatusOK, browser.Refresh(c.Request.Context()))
}

// All lists every movie, filtered by title substring when q is set.
func (ctl *Controller) All(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "0"))
	if perPage <= 0 || perPage > 100 {
		perPage = ctl.pageSize
	}
	if page < 1 {
		page = 1
	}

	res, err := ctl.service.AllMovies(c.Request.Context(), c.Query("q"), page, perPage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
