package suggest

import (
	"log/slog"
	"net/http"
	"strings"

	suggest "movieexplorer/src/modules/suggest/services"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	engine *suggest.Engine
	logger *slog.Logger
}

func NewController(engine *suggest.Engine, logger *slog.Logger) *Controller {
	return &Controller{engine: engine, logger: logger}
}

// Suggest answers one non-debounced suggestion request. Failures yield an
// empty list rather than an error.
func (ctl *Controller) Suggest(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	items, err := ctl.engine.Suggest(c.Request.Context(), q)
	if err != nil {
		ctl.logger.Warn("[Suggest] search failed", slog.String("query", q), slog.String("error", err.Error()))
		items = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"query": q,
		"items": items,
		"open":  len(items) > 0,
	})
}
