package routes

import (
	"log/slog"
	"net/http"

	authctl "movieexplorer/src/modules/auth/controllers"
	"movieexplorer/src/modules/auth/middleware"
	files "movieexplorer/src/modules/files/controllers"
	movies "movieexplorer/src/modules/movies/controllers"
	notifications "movieexplorer/src/modules/notifications/controllers"
	subscriptions "movieexplorer/src/modules/subscriptions/controllers"
	suggest "movieexplorer/src/modules/suggest/controllers"

	"github.com/gin-gonic/gin"
)

// Handlers is everything the router dispatches to.
type Handlers struct {
	Sessions      middleware.Loader
	Auth          *authctl.Controller
	Movies        *movies.Controller
	Suggest       *suggest.Controller
	Subscriptions *subscriptions.Controller
	Notifications *notifications.Controller
	Files         *files.Controller
	BrowseSocket  gin.HandlerFunc
	// Ready reports whether the backing stores answer.
	Ready  func() bool
	Logger *slog.Logger
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.Use(middleware.LoadSession(h.Sessions, h.Logger))

	api := router.Group("/api/v1")

	// Hello World
	api.GET("hello", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": gin.H{
				"code":    http.StatusOK,
				"message": "Hello world",
			},
		})
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if h.Ready == nil || h.Ready() {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		}
	})

	// Auth Routes
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("login", h.Auth.Login)
		authRoutes.POST("signup", h.Auth.SignUp)
		authRoutes.DELETE("logout", middleware.RequireAuth(), h.Auth.Logout)
		authRoutes.GET("me", middleware.RequireAuth(), h.Auth.Me)
	}

	// Movie Routes
	moviesRoutes := api.Group("/movies")
	{
		moviesRoutes.GET("browse", h.Movies.Browse)
		moviesRoutes.GET("carousels", h.Movies.Carousels)
		moviesRoutes.GET("all", h.Movies.All)
		moviesRoutes.GET(":id", middleware.RequireAuth(), h.Movies.Detail)
	}

	adminRoutes := api.Group("/admin/movies", middleware.RequireSupervisor())
	{
		adminRoutes.POST("", h.Movies.Create)
		adminRoutes.PATCH(":id", h.Movies.Update)
		adminRoutes.DELETE(":id", h.Movies.Delete)
	}

	api.GET("suggest", h.Suggest.Suggest)

	// Subscription Routes
	plans := api.Group("/subscriptions")
	{
		plans.GET("plans", h.Subscriptions.ListPlans)
		plans.POST("", middleware.RequireAuth(), h.Subscriptions.Create)
		plans.GET("status", middleware.RequireAuth(), h.Subscriptions.Status)
		plans.GET("success", middleware.RequireAuth(), h.Subscriptions.Success)
	}

	// Notification Routes
	notify := api.Group("/notifications", middleware.RequireAuth())
	{
		notify.GET("", h.Notifications.Get)
		notify.POST("device-token", h.Notifications.RegisterDevice)
		notify.POST("toggle", h.Notifications.Toggle)
	}

	// Static Proxy MinIO
	staticProxyRoutes := api.Group("/static")
	{
		staticProxyRoutes.GET("/*filepath", h.Files.FileController)
	}

	// WebSocket route
	router.GET("/ws/browse", h.BrowseSocket)
}
