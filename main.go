package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"movieexplorer/src/client"
	"movieexplorer/src/config"
	authctl "movieexplorer/src/modules/auth/controllers"
	authlib "movieexplorer/src/modules/auth/lib"
	auth "movieexplorer/src/modules/auth/services"
	filectl "movieexplorer/src/modules/files/controllers"
	file "movieexplorer/src/modules/files/services"
	moviectl "movieexplorer/src/modules/movies/controllers"
	movies "movieexplorer/src/modules/movies/services"
	notifyctl "movieexplorer/src/modules/notifications/controllers"
	notifications "movieexplorer/src/modules/notifications/services"
	subctl "movieexplorer/src/modules/subscriptions/controllers"
	subscriptions "movieexplorer/src/modules/subscriptions/services"
	suggestctl "movieexplorer/src/modules/suggest/controllers"
	suggest "movieexplorer/src/modules/suggest/services"
	"movieexplorer/src/routes"
	"movieexplorer/src/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	bootLogger := config.NewLogger("info", "text")
	config.LoadDotEnv(bootLogger)
	cfg := config.Load(bootLogger)
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Info("starting movie explorer", slog.String("env", cfg.Env), slog.String("catalog", cfg.CatalogBaseURL))

	ctx := context.Background()

	// Connect to the backing stores. Each one is optional in development.
	db, err := config.ConnectDatabase(cfg.DB, logger)
	if err != nil {
		logger.Warn("postgres unavailable, keeping sessions in memory", slog.String("error", err.Error()))
		db = nil
	}
	rdb, err := config.ConnectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without cache", slog.String("error", err.Error()))
		rdb = nil
	}
	var objects file.ObjectStore
	if mc, err := config.ConnectMinio(ctx, cfg.Minio, logger); err != nil {
		logger.Warn("minio unavailable, images are proxied without storage", slog.String("error", err.Error()))
	} else {
		objects = file.NewMinioStore(mc, cfg.Minio.Bucket)
	}

	var cache client.Cache = client.NopCache{}
	if rdb != nil {
		cache = client.NewRedisCache(rdb, logger)
	}
	catalog := client.New(client.Options{
		BaseURL: cfg.CatalogBaseURL,
		Timeout: cfg.CatalogTimeout,
		Cache:   cache,
		Logger:  logger,
	})

	sessionStore, preferenceStore := stores(db)
	authService := auth.NewService(catalog, sessionStore, cfg.SessionTTL, logger)
	movieService := movies.NewService(catalog, logger)
	carousels := movies.NewCarouselService(catalog, rdb, 30*time.Minute, logger)
	images := file.NewImageService(file.ImageOptions{
		Redis:  rdb,
		Store:  objects,
		Origin: cfg.ImageOrigin,
		Logger: logger,
	})
	suggestOpts := suggest.Options{
		Debounce: cfg.SuggestDebounce,
		Grace:    cfg.SuggestGrace,
		Cutoff:   cfg.SuggestCutoff,
		Limit:    cfg.SuggestLimit,
	}
	oneShot := suggestOpts
	oneShot.Logger = logger

	if err := authlib.RegisterBindingValidators(); err != nil {
		logger.Error("could not register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	// Enable CORS
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	routes.RegisterRoutes(router, routes.Handlers{
		Sessions:      authService,
		Auth:          authctl.NewController(authService, cfg.CookieSecure, logger),
		Movies:        moviectl.NewController(movieService, carousels, catalog, cfg.PageSize, logger),
		Suggest:       suggestctl.NewController(suggest.NewEngine(catalog, oneShot), logger),
		Subscriptions: subctl.NewController(subscriptions.NewService(catalog, authService, logger)),
		Notifications: notifyctl.NewController(notifications.NewService(catalog, preferenceStore, logger)),
		Files:         filectl.NewController(images),
		BrowseSocket: services.NewBrowseSocket(catalog, services.BrowseSocketOptions{
			PageSize:       cfg.PageSize,
			Suggest:        suggestOpts,
			AllowedOrigins: cfg.CORSOrigins,
			Logger:         logger,
		}).Handler,
		Ready:  ready(db, rdb),
		Logger: logger,
	})

	jobs, err := services.SetupBackgroundJobs(services.Jobs{
		Carousels:   carousels,
		Sessions:    authService,
		Images:      images,
		ImageOrigin: cfg.ImageOrigin,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("could not schedule background jobs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer jobs.Stop()

	// Start API and WebSocket server
	if err := router.Run(cfg.Addr()); err != nil {
		logger.Error("could not start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func stores(db *gorm.DB) (auth.SessionStore, notifications.PreferenceStore) {
	if db == nil {
		return auth.NewMemorySessionStore(), notifications.NewMemoryPreferenceStore()
	}
	return auth.NewGormSessionStore(db), notifications.NewGormPreferenceStore(db)
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-ID"},
		ExposeHeaders:    []string{"X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			// Credentials cannot go with a literal "*", so echo the caller's origin.
			c.AllowOriginFunc = func(string) bool { return true }
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

func ready(db *gorm.DB, rdb *redis.Client) func() bool {
	return func() bool {
		if db != nil && !config.CheckConnection(db) {
			return false
		}
		if rdb != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				return false
			}
		}
		return true
	}
}
