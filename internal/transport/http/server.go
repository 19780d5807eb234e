package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appsvc "dropit/internal/app"
	"dropit/internal/bootstrap"
	"dropit/internal/transport/http/handler"
	"dropit/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	if err := router.SetTrustedProxies(app.Config.App.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies failed: %w", err)
	}
	router.Use(middleware.RequestLogger(app.Logger), gin.Recovery(), middleware.Metrics(), middleware.SecurityHeaders())

	authService, err := appsvc.NewAuthService(
		app.Config.Auth.AppPassword,
		app.Config.Auth.AppPasswordHash,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	if err != nil {
		return nil, fmt.Errorf("build auth service failed: %w", err)
	}

	var publisher appsvc.MessagePublisher
	if app.Publisher != nil {
		publisher = app.Publisher
	}
	var archiveReader appsvc.ArchiveReader
	if app.ArchiveRepo != nil {
		archiveReader = app.ArchiveRepo
	}

	contentService := appsvc.NewContentService(app.KV, publisher, app.Logger)
	uploadService := appsvc.NewUploadService(app.Storage, appsvc.UploadServiceOptions{
		MaxSize:      app.Config.UploadMaxBytes(),
		AllowedTypes: app.Config.Upload.AllowedTypes,
		Prefix:       app.Config.Blob.Prefix,
		ListLimit:    app.Config.Blob.ListLimit,
	})
	archiveService := appsvc.NewArchiveService(archiveReader)

	healthHandler := handler.NewHealthHandler(app)
	authHandler := handler.NewAuthHandler(authService, app.Config.Auth.CookieName, app.Config.IsProduction())
	contentHandler := handler.NewContentHandler(contentService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	archiveHandler := handler.NewArchiveHandler(archiveService)

	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	uploads := router.Group(app.Config.UploadsRoutePath(), middleware.UploadHeaders())
	uploads.Static("", app.Storage.Local().Root())

	loginLimiter := middleware.NewIPRateLimiter(app.Config.Auth.LoginRatePerMinute, app.Config.Auth.LoginBurst)
	requireAuth := middleware.AuthCookie(authService, app.Config.Auth.CookieName)

	api := router.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("", middleware.RateLimit(loginLimiter), authHandler.Login)
	authGroup.GET("", authHandler.Status)
	authGroup.DELETE("", authHandler.Logout)

	contentGroup := api.Group("/content", requireAuth)
	contentGroup.GET("", contentHandler.Get)
	contentGroup.POST("", contentHandler.Post)
	contentGroup.DELETE("", contentHandler.Delete)

	uploadGroup := api.Group("/upload", requireAuth)
	uploadGroup.GET("", uploadHandler.List)
	uploadGroup.POST("", uploadHandler.Upload)
	uploadGroup.DELETE("", uploadHandler.Delete)

	api.GET("/archive", requireAuth, archiveHandler.List)

	return router, nil
}
