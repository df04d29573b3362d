// Package router builds the gin engine: global middleware, the JSON API
// under /api and the session-backed UI pages.
package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"explorer-be/internal/auth"
	"explorer-be/internal/config"
	"explorer-be/internal/controllers"
	"explorer-be/internal/middleware"
	"explorer-be/internal/service"
	"explorer-be/web"
)

// Deps carries everything the route table needs.
type Deps struct {
	Config  *config.Config
	Tokens  *auth.TokenService
	Session *auth.SessionCookie

	AuthService  service.AuthService
	UserService  service.UserService
	PlaceService service.PlaceService
	MediaService service.MediaService

	// Users resolves token and session subjects.
	Users auth.UserFinder
}

// New builds the engine. Rate limiter cleanup stops when ctx is cancelled.
func New(ctx context.Context, d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	tokenAuth := auth.NewTokenAuthenticator(d.Tokens, d.Users)
	sessionAuth := auth.NewSessionAuthenticator(d.Session, d.Users)

	userController := controllers.NewUserController(d.AuthService, d.UserService)
	placeController := controllers.NewPlaceController(d.PlaceService)
	mediaController := controllers.NewMediaController(d.MediaService)
	qrcodeController := controllers.NewQRCodeController(d.PlaceService)
	webController := controllers.NewWebController(
		d.AuthService, d.UserService, d.PlaceService, d.MediaService, d.Session, d.Config.MapsAPIKey,
	)

	generalRateLimiter := middleware.NewRateLimiter(ctx, rate.Limit(d.Config.RateLimitRPS), d.Config.RateLimitBurst)
	authRateLimiter := middleware.NewRateLimiter(ctx, rate.Limit(d.Config.RateLimitAuthRPS), d.Config.RateLimitAuthBurst)
	uploadLimit := middleware.BodyLimit(middleware.MaxUploadBytes)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/scripts", web.Scripts())

	// Health check endpoint (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(generalRateLimiter.LimitMiddleware())
	{
		users := api.Group("/users")
		{
			users.GET("", userController.List)
			users.POST("", userController.Create)
			users.DELETE("", userController.DeleteAll)
			users.POST("/authenticate", authRateLimiter.LimitMiddleware(), userController.Authenticate)
			users.GET("/:id", userController.Get)
			users.DELETE("/:id", userController.Delete)

			favourites := users.Group("/:id/favourites", middleware.RequireToken(tokenAuth))
			favourites.GET("", userController.Favourites)
			favourites.POST("/:poiId", userController.ToggleFavourite)
		}

		// Public place reads
		public := api.Group("", middleware.OptionalToken(tokenAuth))
		{
			public.GET("/pois", placeController.List)
			public.GET("/pois/stats", placeController.Stats)
			public.GET("/pois/:id/qrcode", qrcodeController.GenerateQRCode)
		}

		// Protected routes - require a bearer token
		protected := api.Group("", middleware.RequireToken(tokenAuth))
		{
			protected.POST("/pois", placeController.Create)
			protected.DELETE("/pois", placeController.DeleteAll)
			protected.GET("/pois/:id", placeController.Get)
			protected.DELETE("/pois/:id", placeController.Delete)
			protected.GET("/added-places/:id", placeController.Get)
			protected.POST("/pois/:id/upload", uploadLimit, mediaController.Upload)
			protected.DELETE("/pois/:id/images/:filename", mediaController.DeleteImage)
		}
	}

	ui := router.Group("", middleware.TrySession(sessionAuth))
	{
		ui.GET("/", webController.Dashboard)
		ui.GET("/login", webController.ShowLogin)
		ui.POST("/login", authRateLimiter.LimitMiddleware(), webController.Login)
		ui.GET("/signup", webController.ShowSignup)
		ui.POST("/signup", webController.Signup)
		ui.GET("/logout", webController.Logout)
	}

	pages := router.Group("", middleware.RequireSession(sessionAuth))
	{
		pages.GET("/dashboard", webController.Dashboard)
		pages.GET("/pois", webController.ListPlaces)
		pages.POST("/pois", webController.AddPlace)
		pages.GET("/pois/add", webController.ShowAddPlace)
		pages.POST("/pois/add", webController.AddPlace)
		pages.GET("/pois/:id", webController.ShowPlace)
		pages.GET("/added-places/:id", webController.ShowPlace)
		pages.POST("/pois/delete/:id", webController.DeletePlace)
		pages.POST("/pois/:id/upload", uploadLimit, webController.UploadImages)
		pages.GET("/pois/:id/images/:filename/delete", webController.DeleteImage)
		pages.POST("/pois/:id/favourite", webController.ToggleFavourite)
		pages.GET("/favourites", webController.Favourites)
	}

	return router, nil
}
