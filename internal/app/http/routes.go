package routes

import (
	authapi "proofing-app/internal/api/auth"
	dashboardapi "proofing-app/internal/api/dashboard"
	galleryapi "proofing-app/internal/api/gallery"
	"proofing-app/internal/app/http/middleware"
	"proofing-app/internal/domain/photographers"
	"proofing-app/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Deps struct {
	JWTSecret    string
	SecureCookie bool

	Auth      *authapi.Handler
	Gallery   *galleryapi.Handler
	Dashboard *dashboardapi.Handler
	Upgrader  websocket.Upgrader

	Albums      middleware.AlbumOwnerChecker
	RateLimiter *middleware.RateLimiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Signed original links; the token is the credential.
	r.GET("/assets/original", d.Gallery.RedeemOriginal)

	public := r.Group("/")
	public.Use(middleware.StripMarkup())
	if d.RateLimiter != nil {
		public.Use(d.RateLimiter.Handler())
	}

	public.POST("/login", d.Auth.Login)

	// Client galleries
	gallery := public.Group("/g/:token")
	gallery.Use(middleware.Visitor(d.SecureCookie))
	gallery.GET("", d.Gallery.GetGallery)
	gallery.POST("/identify", d.Gallery.Identify)
	gallery.POST("/toggle", d.Gallery.Toggle)
	gallery.POST("/finish", d.Gallery.Finish)
	gallery.POST("/review", d.Gallery.Review)
	gallery.GET("/photos/:photo_id/original", d.Gallery.OriginalURL)

	// Photographer dashboard
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.JWTSecret), middleware.RequireRole(photographers.RolePhotographer))
	auth.GET("/albums", d.Dashboard.ListAlbums)
	auth.GET("/orders", d.Dashboard.ListOrders)
	auth.GET("/events", d.Dashboard.Events(d.Upgrader))

	owned := auth.Group("/orders/:album_id")
	owned.Use(middleware.StripMarkup(), middleware.RequireAlbumOwner(d.Albums))
	owned.PUT("/:client_id/status", d.Dashboard.SetStatus)
}
