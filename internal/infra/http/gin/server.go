package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"github.com/Mihail0123/hausrunde/internal/infra/config"
	"github.com/Mihail0123/hausrunde/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHTTP
	Ad             AdHTTP
	Booking        BookingHTTP
	Availability   AvailabilityHTTP
	Review         ReviewHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(corsConfig(cfg)))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Ad != nil {
		api.GET("/ads", h.Ad.List)
		api.GET("/ads/:id", h.Ad.Get)
		api.POST("/ads", h.Ad.Publish)
		api.PUT("/ads/:id", h.Ad.Update)
		api.POST("/ads/:id/activate", h.Ad.Activate)
		api.POST("/ads/:id/deactivate", h.Ad.Deactivate)
		api.GET("/me/ads", h.Ad.ListMine)
	}
	if h.Availability != nil {
		api.GET("/ads/:id/availability", h.Availability.Check)
		api.GET("/ads/:id/calendar", h.Availability.Calendar)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/confirm", h.Booking.Confirm)
		api.POST("/bookings/:id/reject", h.Booking.Reject)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.GET("/bookings/:id/cancellation-preview", h.Booking.PreviewCancellation)
		api.GET("/ads/:id/bookings", h.Booking.ListForAd)
		api.GET("/me/bookings", h.Booking.ListMine)
		api.GET("/me/bookings/stats", h.Booking.Stats)
	}
	if h.Review != nil {
		api.POST("/reviews", h.Review.Submit)
		api.GET("/ads/:id/reviews", h.Review.ListForAd)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func corsConfig(cfg config.Config) cors.Config {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
