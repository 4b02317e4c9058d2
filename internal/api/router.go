package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"rental-booking-backend/config"
	"rental-booking-backend/internal/booking"
	"rental-booking-backend/internal/mw"
	"rental-booking-backend/internal/notification"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, svc booking.Service, pool *notification.WorkerPool, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(svc, pool, webpushOptions)

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", guestTokenHeader)
	r.Use(cors.New(corsCfg))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// Availability answers change with every booking, so the response
	// cache TTL stays short.
	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	auth := mw.Auth(cfg.Auth.AccessTokenSecret)

	api := r.Group("/api")
	api.Use(rateLimiter, auth)
	{
		api.POST("/reservations", handler.CreateReservation)
		api.GET("/reservations", handler.ListReservations)
		api.GET("/reservations/:id", handler.GetReservation)
		api.GET("/reservations/ref/:ref", handler.GetReservationByRef)
		api.POST("/reservations/:id/status", handler.TransitionReservation)
		api.DELETE("/reservations/:id", handler.CancelReservation)

		api.GET("/availability", caching, handler.GetAvailability)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
