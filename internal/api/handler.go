package api

import (
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"rental-booking-backend/internal/booking"
	"rental-booking-backend/internal/notification"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     booking.Service
	pool    *notification.WorkerPool
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(svc booking.Service, pool *notification.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		svc:     svc,
		pool:    pool,
		webpush: webpushOptions,
	}
}

// writeError translates a booking error into an HTTP response. Domain
// kinds pass through; database errors are logged and surfaced as a
// generic 500.
func writeError(c *gin.Context, err error) {
	switch booking.KindOf(err) {
	case booking.KindValidation:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case booking.KindNotFound:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case booking.KindConflict:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case booking.KindAuthorization:
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
