package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAvailability handles GET /api/availability.
func (h *Handler) GetAvailability(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Query("property_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid property_id"})
		return
	}

	checkIn, err := time.Parse(dateLayout, c.Query("check_in"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "check_in must be a YYYY-MM-DD date"})
		return
	}
	checkOut, err := time.Parse(dateLayout, c.Query("check_out"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "check_out must be a YYYY-MM-DD date"})
		return
	}

	available, err := h.svc.CheckAvailability(c.Request.Context(), propertyID, checkIn, checkOut)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"propertyId": propertyID,
		"checkIn":    checkIn.Format(dateLayout),
		"checkOut":   checkOut.Format(dateLayout),
		"available":  available,
	})
}
