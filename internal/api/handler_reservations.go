package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rental-booking-backend/internal/booking"
	"rental-booking-backend/internal/model"
	"rental-booking-backend/internal/mw"
	"rental-booking-backend/internal/notification"
)

const dateLayout = "2006-01-02"

// guestTokenHeader carries the verification token for guest-initiated
// status changes.
const guestTokenHeader = "X-Guest-Token"

type createReservationRequest struct {
	PropertyID      int64   `json:"propertyId" binding:"required"`
	CheckIn         string  `json:"checkIn" binding:"required"`
	CheckOut        string  `json:"checkOut" binding:"required"`
	Guests          int     `json:"guests"`
	GuestName       string  `json:"guestName"`
	GuestEmail      string  `json:"guestEmail"`
	GuestPhone      string  `json:"guestPhone"`
	SpecialRequests string  `json:"specialRequests"`
	PaymentMethod   string  `json:"paymentMethod"`
	TotalPrice      float64 `json:"totalPrice"`
}

// CreateReservation handles POST /api/reservations. Authenticated
// callers book under their identity; anonymous callers must supply
// guest contact details and receive a guest verification token back.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "checkIn must be a YYYY-MM-DD date"})
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "checkOut must be a YYYY-MM-DD date"})
		return
	}

	createReq := booking.CreateRequest{
		PropertyID:      req.PropertyID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		SpecialRequests: req.SpecialRequests,
		PaymentMethod:   req.PaymentMethod,
		TotalPrice:      req.TotalPrice,
	}
	if createReq.Guests == 0 {
		createReq.Guests = 1
	}

	var actor *booking.Actor
	if a, ok := mw.ActorFrom(c); ok {
		actor = &a
	}

	reservation, err := h.svc.Create(c.Request.Context(), createReq, actor)
	if err != nil {
		writeError(c, err)
		return
	}

	h.pool.Dispatch(notification.Job{ReservationID: reservation.ID, Event: notification.EventCreated})
	c.JSON(http.StatusCreated, reservation)
}

// GetReservation handles GET /api/reservations/:id.
func (h *Handler) GetReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	reservation, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// GetReservationByRef handles GET /api/reservations/ref/:ref.
func (h *Handler) GetReservationByRef(c *gin.Context) {
	reservation, err := h.svc.FindByReference(c.Request.Context(), c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// ListReservations handles GET /api/reservations with filters and
// offset/limit pagination.
func (h *Handler) ListReservations(c *gin.Context) {
	var filters booking.Filters

	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		filters.UserID = &id
	}
	if v := c.Query("property_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid property_id"})
			return
		}
		filters.PropertyID = &id
	}
	if v := c.Query("status"); v != "" {
		for _, s := range strings.Split(v, ",") {
			status := model.ReservationStatus(s)
			if !booking.ValidStatus(status) {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown status " + s})
				return
			}
			filters.Statuses = append(filters.Statuses, status)
		}
	}
	switch tf := booking.Timeframe(c.Query("timeframe")); tf {
	case booking.TimeframeAny, booking.TimeframeUpcoming, booking.TimeframePast:
		filters.Timeframe = tf
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "timeframe must be upcoming or past"})
		return
	}

	// Soft-deleted rows stay hidden unless an admin asks for them.
	if c.Query("include_deleted") == "true" {
		actor, ok := mw.ActorFrom(c)
		if !ok || !actor.Admin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin capability required"})
			return
		}
		filters.IncludeDeleted = true
	}

	page := booking.Page{
		Offset: intQuery(c, "offset", 0),
		Limit:  intQuery(c, "limit", 0),
	}

	result, err := h.svc.Find(c.Request.Context(), filters, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type transitionRequest struct {
	Status model.ReservationStatus `json:"status" binding:"required"`
}

// TransitionReservation handles POST /api/reservations/:id/status.
func (h *Handler) TransitionReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, _ := mw.ActorFrom(c)
	actor.GuestToken = c.GetHeader(guestTokenHeader)

	reservation, err := h.svc.Transition(c.Request.Context(), id, req.Status, actor)
	if err != nil {
		writeError(c, err)
		return
	}

	if req.Status == model.StatusCancelled {
		h.pool.Dispatch(notification.Job{ReservationID: reservation.ID, Event: notification.EventCancelled})
	}
	c.JSON(http.StatusOK, reservation)
}

// CancelReservation handles DELETE /api/reservations/:id.
func (h *Handler) CancelReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	actor, _ := mw.ActorFrom(c)
	actor.GuestToken = c.GetHeader(guestTokenHeader)

	if err := h.svc.Cancel(c.Request.Context(), id, actor); err != nil {
		writeError(c, err)
		return
	}

	h.pool.Dispatch(notification.Job{ReservationID: id, Event: notification.EventCancelled})
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
