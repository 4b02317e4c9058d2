package booking

import (
	"time"

	"rental-booking-backend/internal/model"
)

// Actor identifies who is asking for an operation. ID and Role come
// from the identity middleware; GuestToken carries the verification
// token issued to guest bookers, who have no account to match against.
type Actor struct {
	ID         int64
	Role       string
	GuestToken string
}

// RoleAdmin is the administrative capability recognized by the engine.
const RoleAdmin = "admin"

// Admin reports whether the actor holds the administrative capability.
func (a Actor) Admin() bool {
	return a.Role == RoleAdmin
}

// CreateRequest is the input for creating a reservation.
type CreateRequest struct {
	PropertyID      int64     `json:"propertyId"`
	CheckIn         time.Time `json:"checkIn"`
	CheckOut        time.Time `json:"checkOut"`
	Guests          int       `json:"guests"`
	GuestName       string    `json:"guestName"`
	GuestEmail      string    `json:"guestEmail"`
	GuestPhone      string    `json:"guestPhone"`
	SpecialRequests string    `json:"specialRequests"`
	PaymentMethod   string    `json:"paymentMethod"`

	// TotalPrice overrides the computed nightly price when positive.
	TotalPrice float64 `json:"totalPrice"`
}

// validate checks structural invariants before any persistence work.
// The actor is nil for guest bookings, which must carry contact fields.
func (r CreateRequest) validate(actor *Actor) error {
	var fields []string
	if r.PropertyID <= 0 {
		fields = append(fields, "propertyId")
	}
	if r.CheckIn.IsZero() {
		fields = append(fields, "checkIn")
	}
	if r.CheckOut.IsZero() {
		fields = append(fields, "checkOut")
	}
	if len(fields) > 0 {
		return validationError("missing required fields", fields...)
	}

	if !r.CheckIn.Before(r.CheckOut) {
		return validationError("check-in must be before check-out", "checkIn", "checkOut")
	}
	if r.Guests < 1 {
		return validationError("at least one guest is required", "guests")
	}

	if actor == nil {
		var missing []string
		if r.GuestName == "" {
			missing = append(missing, "guestName")
		}
		if r.GuestEmail == "" {
			missing = append(missing, "guestEmail")
		}
		if len(missing) > 0 {
			return validationError("guest bookings require contact details", missing...)
		}
	}
	return nil
}

// Timeframe narrows Find results relative to the current time.
type Timeframe string

const (
	TimeframeAny      Timeframe = ""
	TimeframeUpcoming Timeframe = "upcoming"
	TimeframePast     Timeframe = "past"
)

// Filters narrows a reservation query. Nil/zero members are ignored.
type Filters struct {
	UserID         *int64
	PropertyID     *int64
	Statuses       []model.ReservationStatus
	Timeframe      Timeframe
	IncludeDeleted bool
}

// Page is offset/limit pagination.
type Page struct {
	Offset int
	Limit  int
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func (p Page) normalized() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

// ReservationPage is one window of filtered results. Total counts the
// whole filtered set, not just this window.
type ReservationPage struct {
	Items []model.Reservation `json:"items"`
	Total int64               `json:"total"`
}
