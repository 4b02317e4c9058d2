package model

import (
	"time"

	"gorm.io/gorm"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// Reservation is a time-ranged claim on a property. The stay is the
// half-open interval [CheckIn, CheckOut): the check-out day is free for
// the next guest, so back-to-back bookings are legal.
type Reservation struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Reference  string `gorm:"uniqueIndex;size:16;not null" json:"reference"`
	PropertyID int64  `gorm:"index;not null" json:"propertyId"`

	// UserID is set for authenticated bookers; guest bookings carry the
	// guest contact fields instead. Exactly one of the two modes holds.
	UserID     *int64 `gorm:"index" json:"userId,omitempty"`
	GuestName  string `gorm:"size:128" json:"guestName,omitempty"`
	GuestEmail string `gorm:"size:256" json:"guestEmail,omitempty"`
	GuestPhone string `gorm:"size:32" json:"guestPhone,omitempty"`

	CheckIn         time.Time         `gorm:"not null;index" json:"checkIn"`
	CheckOut        time.Time         `gorm:"not null" json:"checkOut"`
	Guests          int               `gorm:"not null;default:1" json:"guests"`
	TotalPrice      float64           `gorm:"not null" json:"totalPrice"`
	SpecialRequests string            `gorm:"type:text" json:"specialRequests,omitempty"`
	Status          ReservationStatus `gorm:"size:16;not null;index" json:"status"`

	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// GuestToken is issued on guest creation so the guest can later
	// cancel without an account. Never persisted.
	GuestToken string `gorm:"-" json:"guestToken,omitempty"`

	// Associations
	Payment  *Payment  `gorm:"foreignKey:ReservationID" json:"payment,omitempty"`
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Active reports whether the reservation blocks its date range.
func (r *Reservation) Active() bool {
	return r.Status != StatusCancelled
}

// Terminal reports whether the status admits no further transitions.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}
