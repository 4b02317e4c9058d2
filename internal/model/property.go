package model

import "time"

// Property is the rentable resource. The booking engine reads it for
// pricing and ownership but never mutates it; the property catalog is
// owned elsewhere.
type Property struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	OwnerID       int64     `gorm:"index;not null" json:"ownerId"`
	Title         string    `gorm:"size:256;not null" json:"title"`
	PricePerNight float64   `gorm:"not null" json:"pricePerNight"`
	Active        bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
