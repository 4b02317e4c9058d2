package model

import "time"

// User is the identity record referenced by reservations. Only the id
// and role matter to the booking engine; the rest is read for response
// hydration.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128" json:"name"`
	Email     string    `gorm:"size:256;uniqueIndex" json:"email"`
	Role      string    `gorm:"size:32;default:'user'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
