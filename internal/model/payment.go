package model

import "time"

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment is created inside the same transaction as its reservation and
// never exists without one.
type Payment struct {
	ID            int64         `gorm:"primaryKey" json:"id"`
	ReservationID int64         `gorm:"uniqueIndex;not null" json:"reservationId"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Currency      string        `gorm:"size:8;not null" json:"currency"`
	Method        string        `gorm:"size:32" json:"method"`
	Status        PaymentStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt     time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updatedAt"`
}
