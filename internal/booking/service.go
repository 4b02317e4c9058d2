package booking

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"rental-booking-backend/internal/model"
	"rental-booking-backend/internal/ref"
)

// Config carries the policy knobs of the booking engine.
type Config struct {
	// CancellationLead is the minimum time before check-in under which
	// a cancellation is still accepted.
	CancellationLead time.Duration
	GuestTokenSecret string
	GuestTokenTTL    time.Duration
	DefaultCurrency  string
}

// Service defines the booking engine operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest, actor *Actor) (*model.Reservation, error)
	FindByID(ctx context.Context, id int64) (*model.Reservation, error)
	FindByReference(ctx context.Context, reference string) (*model.Reservation, error)
	Find(ctx context.Context, filters Filters, page Page) (*ReservationPage, error)
	Transition(ctx context.Context, id int64, target model.ReservationStatus, actor Actor) (*model.Reservation, error)
	Cancel(ctx context.Context, id int64, actor Actor) error
	CheckAvailability(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) (bool, error)
	SweepExpired(ctx context.Context, timeout time.Duration) (int64, error)
	DB() *gorm.DB
}

// gormService implements the Service interface using GORM.
type gormService struct {
	db    *gorm.DB
	cfg   Config
	locks *propertyLocks
	now   func() time.Time
}

// NewGormService creates a new GORM-backed booking service.
func NewGormService(db *gorm.DB, cfg Config) Service {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}
	if cfg.GuestTokenTTL <= 0 {
		cfg.GuestTokenTTL = 72 * time.Hour
	}
	return &gormService{
		db:    db,
		cfg:   cfg,
		locks: newPropertyLocks(),
		now:   time.Now,
	}
}

// DB exposes the underlying handle for collaborators that only read.
func (s *gormService) DB() *gorm.DB {
	return s.db
}

// Create validates the request and commits the reservation together
// with its payment record as one atomic unit. The availability check
// runs inside the same transaction as the insert; checking first and
// inserting later in separate steps would let two racing requests both
// pass the check.
func (s *gormService) Create(ctx context.Context, req CreateRequest, actor *Actor) (*model.Reservation, error) {
	if err := req.validate(actor); err != nil {
		return nil, err
	}

	var property model.Property
	if err := s.db.WithContext(ctx).First(&property, req.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("property not found")
		}
		return nil, databaseError(err)
	}
	if !property.Active {
		return nil, validationError("property is not open for booking", "propertyId")
	}

	reference, err := ref.New()
	if err != nil {
		return nil, databaseError(err)
	}

	unlock := s.locks.Lock(req.PropertyID)
	defer unlock()

	var created model.Reservation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overlap, err := activeOverlapExists(tx, req.PropertyID, req.CheckIn, req.CheckOut)
		if err != nil {
			return databaseError(err)
		}
		if overlap {
			return conflictError("the requested dates are no longer available")
		}

		total := req.TotalPrice
		if total <= 0 {
			total = float64(nights(req.CheckIn, req.CheckOut)) * property.PricePerNight
		}

		reservation := model.Reservation{
			Reference:       reference,
			PropertyID:      req.PropertyID,
			GuestName:       req.GuestName,
			GuestEmail:      req.GuestEmail,
			GuestPhone:      req.GuestPhone,
			CheckIn:         req.CheckIn,
			CheckOut:        req.CheckOut,
			Guests:          req.Guests,
			TotalPrice:      total,
			SpecialRequests: req.SpecialRequests,
			Status:          model.StatusPending,
		}
		if actor != nil {
			reservation.UserID = &actor.ID
		}

		if err := tx.Create(&reservation).Error; err != nil {
			if isExclusionViolation(err) {
				return conflictError("the requested dates are no longer available")
			}
			return databaseError(err)
		}

		payment := model.Payment{
			ReservationID: reservation.ID,
			Amount:        total,
			Currency:      s.cfg.DefaultCurrency,
			Method:        req.PaymentMethod,
			Status:        model.PaymentPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return databaseError(err)
		}

		reservation.Payment = &payment
		created = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.Property = &property

	// Guests get a verification token so they can cancel later without
	// an account.
	if actor == nil && s.cfg.GuestTokenSecret != "" {
		token, err := SignGuestToken(s.cfg.GuestTokenSecret, created.ID, created.GuestEmail, s.cfg.GuestTokenTTL)
		if err != nil {
			log.Printf("failed to issue guest token for reservation %d: %v", created.ID, err)
		} else {
			created.GuestToken = token
		}
	}

	return &created, nil
}

// CheckAvailability reports whether the half-open range [checkIn,
// checkOut) is free of active reservations on the property. It fails
// closed: a persistence failure reports unavailable.
func (s *gormService) CheckAvailability(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) (bool, error) {
	if !checkIn.Before(checkOut) {
		return false, validationError("check-in must be before check-out", "checkIn", "checkOut")
	}

	overlap, err := activeOverlapExists(s.db.WithContext(ctx), propertyID, checkIn, checkOut)
	if err != nil {
		return false, databaseError(err)
	}
	return !overlap, nil
}

// activeOverlapExists is the single overlap predicate: an existing
// active range [a, b) intersects the candidate [s, e) iff a < e and
// b > s. Cancelled and soft-deleted reservations do not participate.
func activeOverlapExists(tx *gorm.DB, propertyID int64, checkIn, checkOut time.Time) (bool, error) {
	var n int64
	err := tx.Model(&model.Reservation{}).
		Where("property_id = ? AND status <> ? AND check_in < ? AND check_out > ?",
			propertyID, model.StatusCancelled, checkOut, checkIn).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// nights rounds a stay up to whole nights.
func nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// isExclusionViolation recognizes the Postgres exclusion-constraint
// failure (SQLSTATE 23P01) raised when a racing transaction committed
// an overlapping range first.
func isExclusionViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23P01") || strings.Contains(msg, "reservations_no_overlap")
}

// Transition loads the reservation, authorizes the actor, validates
// the edge against the status graph and applies the cancellation
// policy, then commits a conditional status update.
func (s *gormService) Transition(ctx context.Context, id int64, target model.ReservationStatus, actor Actor) (*model.Reservation, error) {
	if !ValidStatus(target) {
		return nil, validationError("unknown target status", "status")
	}

	reservation, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ownerID := int64(0)
	if reservation.Property != nil {
		ownerID = reservation.Property.OwnerID
	}
	if err := s.authorize(reservation, ownerID, actor); err != nil {
		return nil, err
	}

	// Cancelling an already-cancelled reservation is a no-op success.
	if target == model.StatusCancelled && reservation.Status == model.StatusCancelled {
		return reservation, nil
	}

	if !CanTransition(reservation.Status, target) {
		return nil, validationError("illegal status transition", "status")
	}

	if target == model.StatusCancelled {
		if lead := reservation.CheckIn.Sub(s.now()); lead < s.cfg.CancellationLead {
			return nil, validationError("cancellation window has closed", "checkIn")
		}
	}

	// Conditional update: a concurrent transition that got there first
	// leaves zero rows affected.
	res := s.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("id = ? AND status = ?", reservation.ID, reservation.Status).
		Update("status", target)
	if res.Error != nil {
		return nil, databaseError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conflictError("reservation status changed concurrently")
	}

	// Best effort: a cancelled booking's payment is marked failed, but
	// the cancellation stands even if this write does not.
	if target == model.StatusCancelled {
		if err := s.db.WithContext(ctx).Model(&model.Payment{}).
			Where("reservation_id = ?", reservation.ID).
			Update("status", model.PaymentFailed).Error; err != nil {
			log.Printf("failed to mark payment failed for reservation %d: %v", reservation.ID, err)
		}
	}

	return s.FindByID(ctx, reservation.ID)
}

// Cancel is sugar for a transition to cancelled.
func (s *gormService) Cancel(ctx context.Context, id int64, actor Actor) error {
	_, err := s.Transition(ctx, id, model.StatusCancelled, actor)
	return err
}

// authorize checks the actor's relationship to the reservation: its
// booker, the property owner, an administrator, or a guest presenting
// the verification token issued at creation.
func (s *gormService) authorize(reservation *model.Reservation, ownerID int64, actor Actor) error {
	if actor.Admin() {
		return nil
	}
	if reservation.UserID != nil && actor.ID == *reservation.UserID {
		return nil
	}
	if ownerID != 0 && actor.ID == ownerID {
		return nil
	}
	if actor.GuestToken != "" && s.cfg.GuestTokenSecret != "" {
		claims, err := ParseGuestToken(s.cfg.GuestTokenSecret, actor.GuestToken)
		if err == nil && claims.ReservationID == reservation.ID &&
			reservation.GuestEmail != "" && claims.Email == reservation.GuestEmail {
			return nil
		}
	}
	return authorizationError("actor is not related to this reservation")
}

// SweepExpired cancels pending reservations older than the timeout in
// one bulk conditional update. This is a system actor; no per-record
// authorization applies. A second invocation right after the first
// finds an empty predicate set and affects zero rows.
func (s *gormService) SweepExpired(ctx context.Context, timeout time.Duration) (int64, error) {
	cutoff := s.now().Add(-timeout)

	var swept int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(&model.Reservation{}).
			Where("status = ? AND created_at < ?", model.StatusPending, cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		res := tx.Model(&model.Reservation{}).
			Where("id IN ? AND status = ?", ids, model.StatusPending).
			Update("status", model.StatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		swept = res.RowsAffected

		return tx.Model(&model.Payment{}).
			Where("reservation_id IN ? AND status = ?", ids, model.PaymentPending).
			Update("status", model.PaymentFailed).Error
	})
	if err != nil {
		return 0, databaseError(err)
	}
	return swept, nil
}
