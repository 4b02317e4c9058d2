package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rental-booking-backend/internal/model"
	"rental-booking-backend/internal/ref"
)

// FindByID returns a single reservation with its payment, property and
// booker hydrated.
func (s *gormService) FindByID(ctx context.Context, id int64) (*model.Reservation, error) {
	var reservation model.Reservation
	err := s.db.WithContext(ctx).
		Preload("Payment").
		Preload("Property").
		Preload("User").
		First(&reservation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("reservation not found")
		}
		return nil, databaseError(err)
	}
	return &reservation, nil
}

// FindByReference looks a reservation up by its reference code.
func (s *gormService) FindByReference(ctx context.Context, reference string) (*model.Reservation, error) {
	if !ref.Valid(reference) {
		return nil, validationError("malformed reference code", "reference")
	}

	var reservation model.Reservation
	err := s.db.WithContext(ctx).
		Preload("Payment").
		Preload("Property").
		Preload("User").
		First(&reservation, "reference = ?", reference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("reservation not found")
		}
		return nil, databaseError(err)
	}
	return &reservation, nil
}

// Find returns one page of reservations matching the filters. Total
// counts the whole filtered set independent of the page window, and
// related records are hydrated with batched IN lookups rather than
// per-row queries.
func (s *gormService) Find(ctx context.Context, filters Filters, page Page) (*ReservationPage, error) {
	page = page.normalized()

	// The query is built twice (count, then page fetch) so the two
	// finishers never share a polluted statement.
	filtered := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&model.Reservation{})
		if filters.IncludeDeleted {
			q = q.Unscoped()
		}
		if filters.UserID != nil {
			q = q.Where("user_id = ?", *filters.UserID)
		}
		if filters.PropertyID != nil {
			q = q.Where("property_id = ?", *filters.PropertyID)
		}
		if len(filters.Statuses) > 0 {
			q = q.Where("status IN ?", filters.Statuses)
		}
		switch filters.Timeframe {
		case TimeframeUpcoming:
			q = q.Where("check_out > ?", s.now())
		case TimeframePast:
			q = q.Where("check_out <= ?", s.now())
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, databaseError(err)
	}

	var items []model.Reservation
	if err := filtered().Order("check_in ASC, id ASC").
		Offset(page.Offset).Limit(page.Limit).
		Find(&items).Error; err != nil {
		return nil, databaseError(err)
	}

	if err := s.hydrate(ctx, items); err != nil {
		return nil, err
	}

	return &ReservationPage{Items: items, Total: total}, nil
}

// hydrate attaches properties, bookers and payments to a page of
// reservations with three batched lookups.
func (s *gormService) hydrate(ctx context.Context, items []model.Reservation) error {
	if len(items) == 0 {
		return nil
	}

	reservationIDs := make([]int64, 0, len(items))
	propertyIDs := make([]int64, 0, len(items))
	userIDs := make([]int64, 0, len(items))
	for _, r := range items {
		reservationIDs = append(reservationIDs, r.ID)
		propertyIDs = append(propertyIDs, r.PropertyID)
		if r.UserID != nil {
			userIDs = append(userIDs, *r.UserID)
		}
	}

	var properties []model.Property
	if err := s.db.WithContext(ctx).Find(&properties, propertyIDs).Error; err != nil {
		return databaseError(err)
	}
	propertyMap := make(map[int64]model.Property, len(properties))
	for _, p := range properties {
		propertyMap[p.ID] = p
	}

	userMap := make(map[int64]model.User)
	if len(userIDs) > 0 {
		var users []model.User
		if err := s.db.WithContext(ctx).Find(&users, userIDs).Error; err != nil {
			return databaseError(err)
		}
		for _, u := range users {
			userMap[u.ID] = u
		}
	}

	var payments []model.Payment
	if err := s.db.WithContext(ctx).
		Where("reservation_id IN ?", reservationIDs).
		Find(&payments).Error; err != nil {
		return databaseError(err)
	}
	paymentMap := make(map[int64]model.Payment, len(payments))
	for _, p := range payments {
		paymentMap[p.ReservationID] = p
	}

	for i := range items {
		if p, ok := propertyMap[items[i].PropertyID]; ok {
			prop := p
			items[i].Property = &prop
		}
		if items[i].UserID != nil {
			if u, ok := userMap[*items[i].UserID]; ok {
				user := u
				items[i].User = &user
			}
		}
		if pay, ok := paymentMap[items[i].ID]; ok {
			payment := pay
			items[i].Payment = &payment
		}
	}
	return nil
}
