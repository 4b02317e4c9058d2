package booking

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rental-booking-backend/internal/model"
)

var testDBSeq int64

// newTestDB opens a fresh in-memory SQLite database. The connection
// pool is pinned to one connection so the shared cache stays alive and
// writes serialize cleanly.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:booking_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Property{},
		&model.Reservation{},
		&model.Payment{},
		&model.PushSubscription{},
	))
	return db
}

func newTestService(t *testing.T) (*gormService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewGormService(db, Config{
		CancellationLead: 24 * time.Hour,
		GuestTokenSecret: "test-guest-secret",
		GuestTokenTTL:    time.Hour,
		DefaultCurrency:  "USD",
	}).(*gormService)
	return svc, db
}

func seedProperty(t *testing.T, db *gorm.DB, ownerID int64, price float64) model.Property {
	t.Helper()

	property := model.Property{OwnerID: ownerID, Title: "Seaside Cottage", PricePerNight: price, Active: true}
	require.NoError(t, db.Create(&property).Error)
	return property
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func guestRequest(propertyID int64, checkIn, checkOut time.Time) CreateRequest {
	return CreateRequest{
		PropertyID: propertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
		GuestName:  "Ada Guest",
		GuestEmail: "ada@example.com",
		GuestPhone: "+15550001111",
	}
}

func TestCreate_GuestBooking(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)

	res, err := svc.Create(context.Background(), guestRequest(property.ID, date(2024, 1, 10), date(2024, 1, 13)), nil)
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, 300.0, res.TotalPrice, "3 nights at 100 per night")
	assert.NotEmpty(t, res.Reference)
	assert.NotEmpty(t, res.GuestToken, "guest bookings receive a verification token")
	assert.Nil(t, res.UserID)

	require.NotNil(t, res.Payment)
	assert.Equal(t, model.PaymentPending, res.Payment.Status)
	assert.Equal(t, res.TotalPrice, res.Payment.Amount)
	assert.Equal(t, "USD", res.Payment.Currency)
}

func TestCreate_AuthenticatedBooking(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 80)

	actor := Actor{ID: 42}
	req := CreateRequest{
		PropertyID: property.ID,
		CheckIn:    date(2024, 3, 1),
		CheckOut:   date(2024, 3, 5),
		Guests:     1,
	}

	res, err := svc.Create(context.Background(), req, &actor)
	require.NoError(t, err)
	require.NotNil(t, res.UserID)
	assert.Equal(t, int64(42), *res.UserID)
	assert.Empty(t, res.GuestToken, "authenticated bookings get no guest token")
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)

	testCases := []struct {
		name   string
		req    CreateRequest
		actor  *Actor
		fields []string
	}{
		{
			name: "guest booking missing email",
			req: CreateRequest{
				PropertyID: property.ID,
				CheckIn:    date(2024, 1, 10),
				CheckOut:   date(2024, 1, 12),
				Guests:     1,
				GuestName:  "Ada Guest",
			},
			fields: []string{"guestEmail"},
		},
		{
			name: "inverted date range",
			req: CreateRequest{
				PropertyID: property.ID,
				CheckIn:    date(2024, 1, 12),
				CheckOut:   date(2024, 1, 10),
				Guests:     1,
			},
			actor:  &Actor{ID: 1},
			fields: []string{"checkIn", "checkOut"},
		},
		{
			name: "zero-length stay",
			req: CreateRequest{
				PropertyID: property.ID,
				CheckIn:    date(2024, 1, 10),
				CheckOut:   date(2024, 1, 10),
				Guests:     1,
			},
			actor:  &Actor{ID: 1},
			fields: []string{"checkIn", "checkOut"},
		},
		{
			name:   "missing everything",
			req:    CreateRequest{},
			actor:  &Actor{ID: 1},
			fields: []string{"propertyId", "checkIn", "checkOut"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req, tc.actor)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindValidation))

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tc.fields, e.Fields)
		})
	}
}

func TestCreate_PropertyNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), guestRequest(999, date(2024, 1, 10), date(2024, 1, 12)), nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCreate_InactiveProperty(t *testing.T) {
	svc, _ := newTestService(t)
	property := model.Property{OwnerID: 7, Title: "Shuttered", PricePerNight: 50, Active: false}
	require.NoError(t, svc.db.Create(&property).Error)
	// Force the column to false: GORM skips the zero value on insert in
	// favor of the column default (true).
	require.NoError(t, svc.db.Model(&property).Update("active", false).Error)

	_, err := svc.Create(context.Background(), guestRequest(property.ID, date(2024, 1, 10), date(2024, 1, 12)), nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
}

func TestCreate_OverlapConflictAndAdjacency(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)
	ctx := context.Background()

	// Existing active reservation 2024-01-10 .. 2024-01-15.
	_, err := svc.Create(ctx, guestRequest(property.ID, date(2024, 1, 10), date(2024, 1, 15)), nil)
	require.NoError(t, err)

	// Overlapping request must fail.
	_, err = svc.Create(ctx, guestRequest(property.ID, date(2024, 1, 12), date(2024, 1, 18)), nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConflict))

	// Back-to-back is legal: [10,15) then [15,20).
	_, err = svc.Create(ctx, guestRequest(property.ID, date(2024, 1, 15), date(2024, 1, 20)), nil)
	assert.NoError(t, err)

	// A range ending exactly at an existing check-in is legal too.
	_, err = svc.Create(ctx, guestRequest(property.ID, date(2024, 1, 7), date(2024, 1, 10)), nil)
	assert.NoError(t, err)
}

func TestCreate_CancelledReservationDoesNotBlock(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)
	ctx := context.Background()

	res, err := svc.Create(ctx, guestRequest(property.ID, date(2030, 6, 10), date(2030, 6, 15)), nil)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, res.ID, Actor{GuestToken: res.GuestToken}))

	_, err = svc.Create(ctx, guestRequest(property.ID, date(2030, 6, 12), date(2030, 6, 14)), nil)
	assert.NoError(t, err)
}

func TestCreate_AllOrNothing(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)

	// Sabotage the payment insert; the whole transaction must roll back.
	require.NoError(t, svc.db.Migrator().DropTable(&model.Payment{}))

	_, err := svc.Create(context.Background(), guestRequest(property.ID, date(2024, 1, 10), date(2024, 1, 12)), nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindDatabase))

	var count int64
	require.NoError(t, svc.db.Model(&model.Reservation{}).Count(&count).Error)
	assert.Zero(t, count, "no reservation row may survive a failed creation")
}

func TestCreate_ConcurrentOverlap(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(),
				guestRequest(property.ID, date(2024, 2, 1), date(2024, 2, 5)), nil)
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case IsKind(err, KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one racing creation may win")
	assert.Equal(t, 1, conflicts)
}

func TestCheckAvailability(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)
	ctx := context.Background()

	_, err := svc.Create(ctx, guestRequest(property.ID, date(2024, 1, 10), date(2024, 1, 15)), nil)
	require.NoError(t, err)

	testCases := []struct {
		name      string
		in, out   time.Time
		available bool
	}{
		{"full overlap", date(2024, 1, 10), date(2024, 1, 15), false},
		{"partial overlap tail", date(2024, 1, 12), date(2024, 1, 18), false},
		{"partial overlap head", date(2024, 1, 8), date(2024, 1, 11), false},
		{"contained", date(2024, 1, 11), date(2024, 1, 12), false},
		{"containing", date(2024, 1, 5), date(2024, 1, 20), false},
		{"adjacent after", date(2024, 1, 15), date(2024, 1, 20), true},
		{"adjacent before", date(2024, 1, 5), date(2024, 1, 10), true},
		{"disjoint", date(2024, 2, 1), date(2024, 2, 5), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			available, err := svc.CheckAvailability(ctx, property.ID, tc.in, tc.out)
			require.NoError(t, err)
			assert.Equal(t, tc.available, available)
		})
	}
}

func TestCheckAvailability_InvalidRange(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CheckAvailability(context.Background(), 1, date(2024, 1, 15), date(2024, 1, 10))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
}

func TestCheckAvailability_FailsClosed(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.db.Migrator().DropTable(&model.Reservation{}))

	available, err := svc.CheckAvailability(context.Background(), 1, date(2024, 1, 10), date(2024, 1, 12))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindDatabase))
	assert.False(t, available, "a persistence failure must report unavailable")
}

func TestTransition_Lifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)
	ctx := context.Background()
	owner := Actor{ID: 7}

	res, err := svc.Create(ctx, guestRequest(property.ID, date(2030, 1, 10), date(2030, 1, 15)), nil)
	require.NoError(t, err)

	res, err = svc.Transition(ctx, res.ID, model.StatusConfirmed, owner)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, res.Status)

	res, err = svc.Transition(ctx, res.ID, model.StatusCompleted, owner)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, res.Status)
}

func TestTransition_IllegalEdges(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)
	ctx := context.Background()
	owner := Actor{ID: 7}

	res, err := svc.Create(ctx, guestRequest(property.ID, date(2030, 1, 10), date(2030, 1, 15)), nil)
	require.NoError(t, err)

	// pending -> completed skips confirmation.
	_, err = svc.Transition(ctx, res.ID, model.StatusCompleted, owner)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))

	// Unknown target status.
	_, err = svc.Transition(ctx, res.ID, model.ReservationStatus("archived"), owner)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))

	// completed is terminal: cancelling it always fails.
	_, err = svc.Transition(ctx, res.ID, model.StatusConfirmed, owner)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, res.ID, model.StatusCompleted, owner)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, res.ID, model.StatusCancelled, owner)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
}

func TestTransition_Authorization(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)
	ctx := context.Background()

	booker := Actor{ID: 42}
	res, err := svc.Create(ctx, CreateRequest{
		PropertyID: property.ID,
		CheckIn:    date(2030, 1, 10),
		CheckOut:   date(2030, 1, 15),
		Guests:     1,
	}, &booker)
	require.NoError(t, err)

	// A stranger may not touch the reservation.
	_, err = svc.Transition(ctx, res.ID, model.StatusConfirmed, Actor{ID: 99})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthorization))

	// The property owner may.
	_, err = svc.Transition(ctx, res.ID, model.StatusConfirmed, Actor{ID: 7})
	assert.NoError(t, err)

	// An admin may too.
	_, err = svc.Transition(ctx, res.ID, model.StatusCompleted, Actor{ID: 1, Role: RoleAdmin})
	assert.NoError(t, err)
}

func TestTransition_GuestToken(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)
	ctx := context.Background()

	res, err := svc.Create(ctx, guestRequest(property.ID, date(2030, 1, 10), date(2030, 1, 15)), nil)
	require.NoError(t, err)
	require.NotEmpty(t, res.GuestToken)

	// Without any credential the guest path is closed.
	_, err = svc.Transition(ctx, res.ID, model.StatusCancelled, Actor{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthorization))

	// A token for a different reservation is rejected.
	other, err := SignGuestToken("test-guest-secret", res.ID+1, "ada@example.com", time.Hour)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, res.ID, model.StatusCancelled, Actor{GuestToken: other})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthorization))

	// The issued token works.
	updated, err := svc.Transition(ctx, res.ID, model.StatusCancelled, Actor{GuestToken: res.GuestToken})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, updated.Status)
}

func TestCancel_Window(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)
	ctx := context.Background()
	owner := Actor{ID: 7}

	// Check-in only 10 hours away: inside the 24h window, rejected.
	checkIn := time.Now().Add(10 * time.Hour)
	res, err := svc.Create(ctx, guestRequest(property.ID, checkIn, checkIn.Add(48*time.Hour)), nil)
	require.NoError(t, err)

	err = svc.Cancel(ctx, res.ID, owner)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))

	// Far enough out, the same cancellation goes through.
	farCheckIn := time.Now().Add(72 * time.Hour)
	res2, err := svc.Create(ctx, guestRequest(property.ID, farCheckIn, farCheckIn.Add(48*time.Hour)), nil)
	require.NoError(t, err)
	assert.NoError(t, svc.Cancel(ctx, res2.ID, owner))
}

func TestCancel_IdempotentAndPaymentFailed(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)
	ctx := context.Background()
	owner := Actor{ID: 7}

	res, err := svc.Create(ctx, guestRequest(property.ID, date(2030, 1, 10), date(2030, 1, 15)), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, res.ID, owner))

	// Cancelling again succeeds without error.
	assert.NoError(t, svc.Cancel(ctx, res.ID, owner))

	// The payment was opportunistically marked failed.
	var payment model.Payment
	require.NoError(t, svc.db.First(&payment, "reservation_id = ?", res.ID).Error)
	assert.Equal(t, model.PaymentFailed, payment.Status)
}

func TestTransition_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Transition(context.Background(), 12345, model.StatusConfirmed, Actor{ID: 1, Role: RoleAdmin})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestSweepExpired(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)
	ctx := context.Background()

	stale, err := svc.Create(ctx, guestRequest(property.ID, date(2030, 1, 10), date(2030, 1, 15)), nil)
	require.NoError(t, err)
	fresh, err := svc.Create(ctx, guestRequest(property.ID, date(2030, 2, 10), date(2030, 2, 15)), nil)
	require.NoError(t, err)
	confirmed, err := svc.Create(ctx, guestRequest(property.ID, date(2030, 3, 10), date(2030, 3, 15)), nil)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, confirmed.ID, model.StatusConfirmed, Actor{ID: 7})
	require.NoError(t, err)

	// Backdate the stale pending reservation and the confirmed one.
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, svc.db.Model(&model.Reservation{}).
		Where("id IN ?", []int64{stale.ID, confirmed.ID}).
		Update("created_at", old).Error)

	swept, err := svc.SweepExpired(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept, "only the stale pending reservation is reclaimed")

	// Reload into fresh structs: reusing one would carry the previous
	// primary key into the next query as an extra condition.
	var reloadedStale model.Reservation
	require.NoError(t, svc.db.First(&reloadedStale, stale.ID).Error)
	assert.Equal(t, model.StatusCancelled, reloadedStale.Status)

	var reloadedFresh model.Reservation
	require.NoError(t, svc.db.First(&reloadedFresh, fresh.ID).Error)
	assert.Equal(t, model.StatusPending, reloadedFresh.Status, "recent pending reservations survive")

	var reloadedConfirmed model.Reservation
	require.NoError(t, svc.db.First(&reloadedConfirmed, confirmed.ID).Error)
	assert.Equal(t, model.StatusConfirmed, reloadedConfirmed.Status, "confirmed reservations survive regardless of age")

	// The swept reservation's payment went to failed.
	var payment model.Payment
	require.NoError(t, svc.db.First(&payment, "reservation_id = ?", stale.ID).Error)
	assert.Equal(t, model.PaymentFailed, payment.Status)

	// Idempotent: an immediate second sweep finds nothing.
	swept, err = svc.SweepExpired(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, swept)
}

func TestFind(t *testing.T) {
	svc, _ := newTestService(t)
	propertyA := seedProperty(t, svc.db, 7, 100)
	propertyB := seedProperty(t, svc.db, 8, 100)
	ctx := context.Background()

	booker := Actor{ID: 42}
	mine, err := svc.Create(ctx, CreateRequest{
		PropertyID: propertyA.ID, CheckIn: date(2030, 1, 10), CheckOut: date(2030, 1, 15), Guests: 1,
	}, &booker)
	require.NoError(t, err)

	_, err = svc.Create(ctx, guestRequest(propertyA.ID, date(2030, 2, 10), date(2030, 2, 15)), nil)
	require.NoError(t, err)
	onB, err := svc.Create(ctx, guestRequest(propertyB.ID, date(2020, 1, 10), date(2020, 1, 15)), nil)
	require.NoError(t, err)

	t.Run("filter by user", func(t *testing.T) {
		userID := int64(42)
		page, err := svc.Find(ctx, Filters{UserID: &userID}, Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, mine.ID, page.Items[0].ID)
	})

	t.Run("filter by property", func(t *testing.T) {
		page, err := svc.Find(ctx, Filters{PropertyID: &propertyA.ID}, Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("filter by timeframe", func(t *testing.T) {
		page, err := svc.Find(ctx, Filters{Timeframe: TimeframePast}, Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, onB.ID, page.Items[0].ID)

		page, err = svc.Find(ctx, Filters{Timeframe: TimeframeUpcoming}, Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("filter by status set", func(t *testing.T) {
		page, err := svc.Find(ctx, Filters{Statuses: []model.ReservationStatus{model.StatusPending}}, Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)

		page, err = svc.Find(ctx, Filters{Statuses: []model.ReservationStatus{model.StatusCancelled}}, Page{})
		require.NoError(t, err)
		assert.Zero(t, page.Total)
	})

	t.Run("pagination window vs total", func(t *testing.T) {
		page, err := svc.Find(ctx, Filters{}, Page{Offset: 0, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total, "total counts the whole filtered set")
		assert.Len(t, page.Items, 2)

		page, err = svc.Find(ctx, Filters{}, Page{Offset: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
	})

	t.Run("hydration is attached", func(t *testing.T) {
		page, err := svc.Find(ctx, Filters{PropertyID: &propertyB.ID}, Page{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.NotNil(t, page.Items[0].Property)
		assert.Equal(t, propertyB.ID, page.Items[0].Property.ID)
		require.NotNil(t, page.Items[0].Payment)
		assert.Equal(t, page.Items[0].ID, page.Items[0].Payment.ReservationID)
	})

	t.Run("soft-deleted rows are hidden by default", func(t *testing.T) {
		require.NoError(t, svc.db.Delete(&model.Reservation{}, onB.ID).Error)

		page, err := svc.Find(ctx, Filters{PropertyID: &propertyB.ID}, Page{})
		require.NoError(t, err)
		assert.Zero(t, page.Total)

		page, err = svc.Find(ctx, Filters{PropertyID: &propertyB.ID, IncludeDeleted: true}, Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})
}

func TestFindByReference(t *testing.T) {
	svc, _ := newTestService(t)
	property := seedProperty(t, svc.db, 7, 100)
	ctx := context.Background()

	res, err := svc.Create(ctx, guestRequest(property.ID, date(2030, 1, 10), date(2030, 1, 15)), nil)
	require.NoError(t, err)

	found, err := svc.FindByReference(ctx, res.Reference)
	require.NoError(t, err)
	assert.Equal(t, res.ID, found.ID)

	_, err = svc.FindByReference(ctx, "not-a-reference")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))

	_, err = svc.FindByReference(ctx, "BK-ZZZZZZZZ")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestNights(t *testing.T) {
	assert.Equal(t, 5, nights(date(2024, 1, 10), date(2024, 1, 15)))
	assert.Equal(t, 1, nights(date(2024, 1, 10), date(2024, 1, 11)))
	// Partial nights round up.
	assert.Equal(t, 2, nights(date(2024, 1, 10), date(2024, 1, 11).Add(6*time.Hour)))
}
