package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Postgres-only paths: the exclusion constraint and bulk updates
// generate SQL the sqlite-backed tests never see, so these run against
// a mocked connection instead.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func newMockService(db *gorm.DB) *gormService {
	svc := NewGormService(db, Config{
		CancellationLead: 24 * time.Hour,
		DefaultCurrency:  "USD",
	}).(*gormService)
	return svc
}

func TestCreate_ExclusionViolationMapsToConflict(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newMockService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "properties"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "price_per_night", "active"}).
			AddRow(1, 9, "Seaside Cottage", 100.0, true))

	mock.ExpectBegin()
	// The in-transaction availability check passes; the insert then
	// trips the database constraint because a racing transaction on
	// another instance committed first.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reservations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reservations"`)).
		WillReturnError(errors.New(`ERROR: conflicting key value violates exclusion constraint "reservations_no_overlap" (SQLSTATE 23P01)`))
	mock.ExpectRollback()

	checkIn := time.Now().AddDate(0, 1, 0)
	_, err := svc.Create(context.Background(), CreateRequest{
		PropertyID: 1,
		GuestName:  "Ada Lovelace",
		GuestEmail: "ada@example.com",
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, 3),
		Guests:     2,
	}, nil)

	require.Error(t, err)
	assert.True(t, IsKind(err, KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepExpired_BulkUpdateSQL(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newMockService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "reservations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reservations" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	swept, err := svc.SweepExpired(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), swept)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepExpired_EmptyPredicateSkipsUpdates(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newMockService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "reservations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	swept, err := svc.SweepExpired(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, swept)
	assert.NoError(t, mock.ExpectationsWereMet())
}
