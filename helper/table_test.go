package helper

import (
	"fmt"
	"testing"
	"time"

	"venue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedTables(t *testing.T, db *gorm.DB) (two, four model.Table) {
	t.Helper()
	two = model.Table{Number: "T2", Capacity: 2, MinParty: 1, IsActive: true}
	four = model.Table{Number: "T4", Capacity: 4, MinParty: 2, IsActive: true}
	require.NoError(t, db.Create(&two).Error)
	require.NoError(t, db.Create(&four).Error)
	return two, four
}

func book(t *testing.T, db *gorm.DB, table model.Table, date, start, status string) model.TableBooking {
	t.Helper()
	b := model.TableBooking{
		Reference:       NewReference("TB"),
		Name:            "Guest",
		PartySize:       2,
		BookingDate:     day(date),
		StartTime:       start,
		DurationMinutes: 120,
		TableId:         &table.ID,
		Status:          status,
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func TestFindFreeTable(t *testing.T) {
	db := newTestDB(t)
	two, four := seedTables(t, db)

	got, err := FindFreeTable(db, day("2026-02-14"), 19*60, 120, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, two.ID, got.ID, "smallest table that fits")

	existing := book(t, db, two, "2026-02-14", "18:00", model.TableBookingConfirmed)
	got, err = FindFreeTable(db, day("2026-02-14"), 19*60, 120, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, four.ID, got.ID)

	got, err = FindFreeTable(db, day("2026-02-14"), 19*60, 120, 2, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, two.ID, got.ID, "a booking being moved does not block itself")

	book(t, db, four, "2026-02-14", "20:30", model.TableBookingPending)
	_, err = FindFreeTable(db, day("2026-02-14"), 19*60, 120, 2, 0)
	assert.ErrorIs(t, err, ErrNoTableAvailable)

	_, err = FindFreeTable(db, day("2026-02-14"), 12*60, 90, 6, 0)
	assert.ErrorIs(t, err, ErrNoTableAvailable)
}


func TestFindFreeTableLocksEachCandidateBeforeChecking(t *testing.T) {
	db := newTestDB(t)
	two, four := seedTables(t, db)
	book(t, db, two, "2026-02-14", "19:00", model.TableBookingConfirmed)

	var queries []string
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:record_locks", func(tx *gorm.DB) {
		_, locked := tx.Statement.Clauses["FOR"]
		queries = append(queries, fmt.Sprintf("%s locked=%t", tx.Statement.Table, locked))
	}))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		got, err := FindFreeTable(tx, day("2026-02-14"), 19*60, 120, 2, 0)
		if err != nil {
			return err
		}
		assert.Equal(t, four.ID, got.ID)
		return nil
	}))

	assert.Equal(t, []string{
		"tables locked=false",
		"tables locked=true",
		"table_bookings locked=false",
		"tables locked=true",
		"table_bookings locked=false",
	}, queries)
}

func TestFindFreeTableSkipsTableDeactivatedMeanwhile(t *testing.T) {
	db := newTestDB(t)
	two, four := seedTables(t, db)

	var deactivated bool
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:deactivate", func(tx *gorm.DB) {
		if !deactivated && tx.Statement.Table == "tables" {
			deactivated = true
			tx.Session(&gorm.Session{NewDB: true, SkipHooks: true}).Exec("UPDATE tables SET is_active = ? WHERE id = ?", false, two.ID)
		}
	}))

	got, err := FindFreeTable(db, day("2026-02-14"), 19*60, 120, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, four.ID, got.ID)
}
func TestHasBookingConflictIgnoresInactive(t *testing.T) {
	db := newTestDB(t)
	two, _ := seedTables(t, db)
	book(t, db, two, "2026-03-01", "19:00", model.TableBookingCancelled)

	busy, err := HasBookingConflict(db, two.ID, day("2026-03-01"), 19*60, 60, 0)
	require.NoError(t, err)
	assert.False(t, busy)

	book(t, db, two, "2026-03-01", "17:00", model.TableBookingSeated)
	busy, err = HasBookingConflict(db, two.ID, day("2026-03-01"), 19*60, 60, 0)
	require.NoError(t, err)
	assert.False(t, busy, "back-to-back slots do not overlap")

	busy, err = HasBookingConflict(db, two.ID, day("2026-03-01"), 18*60+59, 60, 0)
	require.NoError(t, err)
	assert.True(t, busy)
}

func TestCountActiveBookings(t *testing.T) {
	db := newTestDB(t)
	two, _ := seedTables(t, db)
	book(t, db, two, "2026-01-01", "12:00", model.TableBookingConfirmed)
	book(t, db, two, "2026-05-01", "12:00", model.TableBookingConfirmed)
	book(t, db, two, "2026-05-02", "12:00", model.TableBookingCancelled)

	n, err := CountActiveBookings(db, two.ID, day("2026-04-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMarkNoShows(t *testing.T) {
	db := newTestDB(t)
	two, four := seedTables(t, db)
	late := book(t, db, two, "2026-01-10", "18:00", model.TableBookingConfirmed)
	onTime := book(t, db, four, "2026-01-10", "19:00", model.TableBookingConfirmed)
	seated := book(t, db, four, "2026-01-10", "17:00", model.TableBookingSeated)

	marked, err := MarkNoShows(db, time.Date(2026, 1, 10, 18, 31, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, marked, 1)
	assert.Equal(t, late.ID, marked[0].ID)

	for id, want := range map[uint]string{
		late.ID:   model.TableBookingNoShow,
		onTime.ID: model.TableBookingConfirmed,
		seated.ID: model.TableBookingSeated,
	} {
		var b model.TableBooking
		require.NoError(t, db.First(&b, id).Error)
		assert.Equal(t, want, b.Status)
	}
}
