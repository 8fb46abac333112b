package helper

import (
	"time"

	"venue_manager/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoShowGrace is how long a confirmed booking may stay unseated after its start.
const NoShowGrace = 30 * time.Minute

func overlaps(aStart, aLen, bStart, bLen int) bool {
	return aStart < bStart+bLen && bStart < aStart+aLen
}

// HasBookingConflict reports whether the table already holds an active booking
// overlapping [start, start+duration) on the date. excludeId skips the booking being moved.
func HasBookingConflict(tx *gorm.DB, tableId uint, date time.Time, start, duration int, excludeId uint) (bool, error) {
	var bookings []model.TableBooking
	q := tx.Where("table_id = ? AND booking_date = ? AND status IN ?", tableId, DateOnly(date), model.ActiveTableBookingStatuses)
	if excludeId > 0 {
		q = q.Where("id <> ?", excludeId)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return false, err
	}
	for _, b := range bookings {
		bStart, err := MinutesOfDay(b.StartTime)
		if err != nil {
			continue
		}
		if overlaps(start, duration, bStart, b.DurationMinutes) {
			return true, nil
		}
	}
	return false, nil
}

// FindFreeTable picks the smallest active table that seats the party and is free for the slot.
// Each candidate row is locked before its conflict check so concurrent
// assignments inside transactions queue on the same table instead of both taking it.
func FindFreeTable(tx *gorm.DB, date time.Time, start, duration, partySize int, excludeId uint) (*model.Table, error) {
	var tables []model.Table
	if err := tx.Where("is_active = ? AND capacity >= ? AND min_party <= ?", true, partySize, partySize).
		Order("capacity ASC, number ASC").
		Find(&tables).Error; err != nil {
		return nil, err
	}
	for i := range tables {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&tables[i], tables[i].ID).Error; err != nil {
			return nil, err
		}
		if !tables[i].IsActive {
			continue
		}
		busy, err := HasBookingConflict(tx, tables[i].ID, date, start, duration, excludeId)
		if err != nil {
			return nil, err
		}
		if !busy {
			return &tables[i], nil
		}
	}
	return nil, ErrNoTableAvailable
}

// CountActiveBookings counts bookings still holding the table from today onwards.
func CountActiveBookings(tx *gorm.DB, tableId uint, today time.Time) (int64, error) {
	var count int64
	err := tx.Model(&model.TableBooking{}).
		Where("table_id = ? AND booking_date >= ? AND status IN ?", tableId, DateOnly(today), model.ActiveTableBookingStatuses).
		Count(&count).Error
	return count, err
}

// MarkNoShows moves confirmed bookings that started more than NoShowGrace ago
// without being seated to no_show and returns the bookings it changed.
func MarkNoShows(db *gorm.DB, now time.Time) ([]model.TableBooking, error) {
	local := now.In(VenueLocation())
	var candidates []model.TableBooking
	if err := db.Where("status = ? AND booking_date <= ?", model.TableBookingConfirmed, DateOnly(local)).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	var marked []model.TableBooking
	for _, b := range candidates {
		start, err := CombineDateTime(b.BookingDate, b.StartTime)
		if err != nil || !local.After(start.Add(NoShowGrace)) {
			continue
		}
		res := db.Model(&model.TableBooking{}).
			Where("id = ? AND status = ?", b.ID, model.TableBookingConfirmed).
			Updates(map[string]any{"status": model.TableBookingNoShow, "updated_at": now})
		if res.Error != nil {
			return marked, res.Error
		}
		if res.RowsAffected == 1 {
			b.Status = model.TableBookingNoShow
			marked = append(marked, b)
		}
	}
	return marked, nil
}
