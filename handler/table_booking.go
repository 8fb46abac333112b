package handler

import (
	"errors"
	"fmt"
	"time"

	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	bookingSourceStaff  = "staff"
	bookingSourcePublic = "public"
)

// boardEvent is what live board clients receive on bookings:<date>.
type boardEvent struct {
	Type    string              `json:"type"`
	Booking *model.TableBooking `json:"booking"`
}

func publishBooking(c *fiber.Ctx, kind string, booking *model.TableBooking) {
	helper.PublishBoard(c.UserContext(), booking.BookingDate, boardEvent{Type: kind, Booking: booking})
	helper.InvalidateCache(c.UserContext(), helper.TagBookings, helper.TagDashboard)
}

func GetTableBookings(c *fiber.Ctx) error {
	db := database.DB
	filter, ok := c.Locals("filter").(model.FilterTableBooking)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.TableBooking{})
	if filter.Date != "" {
		date, err := helper.ParseDate(filter.Date)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		condition = condition.Where("booking_date = ?", date)
	}
	if filter.Status != "" {
		condition = condition.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		condition = condition.Where("LOWER(name) LIKE ? OR LOWER(reference) LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filter.Limit, filter.Page)

	var bookings []model.TableBooking
	if err := condition.Preload("Table").Order("booking_date ASC, start_time ASC").Find(&bookings).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       bookings,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func GetTableBooking(c *fiber.Ctx) error {
	bookingId := c.Locals("inputId").(uint)
	var booking model.TableBooking
	if err := database.DB.Preload("Table").Preload("Customer").First(&booking, bookingId).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

// assignTable validates a requested table or picks one. Public enquiries fall
// back to no table when the room is full so staff can resolve them.
func assignTable(tx *gorm.DB, booking *model.TableBooking, requested *uint, allowUnassigned bool) error {
	start, err := helper.MinutesOfDay(booking.StartTime)
	if err != nil {
		return err
	}

	if requested != nil {
		var table model.Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, *requested).Error; err != nil {
			return err
		}
		if !table.IsActive || table.Capacity < booking.PartySize || booking.PartySize < table.MinParty {
			return helper.ErrTableUnavailable
		}
		busy, err := helper.HasBookingConflict(tx, table.ID, booking.BookingDate, start, booking.DurationMinutes, booking.ID)
		if err != nil {
			return err
		}
		if busy {
			return helper.ErrTableUnavailable
		}
		booking.TableId = &table.ID
		return nil
	}

	table, err := helper.FindFreeTable(tx, booking.BookingDate, start, booking.DurationMinutes, booking.PartySize, booking.ID)
	if err != nil {
		if allowUnassigned && errors.Is(err, helper.ErrNoTableAvailable) {
			booking.TableId = nil
			return nil
		}
		return err
	}
	booking.TableId = &table.ID
	return nil
}

// linkCustomer attaches the booking to a known customer, filling missing contact details.
func linkCustomer(tx *gorm.DB, booking *model.TableBooking) error {
	var customer model.Customer
	switch {
	case booking.CustomerId != nil:
		if err := tx.First(&customer, *booking.CustomerId).Error; err != nil {
			return err
		}
	case booking.Phone != "":
		if err := tx.Where("phone = ?", booking.Phone).First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		booking.CustomerId = &customer.ID
	default:
		return nil
	}
	if booking.Phone == "" {
		booking.Phone = customer.Phone
	}
	if booking.Email == "" {
		booking.Email = customer.Email
	}
	return nil
}

func createTableBooking(c *fiber.Ctx, input model.CreateTableBookingInput, source string) error {
	db := database.DB

	date, err := helper.ParseDate(input.BookingDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	if date.Before(helper.Today()) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.VALIDATION_FAILED, errors.New("booking date is in the past"))
	}
	if closed, name := helper.IsVenueClosed(db, date); closed {
		return failure(c, fmt.Errorf("%w: %s", helper.ErrVenueClosed, name))
	}

	booking := model.TableBooking{
		Reference:       helper.NewReference("TB"),
		CustomerId:      input.CustomerId,
		Name:            input.Name,
		Phone:           helper.NormalisePhone(input.Phone),
		Email:           input.Email,
		PartySize:       input.PartySize,
		BookingDate:     date,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		Status:          model.TableBookingConfirmed,
		Source:          source,
		Notes:           input.Notes,
		DepositAmount:   input.DepositAmount,
		CreatedBy:       currentAccountId(c),
	}
	if source == bookingSourcePublic {
		booking.Status = model.TableBookingPending
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := linkCustomer(tx, &booking); err != nil {
			return err
		}
		if err := assignTable(tx, &booking, input.TableId, source == bookingSourcePublic); err != nil {
			return err
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return failure(c, err)
	}

	db.Preload("Table").First(&booking, booking.ID)
	helper.WriteAudit(c, helper.AuditCreate, "table_booking", booking.ID, fiber.Map{
		"reference": booking.Reference,
		"source":    source,
	})
	publishBooking(c, "created", &booking)
	if booking.Status == model.TableBookingConfirmed {
		sendBookingConfirmation(&booking)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, booking)
}

func sendBookingConfirmation(b *model.TableBooking) {
	if b.Email == "" {
		return
	}
	data := utils.BookingConfirmationData{
		Reference: b.Reference,
		Name:      b.Name,
		Date:      b.BookingDate.Format(constants.DISPLAY_LAYOUT),
		Time:      b.StartTime,
		PartySize: b.PartySize,
	}
	if b.Table != nil {
		data.Table = b.Table.Number
	}
	utils.SendBookingConfirmation(b.Email, data)
}

func CreateTableBooking(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateTableBookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	return createTableBooking(c, input, bookingSourceStaff)
}

// CreatePublicTableBooking records a website enquiry as a pending booking.
func CreatePublicTableBooking(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateTableBookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	return createTableBooking(c, input, bookingSourcePublic)
}

// UpdateTableBooking reschedules or resizes a booking; the table is re-checked for the new slot.
func UpdateTableBooking(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.UpdateTableBookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	bookingId := c.Locals("inputId").(uint)

	var booking model.TableBooking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingId).Error; err != nil {
			return err
		}
		if booking.Status != model.TableBookingPending && booking.Status != model.TableBookingConfirmed {
			return fmt.Errorf("%w: booking is %s", helper.ErrNotEditable, booking.Status)
		}
		previousStatus := booking.Status

		rescheduled := false
		if input.BookingDate != nil {
			date, err := helper.ParseDate(*input.BookingDate)
			if err != nil {
				return err
			}
			if closed, name := helper.IsVenueClosed(tx, date); closed {
				return fmt.Errorf("%w: %s", helper.ErrVenueClosed, name)
			}
			booking.BookingDate = date
			rescheduled = true
		}
		if input.StartTime != nil {
			booking.StartTime = *input.StartTime
			rescheduled = true
		}
		if input.DurationMinutes != nil {
			booking.DurationMinutes = *input.DurationMinutes
			rescheduled = true
		}
		if input.PartySize != nil {
			booking.PartySize = *input.PartySize
			rescheduled = true
		}
		if input.Notes != nil {
			booking.Notes = *input.Notes
		}

		if rescheduled || input.TableId != nil {
			requested := input.TableId
			if requested == nil && booking.TableId != nil {
				requested = booking.TableId
			}
			if err := assignTable(tx, &booking, requested, false); err != nil {
				if input.TableId != nil || !errors.Is(err, helper.ErrTableUnavailable) {
					return err
				}
				// The old table no longer fits; look for another.
				if err := assignTable(tx, &booking, nil, false); err != nil {
					return err
				}
			}
		}

		booking.Table = nil
		res := tx.Model(&model.TableBooking{}).
			Where("id = ? AND status = ?", booking.ID, previousStatus).
			Select("booking_date", "start_time", "duration_minutes", "party_size", "table_id", "notes", "updated_at").
			Updates(&booking)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.ErrConcurrentUpdate
		}
		return nil
	})
	if err != nil {
		return failure(c, err)
	}

	db.Preload("Table").First(&booking, booking.ID)
	helper.WriteAudit(c, helper.AuditUpdate, "table_booking", booking.ID, input)
	publishBooking(c, "updated", &booking)
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

// changeTableBookingStatus applies a transition with a compare-and-swap on the current status.
func changeTableBookingStatus(db *gorm.DB, booking *model.TableBooking, to string, now time.Time) error {
	if !helper.IsTableBookingTransitionAllowed(booking.Status, to) {
		return fmt.Errorf("%w: %s -> %s", helper.ErrInvalidTransition, booking.Status, to)
	}
	updates := map[string]any{"status": to, "updated_at": now}
	switch to {
	case model.TableBookingSeated:
		updates["seated_at"] = now
	case model.TableBookingCancelled:
		updates["cancelled_at"] = now
	}

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.TableBooking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.ErrConcurrentUpdate
		}
		if to == model.TableBookingCompleted && booking.CustomerId != nil {
			if err := tx.Model(&model.Customer{}).Where("id = ?", *booking.CustomerId).
				UpdateColumn("visit_count", gorm.Expr("visit_count + 1")).Error; err != nil {
				return err
			}
		}
		booking.Status = to
		return nil
	})
}

func ChangeTableBookingStatus(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.StatusInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	bookingId := c.Locals("inputId").(uint)

	var booking model.TableBooking
	if err := db.First(&booking, bookingId).Error; err != nil {
		return failure(c, err)
	}
	from := booking.Status
	if err := changeTableBookingStatus(db, &booking, input.Status, helper.Clock.Now()); err != nil {
		return failure(c, err)
	}

	db.Preload("Table").First(&booking, booking.ID)
	helper.WriteAudit(c, helper.AuditStatus, "table_booking", booking.ID, fiber.Map{
		"from":   from,
		"to":     input.Status,
		"reason": input.Reason,
	})
	publishBooking(c, "status", &booking)
	// Staff confirming a website enquiry sends the confirmation the guest has not had yet.
	if from == model.TableBookingPending && booking.Status == model.TableBookingConfirmed {
		sendBookingConfirmation(&booking)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func CancelTableBooking(c *fiber.Ctx) error {
	db := database.DB
	bookingId := c.Locals("inputId").(uint)

	var booking model.TableBooking
	if err := db.First(&booking, bookingId).Error; err != nil {
		return failure(c, err)
	}
	from := booking.Status
	if err := changeTableBookingStatus(db, &booking, model.TableBookingCancelled, helper.Clock.Now()); err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditStatus, "table_booking", booking.ID, fiber.Map{"from": from, "to": booking.Status})
	publishBooking(c, "cancelled", &booking)
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

// ResendBookingConfirmation mails the QR confirmation again.
func ResendBookingConfirmation(c *fiber.Ctx) error {
	bookingId := c.Locals("inputId").(uint)
	var booking model.TableBooking
	if err := database.DB.Preload("Table").First(&booking, bookingId).Error; err != nil {
		return failure(c, err)
	}
	if booking.Email == "" {
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, constants.VALIDATION_FAILED, errors.New("booking has no email address"))
	}
	if booking.Status != model.TableBookingConfirmed {
		return failure(c, fmt.Errorf("%w: booking is %s", helper.ErrNotEditable, booking.Status))
	}
	sendBookingConfirmation(&booking)
	return utils.SuccessResponse(c, fiber.StatusAccepted, fiber.Map{"reference": booking.Reference})
}
