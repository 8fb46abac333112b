package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"venue_manager/config"
	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	spaceHirePrefix   = "Space hire: "
	attachmentsFolder = "private-bookings"
)

func privateBookingFinal(status string) bool {
	return status == model.PrivateBookingCompleted || status == model.PrivateBookingCancelled
}

// spaceHireItem prices the booked space for the event day.
func spaceHireItem(db *gorm.DB, b *model.PrivateBooking) model.PrivateBookingItem {
	info := helper.ClassifyDay(db, b.EventDate)
	price := helper.SpaceHirePrice(b.Space, info, b.StartTime, b.EndTime)
	description := spaceHirePrefix + b.Space
	if len(info.DayTypes) > 0 {
		description += " (" + strings.Join(info.DayTypes, ", ") + ")"
	}
	return model.PrivateBookingItem{
		BookingId:   b.ID,
		ItemType:    model.ItemTypeSpace,
		Description: description,
		Quantity:    1,
		UnitPrice:   price,
		LineTotal:   price,
	}
}

// recalculateBookingTotal sums the stored items onto the booking row.
func recalculateBookingTotal(tx *gorm.DB, bookingId uint) (float64, error) {
	var items []model.PrivateBookingItem
	if err := tx.Where("booking_id = ?", bookingId).Find(&items).Error; err != nil {
		return 0, err
	}
	total := helper.BookingItemsTotal(items)
	err := tx.Model(&model.PrivateBooking{}).Where("id = ?", bookingId).Update("total_amount", total).Error
	return total, err
}

func loadPrivateBooking(db *gorm.DB, id uint) (*model.PrivateBooking, error) {
	var booking model.PrivateBooking
	err := db.Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Vendor").
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func GetPrivateBookings(c *fiber.Ctx) error {
	db := database.DB
	filter, ok := c.Locals("filter").(model.FilterPrivateBooking)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.PrivateBooking{})
	if filter.Status != "" {
		condition = condition.Where("status = ?", filter.Status)
	}
	if filter.From != "" {
		condition = condition.Where("event_date >= ?", filter.From)
	}
	if filter.To != "" {
		condition = condition.Where("event_date <= ?", filter.To)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		condition = condition.Where("LOWER(contact_name) LIKE ? OR LOWER(reference) LIKE ? OR LOWER(event_type) LIKE ?", pattern, pattern, pattern)
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filter.Limit, filter.Page)

	var bookings []model.PrivateBooking
	if err := condition.Order("event_date ASC, start_time ASC").Find(&bookings).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       bookings,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func GetPrivateBooking(c *fiber.Ctx) error {
	booking, err := loadPrivateBooking(database.DB, c.Locals("inputId").(uint))
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func CreatePrivateBooking(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.CreatePrivateBookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	date, err := helper.ParseDate(input.EventDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	if closed, name := helper.IsVenueClosed(db, date); closed {
		return failure(c, fmt.Errorf("%w: %s", helper.ErrVenueClosed, name))
	}

	booking := model.PrivateBooking{
		Reference:     helper.NewReference("PB"),
		CustomerId:    input.CustomerId,
		ContactName:   input.ContactName,
		ContactEmail:  input.ContactEmail,
		ContactPhone:  helper.NormalisePhone(input.ContactPhone),
		EventType:     input.EventType,
		EventDate:     date,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		GuestCount:    input.GuestCount,
		Space:         input.Space,
		Status:        model.PrivateBookingEnquiry,
		DepositAmount: input.DepositAmount,
		Notes:         input.Notes,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if booking.CustomerId != nil {
			if err := tx.First(&model.Customer{}, *booking.CustomerId).Error; err != nil {
				return err
			}
		}
		if err := tx.Omit("Items").Create(&booking).Error; err != nil {
			return err
		}
		if booking.Space == "" {
			return nil
		}
		item := spaceHireItem(tx, &booking)
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		total, err := recalculateBookingTotal(tx, booking.ID)
		booking.TotalAmount = total
		return err
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "private_booking", booking.ID, fiber.Map{"reference": booking.Reference})
	helper.InvalidateCache(c.UserContext(), helper.TagPrivateBookings, helper.TagDashboard)

	created, err := loadPrivateBooking(db, booking.ID)
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, created)
}

func UpdatePrivateBooking(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.UpdatePrivateBookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	bookingId := c.Locals("inputId").(uint)

	err := db.Transaction(func(tx *gorm.DB) error {
		var booking model.PrivateBooking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingId).Error; err != nil {
			return err
		}
		if privateBookingFinal(booking.Status) {
			return fmt.Errorf("%w: booking is %s", helper.ErrNotEditable, booking.Status)
		}

		updates := map[string]any{}
		reprice := false
		if input.ContactName != nil {
			updates["contact_name"] = *input.ContactName
		}
		if input.ContactEmail != nil {
			updates["contact_email"] = *input.ContactEmail
		}
		if input.ContactPhone != nil {
			updates["contact_phone"] = helper.NormalisePhone(*input.ContactPhone)
		}
		if input.EventType != nil {
			updates["event_type"] = *input.EventType
		}
		if input.EventDate != nil {
			date, err := helper.ParseDate(*input.EventDate)
			if err != nil {
				return err
			}
			if closed, name := helper.IsVenueClosed(tx, date); closed {
				return fmt.Errorf("%w: %s", helper.ErrVenueClosed, name)
			}
			updates["event_date"] = date
			booking.EventDate = date
			reprice = true
		}
		if input.StartTime != nil {
			updates["start_time"] = *input.StartTime
			booking.StartTime = *input.StartTime
			reprice = true
		}
		if input.EndTime != nil {
			updates["end_time"] = *input.EndTime
			booking.EndTime = *input.EndTime
			reprice = true
		}
		if booking.StartTime == booking.EndTime {
			return fmt.Errorf("%w: endTime must differ from startTime", helper.ErrInvalidSchedule)
		}
		if input.GuestCount != nil {
			updates["guest_count"] = *input.GuestCount
		}
		if input.Space != nil {
			updates["space"] = *input.Space
			booking.Space = *input.Space
			reprice = true
		}
		if input.DepositAmount != nil {
			if booking.DepositPaidAt != nil {
				return fmt.Errorf("%w: deposit already paid", helper.ErrNotEditable)
			}
			updates["deposit_amount"] = *input.DepositAmount
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if len(updates) == 0 {
			return nil
		}

		res := tx.Model(&model.PrivateBooking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.ErrConcurrentUpdate
		}

		if !reprice {
			return nil
		}
		if err := tx.Where("booking_id = ? AND item_type = ? AND description LIKE ?", booking.ID, model.ItemTypeSpace, spaceHirePrefix+"%").
			Delete(&model.PrivateBookingItem{}).Error; err != nil {
			return err
		}
		if booking.Space != "" {
			item := spaceHireItem(tx, &booking)
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		_, err := recalculateBookingTotal(tx, booking.ID)
		return err
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "private_booking", bookingId, input)
	helper.InvalidateCache(c.UserContext(), helper.TagPrivateBookings, helper.TagDashboard)

	booking, err := loadPrivateBooking(db, bookingId)
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

// ChangePrivateBookingStatus moves the booking along its lifecycle. Cancellation
// goes through CancelPrivateBooking so the refund is settled.
func ChangePrivateBookingStatus(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.StatusInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	bookingId := c.Locals("inputId").(uint)

	var booking model.PrivateBooking
	if err := db.First(&booking, bookingId).Error; err != nil {
		return failure(c, err)
	}
	if input.Status == model.PrivateBookingCancelled || !helper.IsPrivateBookingTransitionAllowed(booking.Status, input.Status) {
		return failure(c, fmt.Errorf("%w: %s -> %s", helper.ErrInvalidTransition, booking.Status, input.Status))
	}

	res := db.Model(&model.PrivateBooking{}).
		Where("id = ? AND status = ?", booking.ID, booking.Status).
		Updates(map[string]any{"status": input.Status, "updated_at": helper.Clock.Now()})
	if res.Error != nil {
		return failure(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return failure(c, helper.ErrConcurrentUpdate)
	}

	helper.WriteAudit(c, helper.AuditStatus, "private_booking", booking.ID, fiber.Map{
		"from":   booking.Status,
		"to":     input.Status,
		"reason": input.Reason,
	})
	helper.InvalidateCache(c.UserContext(), helper.TagPrivateBookings, helper.TagDashboard)
	booking.Status = input.Status
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

// AddBookingItems inserts the whole batch or nothing and recomputes the booking total.
func AddBookingItems(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.AddBookingItemsInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	bookingId := c.Locals("inputId").(uint)

	var created []model.PrivateBookingItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking model.PrivateBooking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingId).Error; err != nil {
			return err
		}
		if privateBookingFinal(booking.Status) {
			return fmt.Errorf("%w: booking is %s", helper.ErrNotEditable, booking.Status)
		}

		for i, in := range input.Items {
			if in.VendorId != nil {
				var vendor model.Vendor
				if err := tx.First(&vendor, *in.VendorId).Error; err != nil {
					return fmt.Errorf("item %d: vendor %d: %w", i+1, *in.VendorId, err)
				}
				if !vendor.IsActive {
					return fmt.Errorf("%w: item %d: vendor %s is inactive", helper.ErrNotEditable, i+1, vendor.Name)
				}
			}
			item := model.PrivateBookingItem{
				BookingId:       booking.ID,
				VendorId:        in.VendorId,
				ItemType:        in.ItemType,
				Description:     in.Description,
				Quantity:        in.Quantity,
				UnitPrice:       in.UnitPrice,
				DiscountPercent: in.DiscountPercent,
				LineTotal:       helper.LineTotal(in.Quantity, in.UnitPrice, in.DiscountPercent),
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
			created = append(created, item)
		}

		_, err := recalculateBookingTotal(tx, booking.ID)
		return err
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "private_booking", bookingId, fiber.Map{"itemsAdded": len(created)})
	helper.InvalidateCache(c.UserContext(), helper.TagPrivateBookings)

	booking, err := loadPrivateBooking(db, bookingId)
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, booking)
}

func DeleteBookingItem(c *fiber.Ctx) error {
	db := database.DB
	bookingId := c.Locals("inputId").(uint)
	itemId, err := strconv.ParseUint(c.Params("itemId"), 10, 64)
	if err != nil || itemId == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var booking model.PrivateBooking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingId).Error; err != nil {
			return err
		}
		if privateBookingFinal(booking.Status) {
			return fmt.Errorf("%w: booking is %s", helper.ErrNotEditable, booking.Status)
		}
		res := tx.Where("id = ? AND booking_id = ?", itemId, bookingId).Delete(&model.PrivateBookingItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		_, err := recalculateBookingTotal(tx, bookingId)
		return err
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "private_booking", bookingId, fiber.Map{"itemRemoved": itemId})
	helper.InvalidateCache(c.UserContext(), helper.TagPrivateBookings)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": itemId})
}

func RecordDeposit(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.RecordDepositInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	bookingId := c.Locals("inputId").(uint)

	paidAt := helper.Clock.Now()
	if input.PaidAt != "" {
		d, err := helper.ParseDate(input.PaidAt)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		paidAt = d
	}

	var booking model.PrivateBooking
	if err := db.First(&booking, bookingId).Error; err != nil {
		return failure(c, err)
	}
	if privateBookingFinal(booking.Status) {
		return failure(c, fmt.Errorf("%w: booking is %s", helper.ErrNotEditable, booking.Status))
	}

	res := db.Model(&model.PrivateBooking{}).
		Where("id = ? AND status = ? AND deposit_paid_at IS NULL", booking.ID, booking.Status).
		Updates(map[string]any{"deposit_amount": helper.Round2(input.Amount), "deposit_paid_at": paidAt})
	if res.Error != nil {
		return failure(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return failure(c, helper.ErrConcurrentUpdate)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "private_booking", booking.ID, fiber.Map{"depositPaid": input.Amount})
	helper.InvalidateCache(c.UserContext(), helper.TagPrivateBookings, helper.TagDashboard)
	booking.DepositAmount = helper.Round2(input.Amount)
	booking.DepositPaidAt = &paidAt
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func GetRefundEligibility(c *fiber.Ctx) error {
	db := database.DB
	var booking model.PrivateBooking
	if err := db.First(&booking, c.Locals("inputId").(uint)).Error; err != nil {
		return failure(c, err)
	}
	eligibility, err := helper.CalculateRefund(db, booking, helper.Clock.Now())
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, eligibility)
}

// CancelPrivateBooking cancels and, when asked, records the refund the policy allows.
func CancelPrivateBooking(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.CancelPrivateBookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	bookingId := c.Locals("inputId").(uint)
	now := helper.Clock.Now()

	var booking model.PrivateBooking
	var eligibility model.RefundEligibility
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingId).Error; err != nil {
			return err
		}
		if !helper.IsPrivateBookingTransitionAllowed(booking.Status, model.PrivateBookingCancelled) {
			return fmt.Errorf("%w: %s -> %s", helper.ErrInvalidTransition, booking.Status, model.PrivateBookingCancelled)
		}

		var err error
		eligibility, err = helper.CalculateRefund(tx, booking, now)
		if err != nil {
			return err
		}
		if input.IssueRefund && !eligibility.Eligible {
			return fmt.Errorf("%w: %s", helper.ErrNotRefundable, eligibility.Reason)
		}

		updates := map[string]any{
			"status":       model.PrivateBookingCancelled,
			"cancelled_at": now,
			"updated_at":   now,
		}
		if input.IssueRefund {
			updates["refunded_amount"] = helper.Round2(booking.RefundedAmount + eligibility.RefundAmount)
		}
		res := tx.Model(&model.PrivateBooking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(updates)
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

	refunded := 0.0
	if input.IssueRefund {
		refunded = eligibility.RefundAmount
	}
	helper.WriteAudit(c, helper.AuditStatus, "private_booking", booking.ID, fiber.Map{
		"from":     booking.Status,
		"to":       model.PrivateBookingCancelled,
		"reason":   input.Reason,
		"refunded": refunded,
	})
	helper.InvalidateCache(c.UserContext(), helper.TagPrivateBookings, helper.TagDashboard)

	utils.SendMailAsync(booking.ContactEmail, "Booking "+booking.Reference+" cancelled", "booking_cancelled.html", utils.CancellationEmailData{
		Reference:    booking.Reference,
		Name:         booking.ContactName,
		EventDate:    booking.EventDate.Format(constants.DISPLAY_LAYOUT),
		RefundAmount: refunded,
		Reason:       input.Reason,
	})

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"id":          booking.ID,
		"status":      model.PrivateBookingCancelled,
		"refund":      eligibility,
		"refundedNow": refunded,
	})
}

func decodeAttachments(raw string) []string {
	var urls []string
	if raw == "" {
		return urls
	}
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		zap.S().Warnf("attachments column is not a json list: %v", err)
	}
	return urls
}

func encodeAttachments(urls []string) string {
	raw, _ := json.Marshal(urls)
	return string(raw)
}

// AttachmentSignature signs a browser-side Cloudinary upload for floor plans and menus.
func AttachmentSignature(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.AttachmentSignatureInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	bookingId := c.Locals("inputId").(uint)
	if err := database.DB.First(&model.PrivateBooking{}, bookingId).Error; err != nil {
		return failure(c, err)
	}

	s := config.Get()
	if _, err := helper.InitCloudinary(); err != nil {
		return failure(c, err)
	}

	folder := fmt.Sprintf("%s/%d", attachmentsFolder, bookingId)
	if input.Folder != "" {
		folder = folder + "/" + strings.Trim(input.Folder, "/")
	}
	timestamp := strconv.FormatInt(helper.Clock.Now().Unix(), 10)
	params := map[string]string{
		"folder":    folder,
		"public_id": input.PublicID,
		"timestamp": timestamp,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"signature": helper.SignUploadParams(params, s.CloudinaryAPISecret),
		"timestamp": timestamp,
		"folder":    folder,
		"publicId":  input.PublicID,
		"apiKey":    s.CloudinaryAPIKey,
		"cloudName": s.CloudinaryCloudName,
	})
}

func AddAttachment(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.AttachmentInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	bookingId := c.Locals("inputId").(uint)

	var booking model.PrivateBooking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingId).Error; err != nil {
			return err
		}
		urls := decodeAttachments(booking.Attachments)
		for _, u := range urls {
			if u == input.Url {
				return nil
			}
		}
		booking.Attachments = encodeAttachments(append(urls, input.Url))
		return tx.Model(&booking).Update("attachments", booking.Attachments).Error
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "private_booking", bookingId, fiber.Map{"attachmentAdded": input.Url})
	return utils.SuccessResponse(c, fiber.StatusOK, decodeAttachments(booking.Attachments))
}

// DeleteAttachment removes the link and the Cloudinary asset behind it.
func DeleteAttachment(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.AttachmentInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	bookingId := c.Locals("inputId").(uint)

	var booking model.PrivateBooking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingId).Error; err != nil {
			return err
		}
		urls := decodeAttachments(booking.Attachments)
		kept := urls[:0]
		for _, u := range urls {
			if u != input.Url {
				kept = append(kept, u)
			}
		}
		if len(kept) == len(urls) {
			return gorm.ErrRecordNotFound
		}
		booking.Attachments = encodeAttachments(kept)
		return tx.Model(&booking).Update("attachments", booking.Attachments).Error
	})
	if err != nil {
		return failure(c, err)
	}

	if cld, err := helper.InitCloudinary(); err == nil {
		publicID := helper.ExtractPublicID(input.Url)
		resourceType := "image"
		if strings.Contains(input.Url, "/raw/upload/") {
			resourceType = "raw"
		}
		if _, err := cld.Upload.Destroy(c.UserContext(), uploader.DestroyParams{PublicID: publicID, ResourceType: resourceType}); err != nil {
			zap.S().Warnf("cloudinary destroy %s: %v", publicID, err)
		}
	}

	helper.WriteAudit(c, helper.AuditUpdate, "private_booking", bookingId, fiber.Map{"attachmentRemoved": input.Url})
	return utils.SuccessResponse(c, fiber.StatusOK, decodeAttachments(booking.Attachments))
}
