package validate

import (
	"errors"

	"venue_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreatePrivateBooking() fiber.Handler {
	return Body(func(in *model.CreatePrivateBookingInput) error {
		in.ContactName = trimmed(in.ContactName)
		if in.StartTime == in.EndTime {
			return errors.New("endTime must differ from startTime")
		}
		return nil
	})
}

func UpdatePrivateBooking() fiber.Handler { return Body[model.UpdatePrivateBookingInput]() }

func AddBookingItems() fiber.Handler {
	return Body(func(in *model.AddBookingItemsInput) error {
		for i := range in.Items {
			if in.Items[i].ItemType == model.ItemTypeVendor && in.Items[i].VendorId == nil {
				return errors.New("vendor items need a vendorId")
			}
		}
		return nil
	})
}

func RecordDeposit() fiber.Handler { return Body[model.RecordDepositInput]() }
func CancelPrivateBooking() fiber.Handler { return Body[model.CancelPrivateBookingInput]() }
func AttachmentSignature() fiber.Handler { return Body[model.AttachmentSignatureInput]() }
func Attachment() fiber.Handler { return Body[model.AttachmentInput]() }
func FilterPrivateBooking() fiber.Handler { return Query[model.FilterPrivateBooking]() }
