package constants

const (
	ROLE_ADMIN   = "ADMIN"
	ROLE_MANAGER = "MANAGER"
	ROLE_STAFF   = "STAFF"
	ROLE_VIEWER  = "VIEWER"
)

const (
	ERROR_INTERNAL_ERROR       = "Something went wrong, please try again"
	ERROR_INPUT                = "Invalid input data"
	ERROR_PARSE_DATA_TO_LOCALS = "Could not read validated input"
	DATA_INPUT_IS_NOT_NUMBER   = "Identifier must be a number"
	VALIDATION_FAILED          = "Validation failed"
	NOT_PERMISSION             = "You do not have permission to perform this action"
	NOT_FOUND                  = "Record not found"
	CONCURRENT_UPDATE          = "The record was changed by someone else, reload and try again"

	INVALID_PASSWORD      = "Password is incorrect"
	ACCOUNT_NOT_ACTIVE    = "Account is disabled"
	CAN_NOT_HASH_PASSWORD = "Could not hash password"
	INVALID_TOKEN         = "Invalid or expired token"
	USERNAME_EXISTS       = "Username already exists"

	TABLE_HAS_ACTIVE_BOOKINGS = "Table cannot be deleted while it has active bookings"
	TABLE_NUMBER_EXISTS       = "A table with this number already exists"
	NO_TABLE_AVAILABLE        = "No table is available for this party size and time"
	TABLE_NOT_AVAILABLE       = "The selected table is already booked at this time"
	VENUE_CLOSED              = "The venue is closed on this date"
	INVALID_STATUS_CHANGE     = "This status change is not allowed"

	QUOTE_NOT_ACCEPTED = "Only accepted quotes can be converted to an invoice"
	QUOTE_NOT_EDITABLE = "Only draft quotes can be edited"

	INVOICE_NOT_EDITABLE = "Only draft invoices can be edited"
	INVOICE_OVERPAYMENT  = "Payment exceeds the outstanding balance"
	INVOICE_HAS_PAYMENTS = "Invoices with payments cannot be voided"

	VENDOR_IN_USE = "Vendor is used by booking items and cannot be deleted"

	PHONE_EXISTS = "A customer with this phone number already exists"
	EMAIL_EXISTS = "A customer with this email already exists"

	INSUFFICIENT_POINTS = "Member does not have enough points"
	ALREADY_MEMBER      = "Customer is already a loyalty member"

	NOT_REFUNDABLE = "Booking is not eligible for a refund"

	NOT_CONFIGURED       = "This integration is not configured"
	INVALID_SIGNATURE    = "Invalid webhook signature"
	CALENDAR_RANGE_LIMIT = "Date range must not exceed 366 days"
)

const (
	DATE_LAYOUT     = "2006-01-02"
	DISPLAY_LAYOUT  = "02/01/2006"
	DEFAULT_VAT     = 20.0
	DEFAULT_DUE_DAY = 14
)
