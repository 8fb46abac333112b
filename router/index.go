package router

import (
	"time"

	"venue_manager/handler"
	"venue_manager/helper"
	"venue_manager/metrics"
	"venue_manager/middleware"
	"venue_manager/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	app.Get("/metrics", metrics.Handler())
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	api := app.Group("/api", logger.New(), metrics.Middleware())
	v1 := api.Group("/v1")

	auth := v1.Group("/auth")
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/refresh-token", handler.RefreshToken)
	auth.Post("/logout", handler.Logout)
	auth.Post("/forgot-password", limiter.New(limiter.Config{Max: 5, Expiration: 15 * time.Minute}), validate.ForgotPassword(), handler.ForgotPassword)
	auth.Post("/reset-password", validate.ResetPassword(), handler.ResetPassword)

	account := v1.Group("/account", middleware.Protected())
	account.Get("/me", handler.GetMe)
	account.Post("/change-password", validate.ChangePassword(), handler.ChangePassword)
	account.Get("/", middleware.Permission(helper.PermAccountsManage), validate.FilterAccount(), handler.GetAccounts)
	account.Post("/", middleware.Permission(helper.PermAccountsManage), validate.CreateAccount(), handler.CreateAccount)
	account.Patch("/:accountId/active", middleware.Permission(helper.PermAccountsManage), validate.GetById("accountId"), validate.ActiveAccount(), handler.SetAccountActive)

	audit := v1.Group("/audit-logs", middleware.Protected())
	audit.Get("/", middleware.Permission(helper.PermAuditRead), validate.FilterAudit(), handler.GetAuditLogs)

	public := v1.Group("/public", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}))
	public.Post("/table-bookings", validate.PublicTableBooking(), handler.CreatePublicTableBooking)

	webhooks := v1.Group("/webhooks")
	webhooks.Post("/sms/status", handler.SmsStatusWebhook)

	tables := v1.Group("/tables", middleware.Protected())
	tables.Get("/", middleware.Permission(helper.PermBookingsRead), handler.GetTables)
	tables.Post("/", middleware.Permission(helper.PermSettingsWrite), validate.CreateTable(), handler.CreateTable)
	tables.Put("/:tableId", middleware.Permission(helper.PermSettingsWrite), validate.GetById("tableId"), validate.UpdateTable(), handler.UpdateTable)
	tables.Delete("/:tableId", middleware.Permission(helper.PermSettingsWrite), validate.GetById("tableId"), handler.DeleteTable)

	bookings := v1.Group("/table-bookings", middleware.Protected())
	bookings.Get("/", middleware.Permission(helper.PermBookingsRead), validate.FilterTableBooking(), handler.GetTableBookings)
	bookings.Get("/:bookingId", middleware.Permission(helper.PermBookingsRead), validate.GetById("bookingId"), handler.GetTableBooking)
	bookings.Post("/", middleware.Permission(helper.PermBookingsWrite), validate.CreateTableBooking(), handler.CreateTableBooking)
	bookings.Put("/:bookingId", middleware.Permission(helper.PermBookingsWrite), validate.GetById("bookingId"), validate.UpdateTableBooking(), handler.UpdateTableBooking)
	bookings.Patch("/:bookingId/status", middleware.Permission(helper.PermBookingsWrite), validate.GetById("bookingId"), validate.StatusChange(), handler.ChangeTableBookingStatus)
	bookings.Post("/:bookingId/cancel", middleware.Permission(helper.PermBookingsWrite), validate.GetById("bookingId"), handler.CancelTableBooking)
	bookings.Post("/:bookingId/resend-confirmation", middleware.Permission(helper.PermBookingsWrite), validate.GetById("bookingId"), handler.ResendBookingConfirmation)

	ws := v1.Group("/ws")
	ws.Use("/", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/bookings/:date", middleware.Protected(), middleware.Permission(helper.PermBookingsRead), websocket.New(handler.BookingBoard))

	events := v1.Group("/private-bookings", middleware.Protected())
	events.Get("/", middleware.Permission(helper.PermPrivateBookingsRead), validate.FilterPrivateBooking(), handler.GetPrivateBookings)
	events.Get("/:bookingId", middleware.Permission(helper.PermPrivateBookingsRead), validate.GetById("bookingId"), handler.GetPrivateBooking)
	events.Get("/:bookingId/refund", middleware.Permission(helper.PermPrivateBookingsRead), validate.GetById("bookingId"), handler.GetRefundEligibility)
	events.Post("/", middleware.Permission(helper.PermPrivateBookingsWrite), validate.CreatePrivateBooking(), handler.CreatePrivateBooking)
	events.Put("/:bookingId", middleware.Permission(helper.PermPrivateBookingsWrite), validate.GetById("bookingId"), validate.UpdatePrivateBooking(), handler.UpdatePrivateBooking)
	events.Patch("/:bookingId/status", middleware.Permission(helper.PermPrivateBookingsWrite), validate.GetById("bookingId"), validate.StatusChange(), handler.ChangePrivateBookingStatus)
	events.Post("/:bookingId/items", middleware.Permission(helper.PermPrivateBookingsWrite), validate.GetById("bookingId"), validate.AddBookingItems(), handler.AddBookingItems)
	events.Delete("/:bookingId/items/:itemId", middleware.Permission(helper.PermPrivateBookingsWrite), validate.GetById("bookingId"), handler.DeleteBookingItem)
	events.Post("/:bookingId/deposit", middleware.Permission(helper.PermPrivateBookingsWrite), validate.GetById("bookingId"), validate.RecordDeposit(), handler.RecordDeposit)
	events.Post("/:bookingId/cancel", middleware.Permission(helper.PermPrivateBookingsWrite), validate.GetById("bookingId"), validate.CancelPrivateBooking(), handler.CancelPrivateBooking)
	events.Post("/:bookingId/attachments/signature", middleware.Permission(helper.PermPrivateBookingsWrite), validate.GetById("bookingId"), validate.AttachmentSignature(), handler.AttachmentSignature)
	events.Post("/:bookingId/attachments", middleware.Permission(helper.PermPrivateBookingsWrite), validate.GetById("bookingId"), validate.Attachment(), handler.AddAttachment)
	events.Delete("/:bookingId/attachments", middleware.Permission(helper.PermPrivateBookingsWrite), validate.GetById("bookingId"), validate.Attachment(), handler.DeleteAttachment)

	vendors := v1.Group("/vendors", middleware.Protected())
	vendors.Get("/", middleware.Permission(helper.PermVendorsRead), validate.FilterVendor(), handler.GetVendors)
	vendors.Get("/:vendorId", middleware.Permission(helper.PermVendorsRead), validate.GetById("vendorId"), handler.GetVendor)
	vendors.Post("/", middleware.Permission(helper.PermVendorsWrite), validate.CreateVendor(), handler.CreateVendor)
	vendors.Put("/:vendorId", middleware.Permission(helper.PermVendorsWrite), validate.GetById("vendorId"), validate.UpdateVendor(), handler.UpdateVendor)
	vendors.Delete("/:vendorId", middleware.Permission(helper.PermVendorsWrite), validate.GetById("vendorId"), handler.DeleteVendor)

	customers := v1.Group("/customers", middleware.Protected())
	customers.Get("/", middleware.Permission(helper.PermCustomersRead), validate.FilterCustomer(), handler.GetCustomers)
	customers.Get("/:customerId", middleware.Permission(helper.PermCustomersRead), validate.GetById("customerId"), handler.GetCustomer)
	customers.Post("/", middleware.Permission(helper.PermCustomersWrite), validate.CreateCustomer(), handler.CreateCustomer)
	customers.Put("/:customerId", middleware.Permission(helper.PermCustomersWrite), validate.GetById("customerId"), validate.UpdateCustomer(), handler.UpdateCustomer)

	quotes := v1.Group("/quotes", middleware.Protected())
	quotes.Get("/", middleware.Permission(helper.PermQuotesRead), validate.FilterQuote(), handler.GetQuotes)
	quotes.Get("/:quoteId", middleware.Permission(helper.PermQuotesRead), validate.GetById("quoteId"), handler.GetQuote)
	quotes.Post("/", middleware.Permission(helper.PermQuotesWrite), validate.CreateQuote(), handler.CreateQuote)
	quotes.Put("/:quoteId", middleware.Permission(helper.PermQuotesWrite), validate.GetById("quoteId"), validate.UpdateQuote(), handler.UpdateQuote)
	quotes.Delete("/:quoteId", middleware.Permission(helper.PermQuotesWrite), validate.GetById("quoteId"), handler.DeleteQuote)
	quotes.Patch("/:quoteId/status", middleware.Permission(helper.PermQuotesWrite), validate.GetById("quoteId"), validate.StatusChange(), handler.ChangeQuoteStatus)
	quotes.Post("/:quoteId/send", middleware.Permission(helper.PermQuotesWrite), validate.GetById("quoteId"), handler.SendQuote)
	quotes.Post("/:quoteId/convert", middleware.Permission(helper.PermInvoicesWrite), validate.GetById("quoteId"), handler.ConvertQuote)

	invoices := v1.Group("/invoices", middleware.Protected())
	invoices.Get("/", middleware.Permission(helper.PermInvoicesRead), validate.FilterInvoice(), handler.GetInvoices)
	invoices.Get("/:invoiceId", middleware.Permission(helper.PermInvoicesRead), validate.GetById("invoiceId"), handler.GetInvoice)
	invoices.Post("/", middleware.Permission(helper.PermInvoicesWrite), validate.CreateInvoice(), handler.CreateInvoice)
	invoices.Put("/:invoiceId", middleware.Permission(helper.PermInvoicesWrite), validate.GetById("invoiceId"), validate.UpdateInvoice(), handler.UpdateInvoice)
	invoices.Post("/:invoiceId/send", middleware.Permission(helper.PermInvoicesWrite), validate.GetById("invoiceId"), handler.SendInvoice)
	invoices.Post("/:invoiceId/void", middleware.Permission(helper.PermInvoicesWrite), validate.GetById("invoiceId"), handler.VoidInvoice)
	invoices.Post("/:invoiceId/payments", middleware.Permission(helper.PermInvoicesWrite), validate.GetById("invoiceId"), validate.RecordPayment(), handler.RecordInvoicePayment)

	recurring := v1.Group("/recurring-invoices", middleware.Protected())
	recurring.Get("/", middleware.Permission(helper.PermInvoicesRead), validate.FilterRecurringInvoice(), handler.GetRecurringInvoices)
	recurring.Post("/run", middleware.Permission(helper.PermInvoicesWrite), handler.RunRecurringInvoices)
	recurring.Get("/:templateId", middleware.Permission(helper.PermInvoicesRead), validate.GetById("templateId"), handler.GetRecurringInvoice)
	recurring.Get("/:templateId/schedule", middleware.Permission(helper.PermInvoicesRead), validate.GetById("templateId"), validate.ScheduleQuery(), handler.GetRecurringSchedule)
	recurring.Post("/", middleware.Permission(helper.PermInvoicesWrite), validate.CreateRecurringInvoice(), handler.CreateRecurringInvoice)
	recurring.Put("/:templateId", middleware.Permission(helper.PermInvoicesWrite), validate.GetById("templateId"), validate.UpdateRecurringInvoice(), handler.UpdateRecurringInvoice)
	recurring.Delete("/:templateId", middleware.Permission(helper.PermInvoicesWrite), validate.GetById("templateId"), handler.DeleteRecurringInvoice)

	loyalty := v1.Group("/loyalty", middleware.Protected())
	loyalty.Get("/members", middleware.Permission(helper.PermLoyaltyRead), validate.FilterLoyaltyMember(), handler.GetLoyaltyMembers)
	loyalty.Get("/members/:memberId", middleware.Permission(helper.PermLoyaltyRead), validate.GetById("memberId"), handler.GetLoyaltyMember)
	loyalty.Post("/members", middleware.Permission(helper.PermLoyaltyWrite), validate.EnrollMember(), handler.EnrollMember)
	loyalty.Post("/members/:memberId/earn", middleware.Permission(helper.PermLoyaltyWrite), validate.GetById("memberId"), validate.EarnPoints(), handler.EarnPoints)
	loyalty.Post("/members/:memberId/redeem", middleware.Permission(helper.PermLoyaltyWrite), validate.GetById("memberId"), validate.RedeemReward(), handler.RedeemReward)
	loyalty.Post("/members/:memberId/adjust", middleware.Permission(helper.PermLoyaltyWrite), validate.GetById("memberId"), validate.AdjustPoints(), handler.AdjustPoints)
	loyalty.Patch("/members/:memberId/status", middleware.Permission(helper.PermLoyaltyWrite), validate.GetById("memberId"), validate.StatusChange(), handler.SetMemberStatus)
	loyalty.Get("/rewards", middleware.Permission(helper.PermLoyaltyRead), handler.GetRewards)
	loyalty.Post("/rewards", middleware.Permission(helper.PermLoyaltyWrite), validate.CreateReward(), handler.CreateReward)
	loyalty.Put("/rewards/:rewardId", middleware.Permission(helper.PermLoyaltyWrite), validate.GetById("rewardId"), validate.UpdateReward(), handler.UpdateReward)
	loyalty.Delete("/rewards/:rewardId", middleware.Permission(helper.PermLoyaltyWrite), validate.GetById("rewardId"), handler.DeleteReward)

	messages := v1.Group("/messages", middleware.Protected())
	messages.Get("/", middleware.Permission(helper.PermMessagesRead), validate.FilterMessage(), handler.GetMessages)
	messages.Post("/", middleware.Permission(helper.PermMessagesSend), validate.SendMessage(), handler.SendMessage)
	messages.Post("/bulk", middleware.Permission(helper.PermMessagesSend), validate.BulkMessage(), handler.SendBulkMessage)
	messages.Post("/:messageId/retry", middleware.Permission(helper.PermMessagesSend), validate.GetById("messageId"), handler.RetryMessage)
	messages.Get("/webhook-logs", middleware.Permission(helper.PermMessagesRead), validate.FilterWebhookLog(), handler.GetWebhookLogs)

	calendar := v1.Group("/calendar", middleware.Protected())
	calendar.Get("/", middleware.Permission(helper.PermCalendarRead), validate.FilterCalendarNote(), handler.GetCalendar)
	calendar.Post("/notes", middleware.Permission(helper.PermCalendarWrite), validate.CreateCalendarNote(), handler.CreateCalendarNote)
	calendar.Put("/notes/:noteId", middleware.Permission(helper.PermCalendarWrite), validate.GetById("noteId"), validate.UpdateCalendarNote(), handler.UpdateCalendarNote)
	calendar.Delete("/notes/:noteId", middleware.Permission(helper.PermCalendarWrite), validate.GetById("noteId"), handler.DeleteCalendarNote)
	calendar.Post("/generate", middleware.Permission(helper.PermCalendarWrite), validate.GenerateNotes(), handler.GenerateCalendarNotes)

	holidays := v1.Group("/holidays", middleware.Protected())
	holidays.Get("/", middleware.Permission(helper.PermCalendarRead), validate.FilterHoliday(), handler.GetHolidays)
	holidays.Get("/bank/:year", middleware.Permission(helper.PermCalendarRead), handler.GetBankHolidays)
	holidays.Post("/bank/:year/seed", middleware.Permission(helper.PermSettingsWrite), handler.SeedBankHolidays)
	holidays.Post("/", middleware.Permission(helper.PermSettingsWrite), validate.CreateHoliday(), handler.CreateHoliday)
	holidays.Put("/:holidayId", middleware.Permission(helper.PermSettingsWrite), validate.GetById("holidayId"), validate.UpdateHoliday(), handler.UpdateHoliday)
	holidays.Delete("/:holidayId", middleware.Permission(helper.PermSettingsWrite), validate.GetById("holidayId"), handler.DeleteHoliday)

	reports := v1.Group("/reports", middleware.Protected())
	reports.Get("/dashboard", middleware.Permission(helper.PermReportsRead), handler.GetDashboard)
	reports.Get("/no-shows", middleware.Permission(helper.PermReportsRead), validate.DateRange(), handler.NoShowReport)
	reports.Get("/revenue", middleware.Permission(helper.PermReportsRead), validate.DateRange(), handler.RevenueReport)
}
