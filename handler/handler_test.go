package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"venue_manager/config"
	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/messaging"
	"venue_manager/model"
	"venue_manager/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTest(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prevDB, prevClock := database.DB, helper.Clock
	database.DB = db
	helper.Clock = clockwork.NewFakeClockAt(time.Date(2026, 4, 10, 11, 0, 0, 0, time.UTC))
	t.Cleanup(func() {
		database.DB, helper.Clock = prevDB, prevClock
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// asStaff stands in for Protected + Permission.
func asStaff(c *fiber.Ctx) error {
	c.Locals("claim", model.TokenClaim{AccountId: 1, Username: "manager", Role: constants.ROLE_MANAGER})
	return c.Next()
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestDeleteTable(t *testing.T) {
	db := setupTest(t)
	app := fiber.New()
	app.Delete("/tables/:id", asStaff, validate.GetById("id"), DeleteTable)

	busy := model.Table{Number: "1", Capacity: 4, MinParty: 1, IsActive: true}
	free := model.Table{Number: "2", Capacity: 2, MinParty: 1, IsActive: true}
	require.NoError(t, db.Create(&busy).Error)
	require.NoError(t, db.Create(&free).Error)
	require.NoError(t, db.Create(&model.TableBooking{
		Reference: "TB-00000001", Name: "Guest", PartySize: 2, BookingDate: helper.Today().AddDate(0, 0, 3),
		StartTime: "19:00", DurationMinutes: 120, TableId: &busy.ID, Status: model.TableBookingConfirmed,
	}).Error)

	status, _ := call(t, app, http.MethodDelete, fmt.Sprintf("/tables/%d", busy.ID), "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = call(t, app, http.MethodDelete, fmt.Sprintf("/tables/%d", free.ID), "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, http.MethodDelete, "/tables/999", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, http.MethodDelete, "/tables/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	var audits int64
	db.Model(&model.AuditLog{}).Where("entity = ? AND action = ?", "table", helper.AuditDelete).Count(&audits)
	assert.Equal(t, int64(1), audits)
}

func TestConvertQuote(t *testing.T) {
	db := setupTest(t)
	app := fiber.New()
	app.Post("/quotes/:id/convert", asStaff, validate.GetById("id"), ConvertQuote)

	accepted := model.Quote{Number: "QUO-2026-00001", Title: "Birthday", Status: model.QuoteAccepted, ValidUntil: helper.Today(), Subtotal: 100, VatTotal: 20, Total: 120,
		Items: []model.QuoteLineItem{{Description: "Room", Quantity: 1, UnitPrice: 100, VatRate: 20, LineTotal: 100, VatAmount: 20, Position: 1}}}
	sent := model.Quote{Number: "QUO-2026-00002", Title: "Wake", Status: model.QuoteSent, ValidUntil: helper.Today()}
	require.NoError(t, db.Create(&accepted).Error)
	require.NoError(t, db.Create(&sent).Error)

	status, env := call(t, app, http.MethodPost, fmt.Sprintf("/quotes/%d/convert", accepted.ID), "")
	require.Equal(t, fiber.StatusCreated, status)
	var invoice model.Invoice
	require.NoError(t, json.Unmarshal(env.Data, &invoice))
	assert.Equal(t, "INV-2026-00001", invoice.Number)
	assert.Equal(t, 120.0, invoice.Total)
	assert.Equal(t, "2026-04-24", invoice.DueDate.Format(time.DateOnly))
	assert.Len(t, invoice.Items, 1)

	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/quotes/%d/convert", accepted.ID), "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/quotes/%d/convert", sent.ID), "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	var invoices int64
	db.Model(&model.Invoice{}).Count(&invoices)
	assert.Equal(t, int64(1), invoices)
}

func TestRecordInvoicePayment(t *testing.T) {
	db := setupTest(t)
	app := fiber.New()
	app.Post("/invoices/:id/payments", asStaff, validate.GetById("id"), validate.RecordPayment(), RecordInvoicePayment)

	inv := model.Invoice{Number: "INV-2026-00007", Title: "Party", Status: model.InvoiceSent,
		IssueDate: helper.Today(), DueDate: helper.Today().AddDate(0, 0, 14), Subtotal: 200, VatTotal: 40, Total: 240}
	require.NoError(t, db.Omit("Items", "Payments").Create(&inv).Error)
	path := fmt.Sprintf("/invoices/%d/payments", inv.ID)

	status, _ := call(t, app, http.MethodPost, path, `{"amount":300,"method":"card"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = call(t, app, http.MethodPost, path, `{"amount":40,"method":"crypto"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env := call(t, app, http.MethodPost, path, `{"amount":240,"method":"bank_transfer","reference":"BACS 991"}`)
	require.Equal(t, fiber.StatusCreated, status)
	var out struct {
		Invoice model.Invoice        `json:"invoice"`
		Payment model.InvoicePayment `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, model.InvoicePaid, out.Invoice.Status)
	require.NotNil(t, out.Payment.RecordedBy)
	assert.Equal(t, uint(1), *out.Payment.RecordedBy)
}

func TestLoyaltyEndpoints(t *testing.T) {
	db := setupTest(t)
	app := fiber.New()
	app.Post("/members", asStaff, validate.EnrollMember(), EnrollMember)
	app.Post("/members/:id/earn", asStaff, validate.GetById("id"), validate.EarnPoints(), EarnPoints)
	app.Post("/members/:id/redeem", asStaff, validate.GetById("id"), validate.RedeemReward(), RedeemReward)

	customer := model.Customer{FirstName: "Priya"}
	require.NoError(t, db.Create(&customer).Error)
	reward := model.LoyaltyReward{Name: "Free dessert", PointsCost: 50, IsActive: true}
	require.NoError(t, db.Create(&reward).Error)

	status, env := call(t, app, http.MethodPost, "/members", fmt.Sprintf(`{"customerId":%d}`, customer.ID))
	require.Equal(t, fiber.StatusCreated, status)
	var member model.LoyaltyMember
	require.NoError(t, json.Unmarshal(env.Data, &member))
	assert.Equal(t, helper.NewMemberNumber(customer.ID), member.MemberNumber)

	status, _ = call(t, app, http.MethodPost, "/members", fmt.Sprintf(`{"customerId":%d}`, customer.ID))
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/members/%d/redeem", member.ID), fmt.Sprintf(`{"rewardId":%d}`, reward.ID))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/members/%d/earn", member.ID), `{"amount":0.5}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, env = call(t, app, http.MethodPost, fmt.Sprintf("/members/%d/earn", member.ID), `{"amount":64.80,"reference":"TAB-12"}`)
	require.Equal(t, fiber.StatusOK, status)
	var earned struct {
		Member      model.LoyaltyMember      `json:"member"`
		Transaction model.LoyaltyTransaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &earned))
	assert.Equal(t, 64, earned.Member.PointsBalance)

	status, env = call(t, app, http.MethodPost, fmt.Sprintf("/members/%d/redeem", member.ID), fmt.Sprintf(`{"rewardId":%d}`, reward.ID))
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &earned))
	assert.Equal(t, 14, earned.Member.PointsBalance)
	assert.Equal(t, -50, earned.Transaction.Points)
}

func TestSmsStatusWebhook(t *testing.T) {
	db := setupTest(t)
	settings := config.Get()
	prevSecret := settings.SMSWebhookSecret
	settings.SMSWebhookSecret = "hook-secret"
	t.Cleanup(func() { settings.SMSWebhookSecret = prevSecret })

	app := fiber.New()
	app.Post("/webhooks/sms/status", SmsStatusWebhook)

	msg := model.Message{Channel: model.ChannelSMS, To: "+447700900123", Body: "hi", Status: model.MessageSent, ProviderId: "SM77"}
	require.NoError(t, db.Create(&msg).Error)

	post := func(eventId, body, signature string) (int, envelope) {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/sms/status", strings.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
		req.Header.Set("X-Event-Id", eventId)
		if signature != "" {
			req.Header.Set("X-Signature", signature)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		var env envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		return resp.StatusCode, env
	}
	body := "MessageSid=SM77&MessageStatus=delivered"

	status, _ := post("evt-1", body, "bad")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	var stored model.Message
	require.NoError(t, db.First(&stored, msg.ID).Error)
	assert.Equal(t, model.MessageSent, stored.Status, "unsigned callbacks are not applied")

	status, env := post("evt-2", body, messaging.SignPayload("hook-secret", []byte(body)))
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), `"applied":true`)
	require.NoError(t, db.First(&stored, msg.ID).Error)
	assert.Equal(t, model.MessageDelivered, stored.Status)

	status, env = post("evt-2", body, messaging.SignPayload("hook-secret", []byte(body)))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), `"duplicate":true`)

	var logs []model.WebhookLog
	require.NoError(t, db.Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.False(t, logs[0].Verified)
	assert.False(t, logs[0].Processed)
	assert.True(t, logs[1].Verified)
	assert.True(t, logs[1].Processed)
}

func TestDateRange(t *testing.T) {
	setupTest(t)

	from, to, err := dateRange(model.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-11", from.Format(time.DateOnly))
	assert.Equal(t, "2026-04-10", to.Format(time.DateOnly))

	_, _, err = dateRange(model.DateRange{From: "2026-05-01", To: "2026-04-01"})
	assert.Error(t, err)

	_, _, err = dateRange(model.DateRange{From: "01/05/2026"})
	assert.Error(t, err)
}

func TestAddBookingItemsIsAllOrNothing(t *testing.T) {
	db := setupTest(t)
	app := fiber.New()
	app.Post("/private-bookings/:id/items", asStaff, validate.GetById("id"), validate.AddBookingItems(), AddBookingItems)

	booking := model.PrivateBooking{
		Reference: "PB-00000001", ContactName: "Ada Lovelace", EventType: "Birthday",
		EventDate: helper.Today().AddDate(0, 1, 0), StartTime: "18:00", EndTime: "23:00", GuestCount: 40,
		Status: model.PrivateBookingConfirmed, TotalAmount: 150,
		Items: []model.PrivateBookingItem{{ItemType: model.ItemTypeSpace, Description: "Function room", Quantity: 2, UnitPrice: 75, LineTotal: 150}},
	}
	require.NoError(t, db.Create(&booking).Error)
	florist := model.Vendor{Name: "Petal & Stem", Slug: "petal-stem", ServiceType: "florist"}
	require.NoError(t, db.Create(&florist).Error)
	path := fmt.Sprintf("/private-bookings/%d/items", booking.ID)

	itemsAndTotal := func() (int64, float64) {
		var count int64
		db.Model(&model.PrivateBookingItem{}).Where("booking_id = ?", booking.ID).Count(&count)
		var stored model.PrivateBooking
		require.NoError(t, db.First(&stored, booking.ID).Error)
		return count, stored.TotalAmount
	}

	status, _ := call(t, app, http.MethodPost, path, `{"items":[
		{"itemType":"catering","description":"Buffet","quantity":40,"unitPrice":12.5},
		{"itemType":"vendor","vendorId":999,"description":"Table flowers","quantity":1,"unitPrice":300}
	]}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	count, total := itemsAndTotal()
	assert.Equal(t, int64(1), count, "the buffet inserted first is rolled back")
	assert.Equal(t, 150.0, total)

	status, env := call(t, app, http.MethodPost, path, fmt.Sprintf(`{"items":[
		{"itemType":"catering","description":"Buffet","quantity":40,"unitPrice":12.5,"discountPercent":10},
		{"itemType":"vendor","vendorId":%d,"description":"Table flowers","quantity":1,"unitPrice":300}
	]}`, florist.ID))
	require.Equal(t, fiber.StatusCreated, status)
	var saved model.PrivateBooking
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Len(t, saved.Items, 3)
	assert.Equal(t, 900.0, saved.TotalAmount)

	count, total = itemsAndTotal()
	assert.Equal(t, int64(3), count)
	assert.Equal(t, 900.0, total)
}

func TestDashboardCountsEventsInNextWeek(t *testing.T) {
	db := setupTest(t)
	app := fiber.New()
	app.Get("/reports/dashboard", asStaff, GetDashboard)

	today := helper.Today()
	events := []struct {
		offset int
		status string
	}{
		{0, model.PrivateBookingConfirmed},
		{6, model.PrivateBookingTentative},
		{7, model.PrivateBookingConfirmed},
		{60, model.PrivateBookingConfirmed},
		{3, model.PrivateBookingCancelled},
		{-1, model.PrivateBookingConfirmed},
	}
	for i, e := range events {
		require.NoError(t, db.Create(&model.PrivateBooking{
			Reference: fmt.Sprintf("PB-%08d", i+1), ContactName: "Guest", EventType: "Party",
			EventDate: today.AddDate(0, 0, e.offset), StartTime: "19:00", EndTime: "23:00", GuestCount: 20,
			Status: e.status,
		}).Error)
	}

	status, env := call(t, app, http.MethodGet, "/reports/dashboard", "")
	require.Equal(t, fiber.StatusOK, status)
	var stats model.DashboardStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(2), stats.UpcomingEvents, "today and six days out only")
}

func TestCreateTableBookingOnRequestedTable(t *testing.T) {
	db := setupTest(t)
	app := fiber.New()
	app.Post("/table-bookings", asStaff, validate.CreateTableBooking(), CreateTableBooking)

	banquet := model.Table{Number: "10", Capacity: 8, MinParty: 4, IsActive: true}
	require.NoError(t, db.Create(&banquet).Error)
	body := func(party int) string {
		return fmt.Sprintf(`{"name":"Grace Hopper","phone":"07700900123","partySize":%d,"bookingDate":"2026-04-20","startTime":"19:00","tableId":%d}`, party, banquet.ID)
	}

	status, _ := call(t, app, http.MethodPost, "/table-bookings", body(2))
	assert.Equal(t, fiber.StatusConflict, status, "party below the table minimum")

	status, _ = call(t, app, http.MethodPost, "/table-bookings", body(9))
	assert.Equal(t, fiber.StatusConflict, status, "party above capacity")

	status, env := call(t, app, http.MethodPost, "/table-bookings", body(5))
	require.Equal(t, fiber.StatusCreated, status)
	var booking model.TableBooking
	require.NoError(t, json.Unmarshal(env.Data, &booking))
	require.NotNil(t, booking.TableId)
	assert.Equal(t, banquet.ID, *booking.TableId)

	var count int64
	db.Model(&model.TableBooking{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCancelPrivateBookingRefund(t *testing.T) {
	db := setupTest(t)
	app := fiber.New()
	app.Post("/private-bookings/:id/cancel", asStaff, validate.GetById("id"), validate.CancelPrivateBooking(), CancelPrivateBooking)

	paid := helper.Clock.Now().AddDate(0, -1, 0)
	newBooking := func(ref string, daysOut int) model.PrivateBooking {
		b := model.PrivateBooking{
			Reference: ref, ContactName: "Guest", EventType: "Wedding",
			EventDate: helper.Today().AddDate(0, 0, daysOut), StartTime: "12:00", EndTime: "23:00", GuestCount: 80,
			Status: model.PrivateBookingConfirmed, DepositAmount: 200, DepositPaidAt: &paid,
		}
		require.NoError(t, db.Create(&b).Error)
		return b
	}
	stored := func(id uint) model.PrivateBooking {
		var b model.PrivateBooking
		require.NoError(t, db.First(&b, id).Error)
		return b
	}

	late := newBooking("PB-00000010", 10)
	status, _ := call(t, app, http.MethodPost, fmt.Sprintf("/private-bookings/%d/cancel", late.ID), `{"issueRefund":true}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, model.PrivateBookingConfirmed, stored(late.ID).Status, "a refused refund leaves the booking untouched")

	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/private-bookings/%d/cancel", late.ID), `{"issueRefund":false,"reason":"Couple postponed"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, model.PrivateBookingCancelled, stored(late.ID).Status)
	assert.Zero(t, stored(late.ID).RefundedAmount)

	early := newBooking("PB-00000011", 40)
	status, _ = call(t, app, http.MethodPost, fmt.Sprintf("/private-bookings/%d/cancel", early.ID), `{"issueRefund":true}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 200.0, stored(early.ID).RefundedAmount)
}
