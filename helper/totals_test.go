package helper

import (
	"testing"

	"venue_manager/model"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuoteLines(t *testing.T) {
	zero := 0.0
	items, totals := BuildQuoteLines([]model.LineItemInput{
		{Description: "Buffet", Quantity: 40, UnitPrice: 12.5, DiscountPercent: 10},
		{Description: "DJ", Quantity: 1, UnitPrice: 250, VatRate: &zero},
	})

	assert.Len(t, items, 2)
	assert.Equal(t, 450.0, items[0].LineTotal)
	assert.Equal(t, 90.0, items[0].VatAmount)
	assert.Equal(t, 20.0, items[0].VatRate)
	assert.Equal(t, 0.0, items[1].VatAmount)
	assert.Equal(t, 2, items[1].Position)

	assert.Equal(t, Totals{Subtotal: 700, VatTotal: 90, Total: 790}, totals)
}

func TestLineRounding(t *testing.T) {
	assert.Equal(t, 3.33, LineTotal(1, 3.333, 0))
	assert.Equal(t, 0.67, LineVat(3.33, 20))
	assert.Equal(t, 1.01, Round2(1.005+1e-9))
}

func TestRecurringLinesPricedAtRun(t *testing.T) {
	rate := 5.0
	tpl := BuildRecurringLines([]model.LineItemInput{
		{Description: "Storage", Quantity: 2, UnitPrice: 30, VatRate: &rate},
		{Description: "Cleaning", Quantity: 1, UnitPrice: 15},
	})
	assert.Equal(t, 1, tpl[0].Position)
	assert.Equal(t, 20.0, tpl[1].VatRate)

	lines, totals := RecurringLinesToInvoice(tpl)
	assert.Len(t, lines, 2)
	assert.Equal(t, 3.0, lines[0].VatAmount)
	assert.Equal(t, Totals{Subtotal: 75, VatTotal: 6, Total: 81}, totals)
}

func TestBookingItemsTotal(t *testing.T) {
	assert.Equal(t, 30.3, BookingItemsTotal([]model.PrivateBookingItem{{LineTotal: 10.1}, {LineTotal: 20.2}}))
}
