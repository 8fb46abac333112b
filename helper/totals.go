package helper

import (
	"math"

	"venue_manager/constants"
	"venue_manager/model"
)

// Round2 rounds half away from zero to pennies.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineTotal is quantity × unit price less the percentage discount.
func LineTotal(quantity, unitPrice, discountPercent float64) float64 {
	return Round2(quantity * unitPrice * (1 - discountPercent/100))
}

func LineVat(lineTotal, vatRate float64) float64 {
	return Round2(lineTotal * vatRate / 100)
}

type Totals struct {
	Subtotal float64
	VatTotal float64
	Total    float64
}

func vatRateOf(in model.LineItemInput) float64 {
	if in.VatRate == nil {
		return constants.DEFAULT_VAT
	}
	return *in.VatRate
}

// BuildQuoteLines prices the input rows and returns them with the document totals.
func BuildQuoteLines(inputs []model.LineItemInput) ([]model.QuoteLineItem, Totals) {
	items := make([]model.QuoteLineItem, 0, len(inputs))
	var t Totals
	for i, in := range inputs {
		rate := vatRateOf(in)
		total := LineTotal(in.Quantity, in.UnitPrice, in.DiscountPercent)
		vat := LineVat(total, rate)
		items = append(items, model.QuoteLineItem{
			Description:     in.Description,
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
			DiscountPercent: in.DiscountPercent,
			VatRate:         rate,
			LineTotal:       total,
			VatAmount:       vat,
			Position:        i + 1,
		})
		t.Subtotal += total
		t.VatTotal += vat
	}
	return items, t.rounded()
}

func BuildInvoiceLines(inputs []model.LineItemInput) ([]model.InvoiceLineItem, Totals) {
	quoteLines, t := BuildQuoteLines(inputs)
	return QuoteLinesToInvoice(quoteLines), t
}

// QuoteLinesToInvoice copies priced rows; ids and owner keys are left for the caller.
func QuoteLinesToInvoice(lines []model.QuoteLineItem) []model.InvoiceLineItem {
	items := make([]model.InvoiceLineItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.InvoiceLineItem{
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			VatRate:         l.VatRate,
			LineTotal:       l.LineTotal,
			VatAmount:       l.VatAmount,
			Position:        l.Position,
		})
	}
	return items
}

// RecurringLinesToInvoice prices template rows for a generated invoice.
func RecurringLinesToInvoice(lines []model.RecurringInvoiceItem) ([]model.InvoiceLineItem, Totals) {
	inputs := make([]model.LineItemInput, 0, len(lines))
	for _, l := range lines {
		rate := l.VatRate
		inputs = append(inputs, model.LineItemInput{
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			VatRate:         &rate,
		})
	}
	return BuildInvoiceLines(inputs)
}

// BuildRecurringLines keeps the unpriced template rows; pricing happens at each run.
func BuildRecurringLines(inputs []model.LineItemInput) []model.RecurringInvoiceItem {
	items := make([]model.RecurringInvoiceItem, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, model.RecurringInvoiceItem{
			Description:     in.Description,
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
			DiscountPercent: in.DiscountPercent,
			VatRate:         vatRateOf(in),
			Position:        i + 1,
		})
	}
	return items
}

func (t Totals) rounded() Totals {
	t.Subtotal = Round2(t.Subtotal)
	t.VatTotal = Round2(t.VatTotal)
	t.Total = Round2(t.Subtotal + t.VatTotal)
	return t
}

// BookingItemsTotal sums the line totals of private booking items.
func BookingItemsTotal(items []model.PrivateBookingItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.LineTotal
	}
	return Round2(sum)
}
