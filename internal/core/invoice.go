package core

import (
	"fmt"
	"strings"
)

// Unit prices per day, fixed configuration constants pending a pricing
// table in the database.
var (
	UnitPriceWorkedDay = Money{Cents: 10000}
	UnitPriceOvertime  = Money{Cents: 5000}
	UnitPriceOnCall    = Money{Cents: 7500}
)

// VATRatePercent is the fixed VAT rate applied to invoices.
const VATRatePercent = 20

type (
	// InvoiceLineItem is one row of the rendered customer invoice.
	// Transient: it exists only to feed report rendering.
	InvoiceLineItem struct {
		Category  ActivityCategory
		Quantity  Days
		UnitPrice Money
		Amount    Money
	}

	// InvoiceTotals carries the pre-tax total (HT), the VAT amount and
	// the tax-inclusive total (TTC).
	InvoiceTotals struct {
		PreTax       Money
		VAT          Money
		TaxInclusive Money
	}

	// InvoiceComputation is the full computed content of one
	// per-mission invoice, ready for report assembly.
	InvoiceComputation struct {
		Mission   *Mission
		LineItems []InvoiceLineItem
		Totals    InvoiceTotals
	}
)

// ComputeInvoice derives the three invoice line items and the totals
// from one mission's month activities. Line items are always present,
// zero-quantity ones included, so the rendered table keeps a stable
// shape.
func ComputeInvoice(group MissionActivities) InvoiceComputation {
	billed := SumDaysByBucket(group.Activities, BucketBilled)
	extra := SumDaysByBucket(group.Activities, BucketExtraHours)
	onCall := SumDaysByBucket(group.Activities, BucketOnCall)

	items := []InvoiceLineItem{
		{
			Category:  CategoryWorkedDay,
			Quantity:  billed,
			UnitPrice: UnitPriceWorkedDay,
			Amount:    UnitPriceWorkedDay.MulDays(billed),
		},
		{
			Category:  CategoryOvertime,
			Quantity:  extra,
			UnitPrice: UnitPriceOvertime,
			Amount:    UnitPriceOvertime.MulDays(extra),
		},
		{
			Category:  CategoryOnCall,
			Quantity:  onCall,
			UnitPrice: UnitPriceOnCall,
			Amount:    UnitPriceOnCall.MulDays(onCall),
		},
	}

	return InvoiceComputation{
		Mission:   group.Mission,
		LineItems: items,
		Totals:    ComputeTotals(items),
	}
}

// ComputeTotals sums line-item amounts to the pre-tax total, applies
// the fixed VAT rate and derives the tax-inclusive total.
func ComputeTotals(items []InvoiceLineItem) InvoiceTotals {
	var preTax Money
	for _, item := range items {
		preTax = preTax.Add(item.Amount)
	}
	vat := Money{Cents: (preTax.Cents*VATRatePercent*2 + 100) / 200}
	return InvoiceTotals{
		PreTax:       preTax,
		VAT:          vat,
		TaxInclusive: preTax.Add(vat),
	}
}

// DocumentName derives the deterministic invoice file name:
// customer, numeric month, numeric year, collaborator first and last
// name, whitespace replaced with underscores, joined with hyphens,
// ".pdf" suffix.
func DocumentName(customer *Customer, collaborator *Collaborator, month Month) string {
	parts := []string{
		underscored(customer.Name),
		fmt.Sprintf("%d", int(month.Month)),
		fmt.Sprintf("%d", month.Year),
		underscored(collaborator.FirstName),
		underscored(collaborator.LastName),
	}
	return strings.Join(parts, "-") + ".pdf"
}

func underscored(s string) string {
	return strings.Join(strings.Fields(s), "_")
}
