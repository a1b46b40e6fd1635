// Package report renders ledger aggregates as plain text.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/acunningham2/billing/internal/billing"
	"github.com/acunningham2/billing/internal/model"
)

// Reporter writes text reports over the facade's query results.
type Reporter struct {
	billing *billing.Billing
	printer *message.Printer
}

func New(b *billing.Billing) *Reporter {
	return &Reporter{
		billing: b,
		printer: message.NewPrinter(language.AmericanEnglish),
	}
}

func (r *Reporter) amount(d decimal.Decimal) string {
	return r.printer.Sprintf("%v", number.Decimal(d.InexactFloat64(),
		number.Scale(2), number.MinFractionDigits(2)))
}

// InvoicesByCustomer lists every customer with their invoices in number
// order.
func (r *Reporter) InvoicesByCustomer(w io.Writer) error {
	groups := r.billing.InvoicesGroupedByCustomer()
	customers := make([]model.Customer, 0, len(groups))
	for customer := range groups {
		customers = append(customers, customer)
	}
	slices.SortFunc(customers, func(a, b model.Customer) int {
		return strings.Compare(a.Name(), b.Name())
	})
	for _, customer := range customers {
		if _, err := fmt.Fprintf(w, "%s (%s)\n", customer.Name(), customer.Terms); err != nil {
			return err
		}
		for _, inv := range groups[customer] {
			if err := r.invoiceLine(w, inv); err != nil {
				return err
			}
		}
	}
	return nil
}

// OverdueInvoices lists the invoices overdue as of the given date.
func (r *Reporter) OverdueInvoices(w io.Writer, asOf time.Time) error {
	if _, err := fmt.Fprintf(w, "Overdue as of %s\n", asOf.Format("2006-01-02")); err != nil {
		return err
	}
	for _, inv := range r.billing.OverdueInvoices(asOf) {
		if err := r.invoiceLine(w, inv); err != nil {
			return err
		}
	}
	return nil
}

// CustomersAndVolume lists customers by descending total billed amount.
func (r *Reporter) CustomersAndVolume(w io.Writer) error {
	for _, cv := range r.billing.CustomersAndVolume() {
		if _, err := fmt.Fprintf(w, "%-26s%12s\n", cv.Customer.Name(), r.amount(cv.Volume)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) invoiceLine(w io.Writer, inv *model.Invoice) error {
	status := "open"
	if inv.PaidDate != nil {
		status = "paid " + inv.PaidDate.Format("2006-01-02")
	}
	_, err := fmt.Fprintf(w, "  %4d  %s  %12s  %s\n",
		inv.Number, inv.Date.Format("2006-01-02"), r.amount(inv.Amount), status)
	return err
}
