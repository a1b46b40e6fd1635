package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acunningham2/billing/internal/model"
)

// Column widths of the flat file layout. Names are left-justified, the
// invoice number and amount right-justified, dates are compact MMddyy with
// an all-blank field standing for no paid date.
const (
	flatFirstWidth  = 12
	flatLastWidth   = 12
	flatTermsWidth  = 10
	flatNumberWidth = 4
	flatAmountWidth = 8
	flatDateWidth   = 6

	flatCustomerLen = flatFirstWidth + flatLastWidth + flatTermsWidth
	flatInvoiceLen  = flatNumberWidth + flatFirstWidth + flatLastWidth +
		flatAmountWidth + 2*flatDateWidth
)

const flatDate = "010206"

// FlatParser handles the fixed-width encoding.
//
//	Customer    One         CASH
//	   1Customer    One           100.00010422
type FlatParser struct{}

func (FlatParser) ParseCustomers(lines []string) []CustomerRecord {
	records := make([]CustomerRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, parseFlatCustomer(line))
	}
	return records
}

func parseFlatCustomer(line string) CustomerRecord {
	if len(line) < flatCustomerLen {
		return CustomerRecord{Err: badRecord(line, "want %d columns, got %d", flatCustomerLen, len(line))}
	}
	terms, err := model.ParseTerms(strings.TrimSpace(line[flatFirstWidth+flatLastWidth : flatCustomerLen]))
	if err != nil {
		return CustomerRecord{Err: badRecord(line, "%v", err)}
	}
	return CustomerRecord{Customer: &model.Customer{
		FirstName: strings.TrimSpace(line[:flatFirstWidth]),
		LastName:  strings.TrimSpace(line[flatFirstWidth : flatFirstWidth+flatLastWidth]),
		Terms:     terms,
	}}
}

func (FlatParser) ParseInvoices(lines []string, byName map[string]*model.Customer) []InvoiceRecord {
	records := make([]InvoiceRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, parseFlatInvoice(line, byName))
	}
	return records
}

func parseFlatInvoice(line string, byName map[string]*model.Customer) InvoiceRecord {
	if len(line) < flatInvoiceLen {
		return InvoiceRecord{Err: badRecord(line, "want %d columns, got %d", flatInvoiceLen, len(line))}
	}
	col := 0
	next := func(width int) string {
		field := line[col : col+width]
		col += width
		return field
	}
	number, err := strconv.Atoi(strings.TrimSpace(next(flatNumberWidth)))
	if err != nil {
		return InvoiceRecord{Err: badRecord(line, "bad invoice number")}
	}
	first := strings.TrimSpace(next(flatFirstWidth))
	last := strings.TrimSpace(next(flatLastWidth))
	customer, ok := byName[first+" "+last]
	if !ok {
		return InvoiceRecord{Err: badRecord(line, "%v: %s %s", model.ErrNoSuchCustomer, first, last)}
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(next(flatAmountWidth)))
	if err != nil || amount.IsNegative() {
		return InvoiceRecord{Err: badRecord(line, "bad amount")}
	}
	date, err := time.Parse(flatDate, next(flatDateWidth))
	if err != nil {
		return InvoiceRecord{Err: badRecord(line, "bad invoice date")}
	}
	var paid *time.Time
	if field := next(flatDateWidth); strings.TrimSpace(field) != "" {
		p, err := time.Parse(flatDate, field)
		if err != nil {
			return InvoiceRecord{Err: badRecord(line, "bad paid date")}
		}
		paid = &p
	}
	return InvoiceRecord{Invoice: &model.Invoice{
		Number:   number,
		Customer: customer,
		Amount:   amount,
		Date:     date,
		PaidDate: paid,
	}}
}

func (FlatParser) ProduceCustomers(customers []*model.Customer) []string {
	lines := make([]string, 0, len(customers))
	for _, c := range customers {
		lines = append(lines, fmt.Sprintf("%-*s%-*s%-*s",
			flatFirstWidth, c.FirstName, flatLastWidth, c.LastName,
			flatTermsWidth, c.Terms))
	}
	return lines
}

func (FlatParser) ProduceInvoices(invoices []*model.Invoice) []string {
	lines := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		paid := strings.Repeat(" ", flatDateWidth)
		if inv.PaidDate != nil {
			paid = inv.PaidDate.Format(flatDate)
		}
		lines = append(lines, fmt.Sprintf("%*d%-*s%-*s%*s%s%s",
			flatNumberWidth, inv.Number,
			flatFirstWidth, inv.Customer.FirstName,
			flatLastWidth, inv.Customer.LastName,
			flatAmountWidth, inv.Amount.StringFixed(2),
			inv.Date.Format(flatDate), paid))
	}
	return lines
}
