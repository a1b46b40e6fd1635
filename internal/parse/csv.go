package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acunningham2/billing/internal/model"
)

const isoDate = "2006-01-02"

// CSVParser handles the plain comma-delimited encoding: unquoted fields,
// terms as enumeration tokens, dates in ISO form.
//
//	First,Last,CREDIT_30
//	1,First,Last,100.00,2022-01-04[,2022-01-05]
type CSVParser struct{}

func (CSVParser) ParseCustomers(lines []string) []CustomerRecord {
	records := make([]CustomerRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, parseCSVCustomer(line))
	}
	return records
}

func parseCSVCustomer(line string) CustomerRecord {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return CustomerRecord{Err: badRecord(line, "want 3 fields, got %d", len(fields))}
	}
	terms, err := model.ParseTerms(fields[2])
	if err != nil {
		return CustomerRecord{Err: badRecord(line, "%v", err)}
	}
	return CustomerRecord{Customer: &model.Customer{
		FirstName: fields[0],
		LastName:  fields[1],
		Terms:     terms,
	}}
}

func (CSVParser) ParseInvoices(lines []string, byName map[string]*model.Customer) []InvoiceRecord {
	records := make([]InvoiceRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, parseCSVInvoice(line, byName))
	}
	return records
}

func parseCSVInvoice(line string, byName map[string]*model.Customer) InvoiceRecord {
	fields := strings.Split(line, ",")
	if len(fields) < 5 || len(fields) > 6 {
		return InvoiceRecord{Err: badRecord(line, "want 5 or 6 fields, got %d", len(fields))}
	}
	number, err := strconv.Atoi(fields[0])
	if err != nil {
		return InvoiceRecord{Err: badRecord(line, "bad invoice number %q", fields[0])}
	}
	customer, ok := byName[fields[1]+" "+fields[2]]
	if !ok {
		return InvoiceRecord{Err: badRecord(line, "%v: %s %s", model.ErrNoSuchCustomer, fields[1], fields[2])}
	}
	amount, err := decimal.NewFromString(fields[3])
	if err != nil || amount.IsNegative() {
		return InvoiceRecord{Err: badRecord(line, "bad amount %q", fields[3])}
	}
	date, err := time.Parse(isoDate, fields[4])
	if err != nil {
		return InvoiceRecord{Err: badRecord(line, "bad invoice date %q", fields[4])}
	}
	var paid *time.Time
	if len(fields) == 6 && fields[5] != "" {
		p, err := time.Parse(isoDate, fields[5])
		if err != nil {
			return InvoiceRecord{Err: badRecord(line, "bad paid date %q", fields[5])}
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

func (CSVParser) ProduceCustomers(customers []*model.Customer) []string {
	lines := make([]string, 0, len(customers))
	for _, c := range customers {
		lines = append(lines, fmt.Sprintf("%s,%s,%s", c.FirstName, c.LastName, c.Terms))
	}
	return lines
}

func (CSVParser) ProduceInvoices(invoices []*model.Invoice) []string {
	lines := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		line := fmt.Sprintf("%d,%s,%s,%s,%s", inv.Number,
			inv.Customer.FirstName, inv.Customer.LastName,
			inv.Amount.StringFixed(2), inv.Date.Format(isoDate))
		if inv.PaidDate != nil {
			line += "," + inv.PaidDate.Format(isoDate)
		}
		lines = append(lines, line)
	}
	return lines
}
