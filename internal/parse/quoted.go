package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acunningham2/billing/internal/model"
)

// QuotedParser handles the comma-delimited encoding with quoted name fields.
// Credit terms appear as their due-day integer rather than the enumeration
// token; CASH stays a plain token.
//
//	"First","Last",45
//	1,"First","Last",100,2022-01-04[,2022-01-05]
type QuotedParser struct{}

func unquote(s string) (string, error) {
	if len(s) < 2 || !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, `"`) {
		return "", fmt.Errorf("field %s is not quoted", s)
	}
	return s[1 : len(s)-1], nil
}

func parseQuotedTerms(token string) (model.Terms, error) {
	if terms, err := model.ParseTerms(token); err == nil {
		return terms, nil
	}
	days, err := strconv.Atoi(token)
	if err != nil {
		return "", fmt.Errorf("unknown terms %q", token)
	}
	return model.TermsFromDays(days)
}

func (QuotedParser) ParseCustomers(lines []string) []CustomerRecord {
	records := make([]CustomerRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, parseQuotedCustomer(line))
	}
	return records
}

func parseQuotedCustomer(line string) CustomerRecord {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return CustomerRecord{Err: badRecord(line, "want 3 fields, got %d", len(fields))}
	}
	first, err := unquote(fields[0])
	if err != nil {
		return CustomerRecord{Err: badRecord(line, "%v", err)}
	}
	last, err := unquote(fields[1])
	if err != nil {
		return CustomerRecord{Err: badRecord(line, "%v", err)}
	}
	terms, err := parseQuotedTerms(fields[2])
	if err != nil {
		return CustomerRecord{Err: badRecord(line, "%v", err)}
	}
	return CustomerRecord{Customer: &model.Customer{
		FirstName: first,
		LastName:  last,
		Terms:     terms,
	}}
}

func (QuotedParser) ParseInvoices(lines []string, byName map[string]*model.Customer) []InvoiceRecord {
	records := make([]InvoiceRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, parseQuotedInvoice(line, byName))
	}
	return records
}

func parseQuotedInvoice(line string, byName map[string]*model.Customer) InvoiceRecord {
	fields := strings.Split(line, ",")
	if len(fields) < 5 || len(fields) > 6 {
		return InvoiceRecord{Err: badRecord(line, "want 5 or 6 fields, got %d", len(fields))}
	}
	number, err := strconv.Atoi(fields[0])
	if err != nil {
		return InvoiceRecord{Err: badRecord(line, "bad invoice number %q", fields[0])}
	}
	first, err := unquote(fields[1])
	if err != nil {
		return InvoiceRecord{Err: badRecord(line, "%v", err)}
	}
	last, err := unquote(fields[2])
	if err != nil {
		return InvoiceRecord{Err: badRecord(line, "%v", err)}
	}
	customer, ok := byName[first+" "+last]
	if !ok {
		return InvoiceRecord{Err: badRecord(line, "%v: %s %s", model.ErrNoSuchCustomer, first, last)}
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
		p, err := time.Parse(isoDate, strings.Trim(fields[5], `"`))
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

// quotedAmount renders whole amounts without a fraction; anything else
// gets the usual two decimals.
func quotedAmount(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.String()
	}
	return d.StringFixed(2)
}

func quotedTerms(t model.Terms) string {
	if t == model.TermsCash {
		return string(t)
	}
	return strconv.Itoa(t.Days())
}

func (QuotedParser) ProduceCustomers(customers []*model.Customer) []string {
	lines := make([]string, 0, len(customers))
	for _, c := range customers {
		lines = append(lines, fmt.Sprintf("%q,%q,%s", c.FirstName, c.LastName, quotedTerms(c.Terms)))
	}
	return lines
}

func (QuotedParser) ProduceInvoices(invoices []*model.Invoice) []string {
	lines := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		line := fmt.Sprintf("%d,%q,%q,%s,%s", inv.Number,
			inv.Customer.FirstName, inv.Customer.LastName,
			quotedAmount(inv.Amount), inv.Date.Format(isoDate))
		if inv.PaidDate != nil {
			line += "," + inv.PaidDate.Format(isoDate)
		}
		lines = append(lines, line)
	}
	return lines
}
