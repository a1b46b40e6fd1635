package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Terms enumerates the payment agreements a customer can hold.
type Terms string

const (
	TermsCash     Terms = "CASH"
	TermsCredit30 Terms = "CREDIT_30"
	TermsCredit45 Terms = "CREDIT_45"
)

// Days returns the net-due offset from the invoice date.
func (t Terms) Days() int {
	switch t {
	case TermsCredit30:
		return 30
	case TermsCredit45:
		return 45
	}
	return 0
}

// ParseTerms maps a terms token to its value, rejecting anything outside the
// closed set.
func ParseTerms(s string) (Terms, error) {
	switch Terms(s) {
	case TermsCash, TermsCredit30, TermsCredit45:
		return Terms(s), nil
	}
	return "", fmt.Errorf("unknown terms %q", s)
}

// TermsFromDays maps a net-due day count back to its terms value.
func TermsFromDays(days int) (Terms, error) {
	switch days {
	case 0:
		return TermsCash, nil
	case 30:
		return TermsCredit30, nil
	case 45:
		return TermsCredit45, nil
	}
	return "", fmt.Errorf("no terms due in %d days", days)
}

// Customer model. The full name is the natural key; two customers are the
// same customer iff their names match.
type Customer struct {
	FirstName string
	LastName  string
	Terms     Terms
}

// Name returns the natural key, first and last name separated by a space.
func (c Customer) Name() string {
	return c.FirstName + " " + c.LastName
}

// Equal reports whether both values identify the same customer.
func (c Customer) Equal(o Customer) bool {
	return c.Name() == o.Name()
}

func (c Customer) String() string {
	return "Customer: " + c.Name()
}

// Invoice model. PaidDate stays nil until the invoice is paid and is never
// cleared or changed afterwards.
type Invoice struct {
	Number   int
	Customer *Customer
	Amount   decimal.Decimal
	Date     time.Time
	PaidDate *time.Time
}

// Paid reports whether the invoice has been paid.
func (i *Invoice) Paid() bool {
	return i.PaidDate != nil
}

// DueDate returns the invoice date shifted by the customer's terms.
func (i *Invoice) DueDate() time.Time {
	return i.Date.AddDate(0, 0, i.Customer.Terms.Days())
}

// OverdueAsOf reports whether the invoice is unpaid and past due on the
// given date.
func (i *Invoice) OverdueAsOf(asOf time.Time) bool {
	return !i.Paid() && i.DueDate().Before(asOf)
}

// Equal compares all fields.
func (i *Invoice) Equal(o *Invoice) bool {
	if i == nil || o == nil {
		return i == o
	}
	if i.Number != o.Number || !i.Amount.Equal(o.Amount) || !i.Date.Equal(o.Date) {
		return false
	}
	if (i.PaidDate == nil) != (o.PaidDate == nil) {
		return false
	}
	if i.PaidDate != nil && !i.PaidDate.Equal(*o.PaidDate) {
		return false
	}
	if (i.Customer == nil) != (o.Customer == nil) {
		return false
	}
	return i.Customer == nil || *i.Customer == *o.Customer
}

func (i *Invoice) String() string {
	return fmt.Sprintf("Invoice %d: %s for %s", i.Number, i.Amount.StringFixed(2), i.Customer.Name())
}

// Date builds a date-only time value in UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
