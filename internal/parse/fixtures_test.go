package parse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/acunningham2/billing/internal/model"
)

// The shared data set behind every codec's fixtures: three customers, six
// invoices spread over several months, numbers 2 and 5 paid.

func testCustomers() []*model.Customer {
	return []*model.Customer{
		{FirstName: "Customer", LastName: "One", Terms: model.TermsCash},
		{FirstName: "Customer", LastName: "Two", Terms: model.TermsCredit45},
		{FirstName: "Customer", LastName: "Three", Terms: model.TermsCredit30},
	}
}

func testCustomersByName() map[string]*model.Customer {
	byName := make(map[string]*model.Customer)
	for _, c := range testCustomers() {
		byName[c.Name()] = c
	}
	return byName
}

func testInvoices() []*model.Invoice {
	byName := testCustomersByName()
	one := byName["Customer One"]
	two := byName["Customer Two"]
	three := byName["Customer Three"]
	paid2 := model.Date(2022, time.January, 5)
	paid5 := model.Date(2022, time.January, 8)
	return []*model.Invoice{
		{Number: 1, Customer: one, Amount: amt("100.00"), Date: model.Date(2022, time.January, 4)},
		{Number: 2, Customer: two, Amount: amt("200.00"), Date: model.Date(2022, time.January, 4), PaidDate: &paid2},
		{Number: 3, Customer: two, Amount: amt("300.00"), Date: model.Date(2022, time.January, 6)},
		{Number: 4, Customer: two, Amount: amt("400.00"), Date: model.Date(2021, time.November, 11)},
		{Number: 5, Customer: three, Amount: amt("500.00"), Date: model.Date(2022, time.January, 4), PaidDate: &paid5},
		{Number: 6, Customer: three, Amount: amt("600.00"), Date: model.Date(2021, time.December, 4)},
	}
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireCustomers(t *testing.T, records []CustomerRecord, want []*model.Customer) {
	t.Helper()
	require.Len(t, records, len(want))
	for i, rec := range records {
		require.NoError(t, rec.Err, "record %d", i)
		require.Equal(t, *want[i], *rec.Customer, "record %d", i)
	}
}

func requireInvoices(t *testing.T, records []InvoiceRecord, want []*model.Invoice) {
	t.Helper()
	require.Len(t, records, len(want))
	for i, rec := range records {
		require.NoError(t, rec.Err, "record %d", i)
		require.True(t, want[i].Equal(rec.Invoice), "record %d: want %v, got %v", i, want[i], rec.Invoice)
	}
}
