package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/acunningham2/billing/internal/model"
)

var (
	testCustomersCSV = []string{
		"Customer,One,CASH",
		"Customer,Two,CREDIT_45",
		"Customer,Three,CREDIT_30",
	}
	testInvoicesCSV = []string{
		"1,Customer,One,100.00,2022-01-04",
		"2,Customer,Two,200.00,2022-01-04,2022-01-05",
		"3,Customer,Two,300.00,2022-01-06",
		"4,Customer,Two,400.00,2021-11-11",
		"5,Customer,Three,500.00,2022-01-04,2022-01-08",
		"6,Customer,Three,600.00,2021-12-04",
	}
)

func testCustomers() []*model.Customer {
	return []*model.Customer{
		{FirstName: "Customer", LastName: "One", Terms: model.TermsCash},
		{FirstName: "Customer", LastName: "Two", Terms: model.TermsCredit45},
		{FirstName: "Customer", LastName: "Three", Terms: model.TermsCredit30},
	}
}

func testInvoices(customers []*model.Customer) []*model.Invoice {
	paid2 := model.Date(2022, time.January, 5)
	paid5 := model.Date(2022, time.January, 8)
	return []*model.Invoice{
		{Number: 1, Customer: customers[0], Amount: amt("100.00"), Date: model.Date(2022, time.January, 4)},
		{Number: 2, Customer: customers[1], Amount: amt("200.00"), Date: model.Date(2022, time.January, 4), PaidDate: &paid2},
		{Number: 3, Customer: customers[1], Amount: amt("300.00"), Date: model.Date(2022, time.January, 6)},
		{Number: 4, Customer: customers[1], Amount: amt("400.00"), Date: model.Date(2021, time.November, 11)},
		{Number: 5, Customer: customers[2], Amount: amt("500.00"), Date: model.Date(2022, time.January, 4), PaidDate: &paid5},
		{Number: 6, Customer: customers[2], Amount: amt("600.00"), Date: model.Date(2021, time.December, 4)},
	}
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seededMemorySource() *MemorySource {
	src := NewMemorySource()
	customers := testCustomers()
	src.Seed(customers, testInvoices(customers))
	return src
}

// writeDataFiles stages the fixture files in a temp dir and returns their
// paths.
func writeDataFiles(t *testing.T, customersName, invoicesName string, customers, invoices []string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	customersPath := filepath.Join(dir, customersName)
	invoicesPath := filepath.Join(dir, invoicesName)
	require.NoError(t, os.WriteFile(customersPath, []byte(strings.Join(customers, "\n")+"\n"), 0o644))
	require.NoError(t, os.WriteFile(invoicesPath, []byte(strings.Join(invoices, "\n")+"\n"), 0o644))
	return customersPath, invoicesPath
}

func fileLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
