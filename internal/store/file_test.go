package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acunningham2/billing/internal/model"
	"github.com/acunningham2/billing/internal/parse"
)

func newFileCache(t *testing.T, customersPath, invoicesPath string) *Cache {
	t.Helper()
	cache := NewCache(NewFileSource(customersPath, invoicesPath, parse.NewRegistry(), nil), nil)
	require.NoError(t, cache.Load(context.Background()))
	return cache
}

func TestFileSourceLoad(t *testing.T) {
	customersPath, invoicesPath := writeDataFiles(t,
		"customers.csv", "invoices.csv", testCustomersCSV, testInvoicesCSV)
	cache := newFileCache(t, customersPath, invoicesPath)

	assert.Len(t, cache.Customers(), 3)
	assert.Len(t, cache.Invoices(), 6)
}

func TestFileSourceLoad_DropsBadLines(t *testing.T) {
	customers := append([]string{"Customer,Zero"}, testCustomersCSV...)
	invoices := append([]string{"x,Customer,One,1.00,2022-01-04"}, testInvoicesCSV...)
	customersPath, invoicesPath := writeDataFiles(t, "customers.csv", "invoices.csv", customers, invoices)
	cache := newFileCache(t, customersPath, invoicesPath)

	assert.Len(t, cache.Customers(), 3)
	assert.Len(t, cache.Invoices(), 6)
}

func TestFileSourceLoad_MissingFilesReadEmpty(t *testing.T) {
	dir := t.TempDir()
	cache := newFileCache(t, filepath.Join(dir, "customers.csv"), filepath.Join(dir, "invoices.csv"))

	assert.Empty(t, cache.Customers())
	assert.Empty(t, cache.Invoices())
}

func TestFileSourceAppendsCustomer(t *testing.T) {
	customersPath, invoicesPath := writeDataFiles(t,
		"customers.csv", "invoices.csv", testCustomersCSV, testInvoicesCSV)
	cache := newFileCache(t, customersPath, invoicesPath)

	err := cache.SaveCustomer(context.Background(),
		&model.Customer{FirstName: "Adam", LastName: "C", Terms: model.TermsCash})
	require.NoError(t, err)

	lines := fileLines(t, customersPath)
	require.Len(t, lines, 4)
	assert.Equal(t, "Adam,C,CASH", lines[3])
}

func TestFileSourceAppendsNewInvoice(t *testing.T) {
	customersPath, invoicesPath := writeDataFiles(t,
		"customers.csv", "invoices.csv", testCustomersCSV, testInvoicesCSV)
	cache := newFileCache(t, customersPath, invoicesPath)

	customer, ok := cache.Customer("Customer One")
	require.True(t, ok)
	inv := &model.Invoice{Customer: customer, Amount: amt("999.00"), Date: model.Date(2022, time.February, 1)}
	require.NoError(t, cache.SaveInvoice(context.Background(), inv))

	lines := fileLines(t, invoicesPath)
	require.Len(t, lines, 7)
	assert.Equal(t, "7,Customer,One,999.00,2022-02-01", lines[6])
}

func TestFileSourceRewritesOnUpdate(t *testing.T) {
	customersPath, invoicesPath := writeDataFiles(t,
		"customers.csv", "invoices.csv", testCustomersCSV, testInvoicesCSV)
	cache := newFileCache(t, customersPath, invoicesPath)

	existing, ok := cache.Invoice(1)
	require.True(t, ok)
	paid := *existing
	date := model.Date(2022, time.January, 10)
	paid.PaidDate = &date
	require.NoError(t, cache.SaveInvoice(context.Background(), &paid))

	lines := fileLines(t, invoicesPath)
	require.Len(t, lines, 6)
	assert.Equal(t, "1,Customer,One,100.00,2022-01-04,2022-01-10", lines[0])
	// Untouched lines survive the rewrite byte for byte.
	assert.Equal(t, testInvoicesCSV[1:], lines[1:])
}

func TestFileSourceFlatExtension(t *testing.T) {
	flatCustomers := []string{
		"Customer    One         CASH      ",
		"Customer    Two         CREDIT_45 ",
	}
	flatInvoices := []string{
		"   1Customer    One           100.00010422      ",
	}
	customersPath, invoicesPath := writeDataFiles(t,
		"customers.flat", "invoices.flat", flatCustomers, flatInvoices)
	cache := newFileCache(t, customersPath, invoicesPath)

	require.Len(t, cache.Customers(), 2)
	require.Len(t, cache.Invoices(), 1)

	err := cache.SaveCustomer(context.Background(),
		&model.Customer{FirstName: "Adam", LastName: "C", Terms: model.TermsCash})
	require.NoError(t, err)
	lines := fileLines(t, customersPath)
	assert.Equal(t, "Adam        C           CASH      ", lines[2])
	assert.False(t, strings.Contains(lines[2], ","))
}
