package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acunningham2/billing/internal/model"
)

var quotedCustomerLines = []string{
	`"Customer","One",CASH`,
	`"Customer","Two",45`,
	`"Customer","Three",30`,
}

// Quoted amounts carry no fraction when the amount is whole.
var quotedInvoiceLines = []string{
	`1,"Customer","One",100,2022-01-04`,
	`2,"Customer","Two",200,2022-01-04,2022-01-05`,
	`3,"Customer","Two",300,2022-01-06`,
	`4,"Customer","Two",400,2021-11-11`,
	`5,"Customer","Three",500,2022-01-04,2022-01-08`,
	`6,"Customer","Three",600,2021-12-04`,
}

func TestQuotedParseCustomers(t *testing.T) {
	requireCustomers(t, QuotedParser{}.ParseCustomers(quotedCustomerLines), testCustomers())
}

func TestQuotedParseCustomers_AcceptsTermsTokens(t *testing.T) {
	records := QuotedParser{}.ParseCustomers([]string{`"Customer","Two",CREDIT_45`})
	require.Len(t, records, 1)
	require.NoError(t, records[0].Err)
	assert.Equal(t, model.TermsCredit45, records[0].Customer.Terms)
}

func TestQuotedParseCustomers_Bad(t *testing.T) {
	lines := []string{
		`"Customer","One",CASHY_MONEY`,
		`Customer,Two`,
		`Customer,Two,45`,
		`"Customer","Three",30`,
	}
	records := QuotedParser{}.ParseCustomers(lines)
	require.Len(t, records, 4)
	assert.ErrorIs(t, records[0].Err, model.ErrBadRecord)
	assert.ErrorIs(t, records[1].Err, model.ErrBadRecord)
	assert.ErrorIs(t, records[2].Err, model.ErrBadRecord) // unquoted names
	assert.NoError(t, records[3].Err)
}

func TestQuotedParseInvoices(t *testing.T) {
	requireInvoices(t, QuotedParser{}.ParseInvoices(quotedInvoiceLines, testCustomersByName()), testInvoices())
}

func TestQuotedParseInvoices_Bad(t *testing.T) {
	lines := []string{
		`1,"Customer","One",100,2022-01-04`,
		`3,Customer,Two,300.00`,
		`4,"Customer","Four",400.00,2021-11-11`,
		`5,"Customer","Three",500.00,2022-01-04,20220108`,
	}
	records := QuotedParser{}.ParseInvoices(lines, testCustomersByName())
	require.Len(t, records, 4)
	assert.NoError(t, records[0].Err)
	assert.ErrorIs(t, records[1].Err, model.ErrBadRecord)
	assert.ErrorIs(t, records[2].Err, model.ErrNoSuchCustomer)
	assert.ErrorIs(t, records[3].Err, model.ErrBadRecord) // paid date not ISO
}

func TestQuotedProduceCustomers(t *testing.T) {
	assert.Equal(t, quotedCustomerLines, QuotedParser{}.ProduceCustomers(testCustomers()))
}

func TestQuotedProduceInvoices(t *testing.T) {
	assert.Equal(t, quotedInvoiceLines, QuotedParser{}.ProduceInvoices(testInvoices()))
}

func TestQuotedProduceInvoices_FractionalAmount(t *testing.T) {
	inv := &model.Invoice{
		Number:   7,
		Customer: testCustomers()[0],
		Amount:   amt("1234.5"),
		Date:     testInvoices()[0].Date,
	}
	lines := QuotedParser{}.ProduceInvoices([]*model.Invoice{inv})
	require.Len(t, lines, 1)
	assert.Equal(t, `7,"Customer","One",1234.50,2022-01-04`, lines[0])
}

func TestQuotedRoundTrip(t *testing.T) {
	parser := QuotedParser{}

	records := parser.ParseCustomers(quotedCustomerLines)
	customers := make([]*model.Customer, len(records))
	for i, rec := range records {
		require.NoError(t, rec.Err)
		customers[i] = rec.Customer
	}
	assert.Equal(t, quotedCustomerLines, parser.ProduceCustomers(customers))

	invRecords := parser.ParseInvoices(quotedInvoiceLines, testCustomersByName())
	invoices := make([]*model.Invoice, len(invRecords))
	for i, rec := range invRecords {
		require.NoError(t, rec.Err)
		invoices[i] = rec.Invoice
	}
	assert.Equal(t, quotedInvoiceLines, parser.ProduceInvoices(invoices))
}
