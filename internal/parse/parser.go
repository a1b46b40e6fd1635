// Package parse translates line-oriented text encodings of the ledger to and
// from domain objects. Each codec decodes one record per line and isolates
// failures: a line that cannot be decoded yields a record carrying an error
// in place of the entity, without aborting the rest of the batch.
package parse

import (
	"fmt"

	"github.com/acunningham2/billing/internal/model"
)

// Parser is one text encoding of customers and invoices. Producing the
// output of a successful parse yields the original lines again.
type Parser interface {
	ParseCustomers(lines []string) []CustomerRecord
	ParseInvoices(lines []string, byName map[string]*model.Customer) []InvoiceRecord
	ProduceCustomers(customers []*model.Customer) []string
	ProduceInvoices(invoices []*model.Invoice) []string
}

// CustomerRecord is the outcome of decoding a single customer line. Exactly
// one of Customer and Err is set; failed lines keep their position in the
// batch.
type CustomerRecord struct {
	Customer *model.Customer
	Err      error
}

// InvoiceRecord is the outcome of decoding a single invoice line.
type InvoiceRecord struct {
	Invoice *model.Invoice
	Err     error
}

func badRecord(line, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %q", model.ErrBadRecord, fmt.Sprintf(format, args...), line)
}
