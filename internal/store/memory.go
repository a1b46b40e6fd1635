package store

import (
	"context"
	"slices"

	"github.com/acunningham2/billing/internal/model"
)

// MemorySource holds the data set in process memory. It serves as a test
// double and as a throwaway migration endpoint.
type MemorySource struct {
	customers []*model.Customer
	invoices  []*model.Invoice
}

func NewMemorySource() *MemorySource {
	return &MemorySource{}
}

// Seed preloads the source, for tests.
func (s *MemorySource) Seed(customers []*model.Customer, invoices []*model.Invoice) {
	s.customers = slices.Clone(customers)
	s.invoices = slices.Clone(invoices)
}

func (s *MemorySource) ReadCustomers(ctx context.Context) ([]*model.Customer, error) {
	return slices.Clone(s.customers), nil
}

func (s *MemorySource) ReadInvoices(ctx context.Context, byName map[string]*model.Customer) ([]*model.Invoice, error) {
	var out []*model.Invoice
	for _, inv := range s.invoices {
		customer, ok := byName[inv.Customer.Name()]
		if !ok {
			continue
		}
		resolved := *inv
		resolved.Customer = customer
		out = append(out, &resolved)
	}
	return out, nil
}

func (s *MemorySource) WriteCustomer(ctx context.Context, c *model.Customer) error {
	s.customers = append(s.customers, c)
	return nil
}

func (s *MemorySource) WriteInvoice(ctx context.Context, inv *model.Invoice, update bool, all []*model.Invoice) error {
	if update {
		for i, existing := range s.invoices {
			if existing.Number == inv.Number {
				s.invoices[i] = inv
				return nil
			}
		}
	}
	s.invoices = append(s.invoices, inv)
	return nil
}
