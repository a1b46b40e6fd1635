// Package store keeps an authoritative in-memory mirror of a backing store
// and writes mutations through to it. Backing stores plug in behind the
// Source port; the Cache owns the mirror and the write-back contract.
package store

import (
	"context"

	"github.com/acunningham2/billing/internal/model"
)

// Source supplies the four primitives a backing store must implement.
type Source interface {
	// ReadCustomers returns every customer in the store.
	ReadCustomers(ctx context.Context) ([]*model.Customer, error)

	// ReadInvoices returns every invoice whose customer resolves against
	// byName; unresolvable invoices are dropped.
	ReadInvoices(ctx context.Context, byName map[string]*model.Customer) ([]*model.Invoice, error)

	// WriteCustomer durably stores one new customer.
	WriteCustomer(ctx context.Context, c *model.Customer) error

	// WriteInvoice durably stores one new or changed invoice. Stores without
	// in-place record edits rewrite themselves from all (the post-write
	// mirror, ordered by number) when update is true; keyed stores upsert
	// inv and ignore all.
	WriteInvoice(ctx context.Context, inv *model.Invoice, update bool, all []*model.Invoice) error
}
