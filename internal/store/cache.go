package store

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/acunningham2/billing/internal/model"
)

// Cache mirrors a Source in memory. Reads are served from the mirror;
// mutations are written to the source first and reach the mirror only after
// the write succeeds, so a failed write leaves the last-known-good state.
//
// Cache is not safe for concurrent use; the owning facade serializes access.
type Cache struct {
	src Source
	log *slog.Logger

	customers map[string]*model.Customer
	invoices  map[int]*model.Invoice
}

// NewCache builds an empty cache over the given source. Call Load before
// serving reads.
func NewCache(src Source, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		src:       src,
		log:       log,
		customers: make(map[string]*model.Customer),
		invoices:  make(map[int]*model.Invoice),
	}
}

// Load discards the mirror and repopulates it from the source. Duplicate
// customer names are last-write-wins; duplicate invoice numbers likewise.
func (c *Cache) Load(ctx context.Context) error {
	customers, err := c.src.ReadCustomers(ctx)
	if err != nil {
		return fmt.Errorf("load customers: %w", err)
	}
	byName := make(map[string]*model.Customer, len(customers))
	for _, cust := range customers {
		byName[cust.Name()] = cust
	}
	invoices, err := c.src.ReadInvoices(ctx, byName)
	if err != nil {
		return fmt.Errorf("load invoices: %w", err)
	}
	byNumber := make(map[int]*model.Invoice, len(invoices))
	for _, inv := range invoices {
		byNumber[inv.Number] = inv
	}
	c.customers = byName
	c.invoices = byNumber
	c.log.Debug("mirror loaded",
		slog.Int("customers", len(byName)), slog.Int("invoices", len(byNumber)))
	return nil
}

// Customers returns a snapshot of the mirror keyed by full name.
func (c *Cache) Customers() map[string]*model.Customer {
	return maps.Clone(c.customers)
}

// Invoices returns a snapshot of the mirror ordered by invoice number.
func (c *Cache) Invoices() []*model.Invoice {
	out := make([]*model.Invoice, 0, len(c.invoices))
	for _, inv := range c.invoices {
		out = append(out, inv)
	}
	slices.SortFunc(out, func(a, b *model.Invoice) int { return a.Number - b.Number })
	return out
}

// Customer looks up one customer by full name.
func (c *Cache) Customer(name string) (*model.Customer, bool) {
	cust, ok := c.customers[name]
	return cust, ok
}

// Invoice looks up one invoice by number.
func (c *Cache) Invoice(number int) (*model.Invoice, bool) {
	inv, ok := c.invoices[number]
	return inv, ok
}

// SaveCustomer writes one new customer through to the source and then
// mirrors it. A name collision is rejected before anything is written.
func (c *Cache) SaveCustomer(ctx context.Context, cust *model.Customer) error {
	if _, ok := c.customers[cust.Name()]; ok {
		return fmt.Errorf("%w: %s", model.ErrDuplicateCustomer, cust.Name())
	}
	if err := c.src.WriteCustomer(ctx, cust); err != nil {
		return fmt.Errorf("write customer %s: %w", cust.Name(), err)
	}
	c.customers[cust.Name()] = cust
	return nil
}

// SaveInvoice writes one invoice through to the source and then mirrors it.
// An invoice with number 0 is new and gets the next sequential number; a
// number already in the mirror makes this an update of that invoice.
func (c *Cache) SaveInvoice(ctx context.Context, inv *model.Invoice) error {
	if inv.Number == 0 {
		inv.Number = c.nextInvoiceNumber()
	}
	_, update := c.invoices[inv.Number]
	if err := c.src.WriteInvoice(ctx, inv, update, c.invoicesWith(inv)); err != nil {
		return fmt.Errorf("write invoice %d: %w", inv.Number, err)
	}
	c.invoices[inv.Number] = inv
	return nil
}

// invoicesWith returns the mirror as it will look once inv is applied,
// ordered by number, for sources that rewrite wholesale.
func (c *Cache) invoicesWith(inv *model.Invoice) []*model.Invoice {
	all := make([]*model.Invoice, 0, len(c.invoices)+1)
	for number, existing := range c.invoices {
		if number != inv.Number {
			all = append(all, existing)
		}
	}
	all = append(all, inv)
	slices.SortFunc(all, func(a, b *model.Invoice) int { return a.Number - b.Number })
	return all
}

func (c *Cache) nextInvoiceNumber() int {
	next := 1
	for number := range c.invoices {
		if number >= next {
			next = number + 1
		}
	}
	return next
}
