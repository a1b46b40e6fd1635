// Package billing is the public entry point to the ledger: derived queries,
// the create/pay mutations, and synchronous change notification.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/acunningham2/billing/internal/model"
	"github.com/acunningham2/billing/internal/store"
)

// Billing handles ledger business logic over a cached store. All operations
// serialize on one mutex; listeners fire after the mutation is durable, on
// the caller's goroutine, outside the lock.
type Billing struct {
	mu    sync.Mutex
	store *store.Cache
	log   *slog.Logger
	now   func() time.Time

	customerListeners []listener[*model.Customer]
	invoiceListeners  []listener[*model.Invoice]
}

type listener[T any] struct {
	id uuid.UUID
	fn func(T)
}

// New builds a Billing facade over the given cache. Call Load before use.
func New(st *store.Cache, log *slog.Logger) *Billing {
	if log == nil {
		log = slog.Default()
	}
	return &Billing{store: st, log: log, now: time.Now}
}

// Load discards and repopulates the underlying mirror.
func (b *Billing) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Load(ctx)
}

// Customers returns the customers keyed by full name.
func (b *Billing) Customers() map[string]*model.Customer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Customers()
}

// Invoices returns the invoices ordered by number.
func (b *Billing) Invoices() []*model.Invoice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Invoices()
}

// InvoicesOrderedByNumber returns the invoices in ascending number order.
func (b *Billing) InvoicesOrderedByNumber() []*model.Invoice {
	return b.Invoices()
}

// InvoicesOrderedByDate returns the invoices in ascending date order,
// ties broken by number.
func (b *Billing) InvoicesOrderedByDate() []*model.Invoice {
	invoices := b.Invoices()
	slices.SortFunc(invoices, compareByDate)
	return invoices
}

func compareByDate(a, b *model.Invoice) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return a.Number - b.Number
}

// InvoicesGroupedByCustomer maps each customer to their invoices in number
// order.
func (b *Billing) InvoicesGroupedByCustomer() map[model.Customer][]*model.Invoice {
	groups := make(map[model.Customer][]*model.Invoice)
	for _, inv := range b.Invoices() {
		groups[*inv.Customer] = append(groups[*inv.Customer], inv)
	}
	return groups
}

// OverdueInvoices returns the unpaid invoices past their terms offset on
// asOf, in ascending date order.
func (b *Billing) OverdueInvoices(asOf time.Time) []*model.Invoice {
	var overdue []*model.Invoice
	for _, inv := range b.InvoicesOrderedByDate() {
		if inv.OverdueAsOf(asOf) {
			overdue = append(overdue, inv)
		}
	}
	return overdue
}

// CustomerAndVolume pairs a customer with their total billed amount.
type CustomerAndVolume struct {
	Customer *model.Customer
	Volume   decimal.Decimal
}

// CustomersAndVolume sums invoice amounts per customer, ordered by
// descending volume with name as tiebreaker.
func (b *Billing) CustomersAndVolume() []CustomerAndVolume {
	b.mu.Lock()
	customers := b.store.Customers()
	invoices := b.store.Invoices()
	b.mu.Unlock()

	volumes := make(map[string]decimal.Decimal, len(customers))
	for _, inv := range invoices {
		name := inv.Customer.Name()
		volumes[name] = volumes[name].Add(inv.Amount)
	}
	out := make([]CustomerAndVolume, 0, len(customers))
	for name, customer := range customers {
		out = append(out, CustomerAndVolume{Customer: customer, Volume: volumes[name]})
	}
	slices.SortFunc(out, func(a, b CustomerAndVolume) int {
		if c := b.Volume.Cmp(a.Volume); c != 0 {
			return c
		}
		return strings.Compare(a.Customer.Name(), b.Customer.Name())
	})
	return out
}

// CreateCustomer adds a new customer and notifies customer listeners once
// the record is durable. The derived full name must not collide with an
// existing customer.
func (b *Billing) CreateCustomer(ctx context.Context, firstName, lastName string, terms model.Terms) (*model.Customer, error) {
	if firstName == "" || lastName == "" {
		return nil, errors.New("first and last name required")
	}
	if _, err := model.ParseTerms(string(terms)); err != nil {
		return nil, err
	}

	customer := &model.Customer{FirstName: firstName, LastName: lastName, Terms: terms}
	b.mu.Lock()
	err := b.store.SaveCustomer(ctx, customer)
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	b.notifyCustomer(customer)
	return customer, nil
}

// CreateInvoice adds an invoice dated today for the named customer. The
// store assigns the next sequential number. Invoice listeners are notified
// once the record is durable.
func (b *Billing) CreateInvoice(ctx context.Context, customerName string, amount decimal.Decimal) (*model.Invoice, error) {
	if amount.IsNegative() {
		return nil, errors.New("amount must not be negative")
	}

	b.mu.Lock()
	customer, ok := b.store.Customer(customerName)
	if !ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", model.ErrNoSuchCustomer, customerName)
	}
	invoice := &model.Invoice{Customer: customer, Amount: amount, Date: b.today()}
	err := b.store.SaveInvoice(ctx, invoice)
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	b.notifyInvoice(invoice)
	return invoice, nil
}

// PayInvoice sets the paid date of an unpaid invoice to today and notifies
// invoice listeners once the update is durable. Paying twice fails.
func (b *Billing) PayInvoice(ctx context.Context, number int) (*model.Invoice, error) {
	b.mu.Lock()
	invoice, ok := b.store.Invoice(number)
	if !ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", model.ErrNoSuchInvoice, number)
	}
	if invoice.Paid() {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", model.ErrAlreadyPaid, number)
	}
	paid := *invoice
	today := b.today()
	paid.PaidDate = &today
	err := b.store.SaveInvoice(ctx, &paid)
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	b.notifyInvoice(&paid)
	return &paid, nil
}

// AddCustomerListener registers an observer for new customers and returns
// a token for removal.
func (b *Billing) AddCustomerListener(fn func(*model.Customer)) uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.New()
	b.customerListeners = append(b.customerListeners, listener[*model.Customer]{id: id, fn: fn})
	return id
}

// RemoveCustomerListener unregisters a customer observer.
func (b *Billing) RemoveCustomerListener(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.customerListeners = slices.DeleteFunc(b.customerListeners,
		func(l listener[*model.Customer]) bool { return l.id == id })
}

// AddInvoiceListener registers an observer for created and paid invoices
// and returns a token for removal.
func (b *Billing) AddInvoiceListener(fn func(*model.Invoice)) uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.New()
	b.invoiceListeners = append(b.invoiceListeners, listener[*model.Invoice]{id: id, fn: fn})
	return id
}

// RemoveInvoiceListener unregisters an invoice observer.
func (b *Billing) RemoveInvoiceListener(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.invoiceListeners = slices.DeleteFunc(b.invoiceListeners,
		func(l listener[*model.Invoice]) bool { return l.id == id })
}

func (b *Billing) notifyCustomer(customer *model.Customer) {
	b.mu.Lock()
	listeners := slices.Clone(b.customerListeners)
	b.mu.Unlock()
	for _, l := range listeners {
		notify(b.log, "customer listener", l.fn, customer)
	}
}

func (b *Billing) notifyInvoice(invoice *model.Invoice) {
	b.mu.Lock()
	listeners := slices.Clone(b.invoiceListeners)
	b.mu.Unlock()
	for _, l := range listeners {
		notify(b.log, "invoice listener", l.fn, invoice)
	}
}

// notify invokes one listener; a panicking listener is logged and skipped,
// never rolling back the already-durable mutation.
func notify[T any](log *slog.Logger, kind string, fn func(T), value T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(kind+" failed", slog.Any("panic", r))
		}
	}()
	fn(value)
}

func (b *Billing) today() time.Time {
	t := b.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
