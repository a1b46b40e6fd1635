// Package redis implements the store.Source port over two redis hashes,
// one JSON-encoded field per record.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/acunningham2/billing/internal/model"
)

const (
	customersKey = "billing:customers"
	invoicesKey  = "billing:invoices"

	dateLayout = "2006-01-02"
)

// Store provides redis backed persistence.
type Store struct {
	client *goredis.Client
}

// New creates a client for the given address and verifies connectivity.
func New(ctx context.Context, addr string) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("store/redis: ping: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

type customerDoc struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Terms     string `json:"terms"`
}

type invoiceDoc struct {
	Number   int             `json:"number"`
	Customer string          `json:"customer"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	PaidDate string          `json:"paidDate,omitempty"`
}

func (s *Store) ReadCustomers(ctx context.Context) ([]*model.Customer, error) {
	fields, err := s.client.HGetAll(ctx, customersKey).Result()
	if err != nil {
		return nil, err
	}
	customers := make([]*model.Customer, 0, len(fields))
	for _, name := range sortedKeys(fields) {
		var doc customerDoc
		if err := json.Unmarshal([]byte(fields[name]), &doc); err != nil {
			return nil, fmt.Errorf("customer %s: %w", name, err)
		}
		terms, err := model.ParseTerms(doc.Terms)
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", name, err)
		}
		customers = append(customers, &model.Customer{
			FirstName: doc.FirstName, LastName: doc.LastName, Terms: terms,
		})
	}
	return customers, nil
}

func (s *Store) ReadInvoices(ctx context.Context, byName map[string]*model.Customer) ([]*model.Invoice, error) {
	fields, err := s.client.HGetAll(ctx, invoicesKey).Result()
	if err != nil {
		return nil, err
	}
	invoices := make([]*model.Invoice, 0, len(fields))
	for _, field := range sortedKeys(fields) {
		var doc invoiceDoc
		if err := json.Unmarshal([]byte(fields[field]), &doc); err != nil {
			return nil, fmt.Errorf("invoice %s: %w", field, err)
		}
		customer, ok := byName[doc.Customer]
		if !ok {
			continue
		}
		date, err := time.Parse(dateLayout, doc.Date)
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", field, err)
		}
		var paid *time.Time
		if doc.PaidDate != "" {
			p, err := time.Parse(dateLayout, doc.PaidDate)
			if err != nil {
				return nil, fmt.Errorf("invoice %s: %w", field, err)
			}
			paid = &p
		}
		invoices = append(invoices, &model.Invoice{
			Number:   doc.Number,
			Customer: customer,
			Amount:   doc.Amount,
			Date:     date,
			PaidDate: paid,
		})
	}
	slices.SortFunc(invoices, func(a, b *model.Invoice) int { return a.Number - b.Number })
	return invoices, nil
}

func (s *Store) WriteCustomer(ctx context.Context, c *model.Customer) error {
	encoded, err := json.Marshal(customerDoc{
		FirstName: c.FirstName, LastName: c.LastName, Terms: string(c.Terms),
	})
	if err != nil {
		return err
	}
	set, err := s.client.HSetNX(ctx, customersKey, c.Name(), encoded).Result()
	if err != nil {
		return err
	}
	if !set {
		return fmt.Errorf("%w: %s", model.ErrDuplicateCustomer, c.Name())
	}
	return nil
}

func (s *Store) WriteInvoice(ctx context.Context, inv *model.Invoice, update bool, all []*model.Invoice) error {
	doc := invoiceDoc{
		Number:   inv.Number,
		Customer: inv.Customer.Name(),
		Amount:   inv.Amount,
		Date:     inv.Date.Format(dateLayout),
	}
	if inv.PaidDate != nil {
		doc.PaidDate = inv.PaidDate.Format(dateLayout)
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, invoicesKey, strconv.Itoa(inv.Number), encoded).Err()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, strings.Compare)
	return keys
}
