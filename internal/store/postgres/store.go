// Package postgres implements the store.Source port over PostgreSQL, one
// row per record with upsert-by-key writes.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/acunningham2/billing/internal/model"
)

const uniqueViolation = "23505"

// Store provides PostgreSQL backed persistence.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a pooled store and verifies connectivity. Numeric columns
// scan into decimals.
func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store/postgres: parse config: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store/postgres: new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store/postgres: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS customers (
    name       text PRIMARY KEY,
    first_name text NOT NULL,
    last_name  text NOT NULL,
    terms      text NOT NULL
);
CREATE TABLE IF NOT EXISTS invoices (
    number        integer PRIMARY KEY,
    customer_name text NOT NULL REFERENCES customers(name),
    amount        numeric(12,2) NOT NULL,
    invoice_date  date NOT NULL,
    paid_date     date
);`

// EnsureSchema creates the ledger tables when absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store/postgres: ensure schema: %w", err)
	}
	return nil
}

func (s *Store) ReadCustomers(ctx context.Context) ([]*model.Customer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT first_name, last_name, terms FROM customers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*model.Customer
	for rows.Next() {
		var first, last, terms string
		if err := rows.Scan(&first, &last, &terms); err != nil {
			return nil, err
		}
		parsed, err := model.ParseTerms(terms)
		if err != nil {
			return nil, fmt.Errorf("customer %s %s: %w", first, last, err)
		}
		customers = append(customers, &model.Customer{
			FirstName: first, LastName: last, Terms: parsed,
		})
	}
	return customers, rows.Err()
}

func (s *Store) ReadInvoices(ctx context.Context, byName map[string]*model.Customer) ([]*model.Invoice, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT number, customer_name, amount, invoice_date, paid_date FROM invoices ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*model.Invoice
	for rows.Next() {
		var (
			number   int
			name     string
			amount   decimal.Decimal
			date     time.Time
			paidDate *time.Time
		)
		if err := rows.Scan(&number, &name, &amount, &date, &paidDate); err != nil {
			return nil, err
		}
		customer, ok := byName[name]
		if !ok {
			continue
		}
		invoices = append(invoices, &model.Invoice{
			Number:   number,
			Customer: customer,
			Amount:   amount,
			Date:     date,
			PaidDate: paidDate,
		})
	}
	return invoices, rows.Err()
}

func (s *Store) WriteCustomer(ctx context.Context, c *model.Customer) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO customers (name, first_name, last_name, terms) VALUES ($1, $2, $3, $4)`,
		c.Name(), c.FirstName, c.LastName, string(c.Terms))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", model.ErrDuplicateCustomer, c.Name())
	}
	return err
}

func (s *Store) WriteInvoice(ctx context.Context, inv *model.Invoice, update bool, all []*model.Invoice) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO invoices (number, customer_name, amount, invoice_date, paid_date)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (number) DO UPDATE SET
    customer_name = EXCLUDED.customer_name,
    amount        = EXCLUDED.amount,
    invoice_date  = EXCLUDED.invoice_date,
    paid_date     = EXCLUDED.paid_date`,
		inv.Number, inv.Customer.Name(), inv.Amount, inv.Date, inv.PaidDate)
	return err
}
