package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/acunningham2/billing/internal/model"
	"github.com/acunningham2/billing/internal/parse"
)

// FileSource backs the ledger with one text file per entity type, each
// encoded by the parser registered for its extension. New records are
// appended; updates rewrite the whole file, since lines cannot be edited in
// place.
type FileSource struct {
	customersPath string
	invoicesPath  string
	customers     parse.Parser
	invoices      parse.Parser
	log           *slog.Logger
}

// NewFileSource selects a parser per path from the registry.
func NewFileSource(customersPath, invoicesPath string, reg *parse.Registry, log *slog.Logger) *FileSource {
	if log == nil {
		log = slog.Default()
	}
	return &FileSource{
		customersPath: customersPath,
		invoicesPath:  invoicesPath,
		customers:     reg.ForFile(filepath.Base(customersPath)),
		invoices:      reg.ForFile(filepath.Base(invoicesPath)),
		log:           log,
	}
}

// ReadCustomers parses the customers file. Lines that fail to decode are
// logged and dropped; a missing file reads as an empty data set.
func (s *FileSource) ReadCustomers(ctx context.Context) ([]*model.Customer, error) {
	lines, err := readLines(s.customersPath)
	if err != nil {
		return nil, err
	}
	var out []*model.Customer
	for _, rec := range s.customers.ParseCustomers(lines) {
		if rec.Err != nil {
			s.log.Warn("dropping unreadable customer record",
				slog.String("file", s.customersPath), slog.Any("error", rec.Err))
			continue
		}
		out = append(out, rec.Customer)
	}
	return out, nil
}

// ReadInvoices parses the invoices file against the known customers,
// logging and dropping undecodable or unresolvable lines.
func (s *FileSource) ReadInvoices(ctx context.Context, byName map[string]*model.Customer) ([]*model.Invoice, error) {
	lines, err := readLines(s.invoicesPath)
	if err != nil {
		return nil, err
	}
	var out []*model.Invoice
	for _, rec := range s.invoices.ParseInvoices(lines, byName) {
		if rec.Err != nil {
			s.log.Warn("dropping unreadable invoice record",
				slog.String("file", s.invoicesPath), slog.Any("error", rec.Err))
			continue
		}
		out = append(out, rec.Invoice)
	}
	return out, nil
}

// WriteCustomer appends the customer's line to the customers file.
func (s *FileSource) WriteCustomer(ctx context.Context, c *model.Customer) error {
	return appendLine(s.customersPath, s.customers.ProduceCustomers([]*model.Customer{c})[0])
}

// WriteInvoice appends the invoice's line when it is new, and otherwise
// rewrites the whole file from the mirror.
func (s *FileSource) WriteInvoice(ctx context.Context, inv *model.Invoice, update bool, all []*model.Invoice) error {
	if !update {
		return appendLine(s.invoicesPath, s.invoices.ProduceInvoices([]*model.Invoice{inv})[0])
	}
	return rewriteLines(s.invoicesPath, s.invoices.ProduceInvoices(all))
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// rewriteLines replaces the file's contents via a sibling temp file and a
// rename, so a failed write never truncates the original.
func rewriteLines(path string, lines []string) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			f.Close()
			os.Remove(f.Name())
			return err
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), path)
}
