package store

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Migrate copies the full data set from source to target: customers first
// (in name order), then invoices (in number order). It is a one-shot seed,
// not an incremental sync; re-running against a non-empty target surfaces
// the target's own duplicate invariants.
func Migrate(ctx context.Context, source, target *Cache) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return source.Load(gctx) })
	g.Go(func() error { return target.Load(gctx) })
	if err := g.Wait(); err != nil {
		return err
	}

	customers := source.Customers()
	names := make([]string, 0, len(customers))
	for name := range customers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := target.SaveCustomer(ctx, customers[name]); err != nil {
			return fmt.Errorf("migrate customer %s: %w", name, err)
		}
	}
	for _, inv := range source.Invoices() {
		if err := target.SaveInvoice(ctx, inv); err != nil {
			return fmt.Errorf("migrate invoice %d: %w", inv.Number, err)
		}
	}
	return nil
}
