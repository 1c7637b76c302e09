package cli

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/buildhub/internal/client/guard"
)

// Dashboard loads the first page of the summarised collections and prints
// the counters computed from them.
func (a *App) Dashboard(ctx context.Context) error {
	if !a.enter(ctx, guard.PathDashboard) {
		return nil
	}

	q := url.Values{"limit": {"100"}}
	var firstErr error
	for _, load := range []func() error{
		func() error { return a.store.Vendors.List(ctx, q) },
		func() error { return a.store.Categories.List(ctx, q) },
		func() error { return a.store.Materials.List(ctx, q) },
		func() error { return a.store.Bookings.List(ctx, q) },
	} {
		if err := load(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	notice(a, a.store.Vendors.Collection)
	notice(a, a.store.Categories.Collection)
	notice(a, a.store.Materials.Collection)
	notice(a, a.store.Bookings.Collection)

	d := a.store.Dashboard()
	a.printf("Active vendors:    %d\n", d.ActiveVendors)
	a.printf("Active categories: %d\n", d.ActiveCategories)
	a.printf("Materials:         %d\n", d.Materials)
	a.printf("Bookings:          %d (%d pending)\n", d.Bookings, d.PendingBookings)
	if len(d.LowStock) > 0 {
		a.println("Low stock:")
		for _, m := range d.LowStock {
			a.printf("  %s: %d %s\n", m.Name, m.Stock, m.Unit)
		}
	}
	return firstErr
}
