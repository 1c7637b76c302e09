package cli

import (
	"context"

	"github.com/dmitrijs2005/buildhub/internal/client/guard"
)

// Dispatch runs every command other than help, login, logout and exit.
func (a *App) Dispatch(ctx context.Context, cmd string, args []string) (bool, error) {
	sub, rest := "", []string(nil)
	if len(args) > 0 {
		sub, rest = args[0], args[1:]
	}

	switch cmd {
	case "open":
		if len(args) != 1 {
			return true, usageError("open <path>")
		}
		m := guard.Resolve(args[0], a.snapshot(ctx))
		a.setRoute(m)
		a.printf("Now at %s\n", m.Path)
		return true, nil
	case "forgot":
		return true, a.ForgotPassword(ctx)
	case "reset":
		if len(args) != 1 {
			return true, usageError("reset <token>")
		}
		return true, a.ResetPassword(ctx, args[0])
	case "profile":
		return true, a.Profile(ctx)
	case "passwd":
		return true, a.ChangePassword(ctx)
	case "dashboard":
		return true, a.Dashboard(ctx)
	case "categories":
		return true, a.categories(ctx, sub, rest)
	case "subcategories":
		return true, a.subCategories(ctx, sub, rest)
	case "materials":
		return true, a.materials(ctx, sub, rest)
	case "vendors":
		return true, a.vendors(ctx, sub, rest)
	case "offers":
		if len(args) < 2 {
			return true, usageError("offers <vendorId> list|add|edit|remove|toggle [materialId]")
		}
		return true, a.offers(ctx, args[0], args[1], args[2:])
	case "users":
		return true, a.users(ctx, sub, rest)
	case "bookings":
		return true, a.bookings(ctx, sub, rest)
	case "transactions":
		return true, a.transactions(ctx, sub, rest)
	case "locate":
		return true, a.locate(ctx, sub, rest)
	}
	return false, nil
}
