package cli

import (
	"context"

	"github.com/dmitrijs2005/buildhub/internal/client/guard"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
)

func (a *App) printStats(s *models.UserStats) {
	if s == nil {
		return
	}
	a.printf("Users: %d total, %d active, %d inactive, %d blocked, %d in trash\n",
		s.Total, s.Active, s.Inactive, s.Blocked, s.Deleted)
}

func (a *App) users(ctx context.Context, sub string, args []string) error {
	if !a.enter(ctx, guard.PathUsers) {
		return nil
	}
	r := a.store.Users
	if ok, err := lifecycle(ctx, a, r.Collection, renderUser, sub, args); ok {
		if err == nil && (sub == "" || sub == "list") {
			a.printStats(r.Stats())
		}
		return err
	}

	switch sub {
	case "stats":
		s, err := r.FetchStats(ctx)
		notice(a, r.Collection)
		if err == nil {
			a.printStats(&s)
		}
		return err
	case "block", "unblock":
		id, err := needID(args, "users "+sub+" <id>")
		if err != nil {
			return err
		}
		var u models.User
		if sub == "block" {
			u, err = r.Block(ctx, id)
		} else {
			u, err = r.Unblock(ctx, id)
		}
		notice(a, r.Collection)
		if err == nil {
			a.println(renderUser(u))
		}
		return err
	case "edit":
		id, err := needID(args, "users edit <id>")
		if err != nil {
			return err
		}
		cur, err := r.Get(ctx, models.ID(id))
		if err != nil {
			notice(a, r.Collection)
			return err
		}
		var in models.UserInput
		if in.Name, err = a.ask("Name", cur.Name); err != nil {
			return err
		}
		if in.Email, err = a.ask("Email", cur.Email); err != nil {
			return err
		}
		if in.Mobile, err = a.ask("Mobile", cur.Mobile); err != nil {
			return err
		}
		u, err := r.Update(ctx, id, in)
		notice(a, r.Collection)
		if err == nil {
			a.println(renderUser(u))
		}
		return err
	}
	return usageError("users list|trash|stats|show|edit|block|unblock|delete|restore|purge|toggle")
}

func (a *App) bookings(ctx context.Context, sub string, args []string) error {
	if !a.enter(ctx, guard.PathBookings) {
		return nil
	}
	r := a.store.Bookings
	switch sub {
	case "", "list", "show":
		ok, err := lifecycle(ctx, a, r.Collection, renderBooking, sub, args)
		if ok {
			return err
		}
	case "status":
		if len(args) != 2 {
			return usageError("bookings status <id> pending|confirmed|delivered|cancelled")
		}
		b, err := r.UpdateStatus(ctx, args[0], args[1])
		notice(a, r.Collection)
		if err == nil {
			a.println(renderBooking(b))
		}
		return err
	case "delete":
		id, err := needID(args, "bookings delete <id>")
		if err != nil {
			return err
		}
		if !Confirm(a.reader, "Delete booking "+id+"?", a.out) {
			return errCancelled
		}
		err = r.Delete(ctx, id)
		notice(a, r.Collection)
		return err
	}
	return usageError("bookings list|show|status|delete")
}

func (a *App) transactions(ctx context.Context, sub string, args []string) error {
	if !a.enter(ctx, guard.PathTransactions) {
		return nil
	}
	r := a.store.Transactions
	switch sub {
	case "", "list", "show":
		ok, err := lifecycle(ctx, a, r.Collection, renderTransaction, sub, args)
		if ok {
			return err
		}
	case "status":
		if len(args) != 2 {
			return usageError("transactions status <id> pending|success|failed|refunded")
		}
		t, err := r.UpdateStatus(ctx, args[0], args[1])
		notice(a, r.Collection)
		if err == nil {
			a.println(renderTransaction(t))
		}
		return err
	}
	return usageError("transactions list|show|status")
}
