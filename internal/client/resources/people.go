package resources

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/client/store"
	"github.com/dmitrijs2005/buildhub/internal/logging"
)

// Users are managed, never created, by the console.
type Users struct {
	*store.Collection[models.User]

	mu    sync.RWMutex
	stats *models.UserStats
}

func NewUsers(client api.Doer, log logging.Logger) *Users {
	u := &Users{}
	msgs := store.DefaultMessages("User", "users")
	msgs.Purged = "User permanently deleted successfully."
	msgs.Toggled = "User status updated successfully."
	u.Collection = store.NewCollection[models.User](store.Definition{
		Name:     "users",
		Path:     store.Static("/users"),
		Messages: msgs,
		OnList: func(resp *api.Response) {
			var s models.UserStats
			if ok, err := resp.Field("stats", &s); ok && err == nil {
				u.setStats(s)
			}
		},
	}, client, log)
	return u
}

func (r *Users) setStats(s models.UserStats) {
	r.mu.Lock()
	r.stats = &s
	r.mu.Unlock()
}

// Stats returns the last known counters, or nil.
func (r *Users) Stats() *models.UserStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stats == nil {
		return nil
	}
	s := *r.stats
	return &s
}

func (r *Users) FetchStats(ctx context.Context) (models.UserStats, error) {
	s, err := store.Lookup[models.UserStats](ctx, r.Collection, "/users/stats", nil, "Failed to fetch user stats.")
	if err != nil {
		return s, err
	}
	r.setStats(s)
	return s, nil
}

func (r *Users) Update(ctx context.Context, id string, in models.UserInput) (models.User, error) {
	return r.Collection.Update(ctx, models.ID(id), in)
}

// ToggleStatus flips the user's status, or sets status when it is not empty.
func (r *Users) ToggleStatus(ctx context.Context, id, status string) (models.User, error) {
	var body any
	if status != "" {
		body = models.StatusInput{Status: status}
	}
	return r.Collection.ToggleStatus(ctx, models.ID(id), body)
}

func (r *Users) Block(ctx context.Context, id string) (models.User, error) {
	return r.Patch(ctx, models.ID(id), "block", nil, "User blocked successfully.", "Failed to block user.")
}

func (r *Users) Unblock(ctx context.Context, id string) (models.User, error) {
	return r.Patch(ctx, models.ID(id), "unblock", nil, "User unblocked successfully.", "Failed to unblock user.")
}

type Bookings struct {
	*store.Collection[models.Booking]
}

func NewBookings(client api.Doer, log logging.Logger) *Bookings {
	return &Bookings{store.NewCollection[models.Booking](store.Definition{
		Name: "bookings",
		Path: store.Static("/bookings"),
		Messages: store.Messages{
			ListFailed:   "Failed to fetch bookings.",
			GetFailed:    "Failed to fetch booking.",
			Deleted:      "Booking deleted successfully.",
			DeleteFailed: "Failed to delete booking.",
		},
	}, client, log)}
}

func (r *Bookings) UpdateStatus(ctx context.Context, id, status string) (models.Booking, error) {
	return r.Patch(ctx, models.ID(id), "status", models.StatusInput{Status: status},
		"Booking status updated successfully.", "Failed to update booking status.")
}

func (r *Bookings) Delete(ctx context.Context, id string) error {
	return r.SoftDelete(ctx, models.ID(id))
}

type Transactions struct {
	*store.Collection[models.Transaction]
}

func NewTransactions(client api.Doer, log logging.Logger) *Transactions {
	return &Transactions{store.NewCollection[models.Transaction](store.Definition{
		Name: "transactions",
		Path: store.Static("/transactions"),
		Messages: store.Messages{
			ListFailed: "Failed to fetch transactions.",
			GetFailed:  "Failed to fetch transaction.",
		},
	}, client, log)}
}

func (r *Transactions) UpdateStatus(ctx context.Context, id, status string) (models.Transaction, error) {
	return r.Patch(ctx, models.ID(id), "status", models.StatusInput{Status: status},
		"Transaction status updated successfully.", "Failed to update transaction status.")
}
