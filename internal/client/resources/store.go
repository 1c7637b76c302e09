package resources

import (
	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/logging"
)

// Store holds one collection per resource. Each test or console gets its own.
type Store struct {
	Categories      *Categories
	SubCategories   *SubCategories
	Materials       *Materials
	Vendors         *Vendors
	VendorMaterials *VendorMaterials
	Users           *Users
	Bookings        *Bookings
	Transactions    *Transactions
}

func NewStore(client api.Doer, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	vendors := NewVendors(client, log)
	return &Store{
		Categories:      NewCategories(client, log),
		SubCategories:   NewSubCategories(client, log),
		Materials:       NewMaterials(client, log),
		Vendors:         vendors,
		VendorMaterials: NewVendorMaterials(client, log, vendors.setSelected),
		Users:           NewUsers(client, log),
		Bookings:        NewBookings(client, log),
		Transactions:    NewTransactions(client, log),
	}
}

// LowStockThreshold marks materials shown as low stock on the dashboard.
const LowStockThreshold = 20

// Dashboard is computed from whatever the collections currently hold.
type Dashboard struct {
	ActiveVendors    int
	ActiveCategories int
	Materials        int
	LowStock         []models.Material
	Bookings         int
	PendingBookings  int
}

func (s *Store) Dashboard() Dashboard {
	var d Dashboard
	for _, v := range s.Vendors.Snapshot().Items {
		if v.Status == models.StatusActive {
			d.ActiveVendors++
		}
	}
	for _, c := range s.Categories.Snapshot().Items {
		if c.Status == models.StatusActive {
			d.ActiveCategories++
		}
	}
	mats := s.Materials.Snapshot().Items
	d.Materials = len(mats)
	for _, m := range mats {
		if m.Stock > 0 && m.Stock < LowStockThreshold {
			d.LowStock = append(d.LowStock, m)
		}
	}
	bookings := s.Bookings.Snapshot().Items
	d.Bookings = len(bookings)
	for _, b := range bookings {
		if b.Status == models.BookingPending {
			d.PendingBookings++
		}
	}
	return d
}

// ClearNotices drops every pending error and message, like dismissing all toasts.
func (s *Store) ClearNotices() {
	for _, c := range s.notifiers() {
		c.ClearError()
		c.ClearMessage()
	}
}

type notifier interface {
	ClearError()
	ClearMessage()
}

func (s *Store) notifiers() []notifier {
	return []notifier{
		s.Categories, s.SubCategories, s.Materials, s.Vendors,
		s.VendorMaterials, s.Users, s.Bookings, s.Transactions,
	}
}
