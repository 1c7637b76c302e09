package memstore

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/google/uuid"
)

// SeedDemo fills an empty database with a small catalog, two vendors and a
// few customers, bookings and payments.
func (d *Database) SeedDemo(now time.Time) error {
	ref := func(id, name string) models.Ref { return models.Ref{ID: id, Name: name} }
	ins := func(err error) error {
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		return nil
	}

	steel := models.Category{ID: uuid.NewString(), Name: "Steel & TMT Bars", Description: "Reinforcement steel", Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	sand := models.Category{ID: uuid.NewString(), Name: "Sand & Aggregates", Description: "River sand, M-sand and crushed stone", Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	for _, c := range []models.Category{steel, sand} {
		if err := ins(d.Categories.Insert(c)); err != nil {
			return err
		}
	}

	tmt := models.SubCategory{ID: uuid.NewString(), Name: "Fe 500D", Category: ref(steel.ID, steel.Name), Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	msand := models.SubCategory{ID: uuid.NewString(), Name: "M-Sand", Category: ref(sand.ID, sand.Name), Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	for _, s := range []models.SubCategory{tmt, msand} {
		if err := ins(d.SubCategories.Insert(s)); err != nil {
			return err
		}
	}

	bar := models.Material{ID: uuid.NewString(), Name: "TMT Bar 12mm", Category: ref(steel.ID, steel.Name), SubCategory: ref(tmt.ID, tmt.Name),
		Unit: "Ton", Price: 62000, Stock: 14, Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	plaster := models.Material{ID: uuid.NewString(), Name: "Plaster M-Sand", Category: ref(sand.ID, sand.Name), SubCategory: ref(msand.ID, msand.Name),
		Unit: "Cubic Feet", Price: 65, Stock: 5000, Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	for _, m := range []models.Material{bar, plaster} {
		if err := ins(d.Materials.Insert(m)); err != nil {
			return err
		}
	}

	pune := models.NewGeoPoint(18.5204, 73.8567)
	mumbai := models.NewGeoPoint(19.0760, 72.8777)
	shree := models.Vendor{ID: uuid.NewString(), Name: "Shree Traders", BusinessName: "Shree Building Materials Pvt Ltd",
		Email: "sales@shreetraders.in", Mobile: "9876543210", GSTNumber: "27AAPFU0939F1ZV", Address: "Hadapsar Industrial Estate",
		City: "Pune", State: "Maharashtra", Pincode: "411013", Location: &pune, Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	konkan := models.Vendor{ID: uuid.NewString(), Name: "Konkan Steel", Email: "info@konkansteel.in", Mobile: "9123456780",
		City: "Mumbai", State: "Maharashtra", Pincode: "400072", Location: &mumbai, Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	for _, v := range []models.Vendor{shree, konkan} {
		if err := ins(d.Vendors.Insert(v)); err != nil {
			return err
		}
	}

	maxQty := 40
	offers := []models.VendorMaterial{
		{ID: uuid.NewString(), Vendor: ref(shree.ID, shree.Name), Material: ref(plaster.ID, plaster.Name), Price: 62, MinOrderQty: 100, IsAvailable: true},
		{ID: uuid.NewString(), Vendor: ref(konkan.ID, konkan.Name), Material: ref(bar.ID, bar.Name), Price: 61500, MinOrderQty: 1, MaxOrderQty: &maxQty, IsAvailable: true, Specs: "IS 1786 certified"},
	}
	for _, o := range offers {
		if err := ins(d.VendorMaterials.Insert(o)); err != nil {
			return err
		}
	}

	asha := models.User{ID: uuid.NewString(), Name: "Asha Patil", Email: "asha@example.com", Mobile: "9822012345", Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	ravi := models.User{ID: uuid.NewString(), Name: "Ravi Kumar", Email: "ravi@example.com", Mobile: "9700011122", Status: models.StatusActive, CreatedAt: now, UpdatedAt: now}
	for _, u := range []models.User{asha, ravi} {
		if err := ins(d.Users.Insert(u)); err != nil {
			return err
		}
	}

	booking := models.Booking{ID: uuid.NewString(), Number: "BK-1001", User: ref(asha.ID, asha.Name), Vendor: ref(shree.ID, shree.Name),
		Material: ref(plaster.ID, plaster.Name), Quantity: 300, TotalAmount: 18600, Status: models.BookingPending, CreatedAt: now, UpdatedAt: now}
	if err := ins(d.Bookings.Insert(booking)); err != nil {
		return err
	}

	txn := models.Transaction{ID: uuid.NewString(), Number: "TXN-5001", Booking: ref(booking.ID, booking.Number), User: ref(asha.ID, asha.Name),
		Amount: 18600, PaymentMethod: "upi", Status: models.TransactionPending, CreatedAt: now, UpdatedAt: now}
	return ins(d.Transactions.Insert(txn))
}
