package memstore

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
)

// Account is an operator login. The hash is bcrypt.
type Account struct {
	Admin        models.Admin
	PasswordHash []byte
}

type ResetToken struct {
	Token     string
	AdminID   string
	ExpiresAt time.Time
}

// OfferKey is the table key of a vendor's offer for a material.
func OfferKey(vendorID, materialID string) string {
	return vendorID + "/" + materialID
}

// Database bundles every table of the mock backend.
type Database struct {
	Categories      *Table[models.Category]
	SubCategories   *Table[models.SubCategory]
	Materials       *Table[models.Material]
	Vendors         *Table[models.Vendor]
	VendorMaterials *Table[models.VendorMaterial]
	Users           *Table[models.User]
	Bookings        *Table[models.Booking]
	Transactions    *Table[models.Transaction]
	Accounts        *Table[Account]
	ResetTokens     *Table[ResetToken]
}

func NewDatabase() *Database {
	return &Database{
		Categories:    NewTable(func(v models.Category) string { return v.ID }),
		SubCategories: NewTable(func(v models.SubCategory) string { return v.ID }),
		Materials:     NewTable(func(v models.Material) string { return v.ID }),
		Vendors:       NewTable(func(v models.Vendor) string { return v.ID }),
		VendorMaterials: NewTable(func(v models.VendorMaterial) string {
			return OfferKey(v.Vendor.ID, v.Material.ID)
		}),
		Users:        NewTable(func(v models.User) string { return v.ID }),
		Bookings:     NewTable(func(v models.Booking) string { return v.ID }),
		Transactions: NewTable(func(v models.Transaction) string { return v.ID }),
		Accounts:     NewTable(func(v Account) string { return v.Admin.ID }),
		ResetTokens:  NewTable(func(v ResetToken) string { return v.Token }),
	}
}

// AccountByEmail finds an operator by login e-mail.
func (d *Database) AccountByEmail(email string) (Account, error) {
	found := d.Accounts.Filter(func(a Account) bool { return strings.EqualFold(a.Admin.Email, email) })
	if len(found) == 0 {
		return Account{}, ErrNotFound
	}
	return found[0], nil
}
