package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
)

func statusTag(status string, deleted bool) string {
	if deleted {
		return "trashed"
	}
	return status
}

func renderCategory(c models.Category) string {
	return fmt.Sprintf("%s  %s [%s]", c.ID, c.Name, statusTag(c.Status, c.IsDeleted))
}

func renderSubCategory(s models.SubCategory) string {
	return fmt.Sprintf("%s  %s (in %s) [%s]", s.ID, s.Name, orID(s.Category), statusTag(s.Status, s.IsDeleted))
}

func renderMaterial(m models.Material) string {
	return fmt.Sprintf("%s  %s  %.2f/%s  stock %d  (%s / %s) [%s]",
		m.ID, m.Name, m.Price, m.Unit, m.Stock, orID(m.Category), orID(m.SubCategory), statusTag(m.Status, m.IsDeleted))
}

func renderVendor(v models.Vendor) string {
	place := strings.Trim(strings.Join([]string{v.City, v.State}, ", "), ", ")
	return fmt.Sprintf("%s  %s <%s> %s %s [%s]", v.ID, v.Name, v.Email, v.Mobile, place, statusTag(v.Status, v.IsDeleted))
}

func renderOffer(o models.VendorMaterial) string {
	qty := fmt.Sprintf("min %d", o.MinOrderQty)
	if o.MaxOrderQty != nil {
		qty += fmt.Sprintf(", max %d", *o.MaxOrderQty)
	}
	avail := "available"
	if !o.IsAvailable {
		avail = "unavailable"
	}
	return fmt.Sprintf("%s  %s  %.2f  %s [%s]", o.Material.ID, orID(o.Material), o.Price, qty, avail)
}

func renderUser(u models.User) string {
	s := fmt.Sprintf("%s  %s <%s> [%s]", u.ID, u.Name, u.Email, statusTag(u.Status, u.IsDeleted))
	if u.IsBlocked {
		s += " blocked"
	}
	return s
}

func renderBooking(b models.Booking) string {
	return fmt.Sprintf("%s  %s  %s from %s: %d x %s  %.2f [%s]",
		b.ID, b.Number, orID(b.User), orID(b.Vendor), b.Quantity, orID(b.Material), b.TotalAmount, b.Status)
}

func renderTransaction(t models.Transaction) string {
	return fmt.Sprintf("%s  %s  %s  %.2f %s [%s]", t.ID, t.Number, orID(t.User), t.Amount, t.PaymentMethod, t.Status)
}

// orID prefers the populated name of a reference.
func orID(r models.Ref) string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
