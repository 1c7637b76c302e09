package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/buildhub/internal/client/guard"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/client/resources"
	"github.com/dmitrijs2005/buildhub/internal/client/validate"
)

func parseFloats(args []string) ([]float64, bool) {
	out := make([]float64, 0, len(args))
	for _, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

func (a *App) vendors(ctx context.Context, sub string, args []string) error {
	if !a.enter(ctx, guard.PathVendors) {
		return nil
	}
	r := a.store.Vendors
	if ok, err := lifecycle(ctx, a, r.Collection, renderVendor, sub, args); ok {
		return err
	}

	var current models.Vendor
	switch sub {
	case "nearby":
		nums, ok := parseFloats(args)
		if !ok || len(nums) < 2 {
			return usageError("vendors nearby <lng> <lat> [radiusKm]")
		}
		radius := float64(resources.DefaultNearbyRadiusKm)
		if len(nums) > 2 {
			radius = nums[2]
		}
		err := r.Nearby(ctx, nums[0], nums[1], radius)
		notice(a, r.Collection)
		if err == nil {
			printRows(a, r.Snapshot().Items, renderVendor)
		}
		return err
	case "states":
		states, err := r.FetchStates(ctx)
		notice(a, r.Collection)
		if err == nil {
			a.println(strings.Join(states, ", "))
		}
		return err
	case "add":
	case "edit":
		id, err := needID(args, "vendors edit <id>")
		if err != nil {
			return err
		}
		if current, err = r.Get(ctx, models.ID(id)); err != nil {
			notice(a, r.Collection)
			return err
		}
	default:
		return usageError("vendors list|trash|nearby|states|show|add|edit|delete|restore|purge|toggle")
	}

	form := validate.VendorForm{Location: current.Location}
	address, city, state, pincode := current.Address, current.City, current.State, current.Pincode
	if loc := a.located; loc != nil && Confirm(a.reader, "Use the confirmed location ("+formatPoint(loc.Latitude, loc.Longitude)+")?", a.out) {
		p := models.NewGeoPoint(loc.Latitude, loc.Longitude)
		form.Location = &p
		address, city, state, pincode = orString(loc.Address, address), orString(loc.City, city), orString(loc.State, state), orString(loc.Pincode, pincode)
	}

	var err error
	for _, q := range []struct {
		prompt  string
		current string
		dst     *string
	}{
		{"Vendor name", current.Name, &form.Name},
		{"Business name", current.BusinessName, &form.BusinessName},
		{"Email", current.Email, &form.Email},
		{"Mobile", current.Mobile, &form.Mobile},
		{"GST number", current.GSTNumber, &form.GSTNumber},
		{"Address", address, &form.Address},
		{"City", city, &form.City},
		{"State", state, &form.State},
		{"Pincode", pincode, &form.Pincode},
		{"Status (active/inactive)", current.Status, &form.Status},
	} {
		if *q.dst, err = a.ask(q.prompt, q.current); err != nil {
			return err
		}
	}
	form.GSTNumber = strings.ToUpper(form.GSTNumber)
	if err := validate.Check(form); a.showInvalid(err) {
		return err
	}

	var saved models.Vendor
	if current.ID == "" {
		saved, err = r.Create(ctx, form.Input())
	} else {
		saved, err = r.Update(ctx, current.ID, form.Input())
	}
	notice(a, r.Collection)
	if err == nil {
		a.println(renderVendor(saved))
	}
	return err
}

func orString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func formatPoint(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', 6, 64) + ", " + strconv.FormatFloat(lng, 'f', 6, 64)
}

func (a *App) offers(ctx context.Context, vendorID, sub string, args []string) error {
	if !a.enter(ctx, "/vendors/"+vendorID+"/materials") {
		return nil
	}
	r := a.store.VendorMaterials

	materialID := func() (string, error) {
		return needID(args, "offers <vendorId> "+sub+" <materialId>")
	}

	switch sub {
	case "list":
		err := r.List(ctx, vendorID, params(args))
		notice(a, r.Collection)
		if err != nil {
			return err
		}
		if v := a.store.Vendors.Snapshot().Selected; v != nil {
			a.printf("Offers of %s\n", v.Name)
		}
		printRows(a, r.Snapshot().Items, renderOffer)
		return nil
	case "add", "edit":
		form := validate.VendorMaterialForm{Editing: sub == "edit", MinOrderQty: 1, IsAvailable: true}
		if form.Editing {
			id, err := materialID()
			if err != nil {
				return err
			}
			if cur, err := r.Find(models.Key{Parent: vendorID, ID: id}); err == nil {
				form.Price, form.MinOrderQty, form.MaxOrderQty = cur.Price, cur.MinOrderQty, cur.MaxOrderQty
				form.IsAvailable, form.Specs = cur.IsAvailable, cur.Specs
			}
			form.MaterialID = id
		} else {
			var err error
			if form.MaterialID, err = a.ask("Material ID", ""); err != nil {
				return err
			}
		}
		if err := a.askOffer(&form); err != nil {
			return err
		}
		if err := validate.Check(form); a.showInvalid(err) {
			return err
		}
		var (
			saved models.VendorMaterial
			err   error
		)
		if form.Editing {
			saved, err = r.Update(ctx, vendorID, form.MaterialID, form.Input())
		} else {
			saved, err = r.Add(ctx, vendorID, form.Input())
		}
		notice(a, r.Collection)
		if err == nil {
			a.println(renderOffer(saved))
		}
		return err
	case "remove":
		id, err := materialID()
		if err != nil {
			return err
		}
		if !Confirm(a.reader, "Remove material "+id+" from this vendor?", a.out) {
			return errCancelled
		}
		err = r.Remove(ctx, vendorID, id)
		notice(a, r.Collection)
		return err
	case "toggle":
		id, err := materialID()
		if err != nil {
			return err
		}
		o, err := r.ToggleAvailability(ctx, vendorID, id)
		notice(a, r.Collection)
		if err == nil {
			a.println(renderOffer(o))
		}
		return err
	}
	return usageError("offers <vendorId> list|add|edit|remove|toggle [materialId]")
}

func (a *App) askOffer(form *validate.VendorMaterialForm) error {
	var err error
	if form.Price, err = GetNumber(a.reader, "Price", form.Price, a.out); err != nil {
		return err
	}
	minQty, err := GetNumber(a.reader, "Min order quantity", float64(form.MinOrderQty), a.out)
	if err != nil {
		return err
	}
	form.MinOrderQty = int(minQty)

	curMax := 0.0
	if form.MaxOrderQty != nil {
		curMax = float64(*form.MaxOrderQty)
	}
	maxQty, err := GetNumber(a.reader, "Max order quantity (empty for none)", curMax, a.out)
	if err != nil {
		return err
	}
	if maxQty > 0 {
		n := int(maxQty)
		form.MaxOrderQty = &n
	}

	avail := "yes"
	if !form.IsAvailable {
		avail = "no"
	}
	if avail, err = a.ask("Available (yes/no)", avail); err != nil {
		return err
	}
	form.IsAvailable = strings.HasPrefix(strings.ToLower(avail), "y")
	form.Specs, err = a.ask("Specifications", form.Specs)
	return err
}
