package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/buildhub/internal/client/guard"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/client/validate"
)

// ask reads one answer; current is kept when the answer is empty.
func (a *App) ask(prompt, current string) (string, error) {
	return GetWithDefault(a.reader, prompt, current, a.out)
}

// askImage loads an optional image file for a multipart upload.
func (a *App) askImage() (*models.Upload, error) {
	p, err := a.ask("Image file (empty to skip)", "")
	if err != nil || p == "" {
		return nil, err
	}
	data, err := readFile(p)
	if err != nil {
		a.println("Error: cannot read image:", err)
		return nil, errCancelled
	}
	return &models.Upload{Filename: filepath.Base(p), Data: data}, nil
}

func needID(args []string, usage string) (string, error) {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return "", usageError(usage)
	}
	return args[0], nil
}

func (a *App) categories(ctx context.Context, sub string, args []string) error {
	if !a.enter(ctx, guard.PathCategories) {
		return nil
	}
	r := a.store.Categories
	if ok, err := lifecycle(ctx, a, r.Collection, renderCategory, sub, args); ok {
		return err
	}

	var current models.Category
	switch sub {
	case "add":
	case "edit":
		id, err := needID(args, "categories edit <id>")
		if err != nil {
			return err
		}
		if current, err = r.Get(ctx, models.ID(id)); err != nil {
			notice(a, r.Collection)
			return err
		}
	default:
		return usageError("categories list|trash|show|add|edit|delete|restore|purge|toggle")
	}

	var form validate.CategoryForm
	var err error
	if form.Name, err = a.ask("Name", current.Name); err != nil {
		return err
	}
	if form.Description, err = a.ask("Description", current.Description); err != nil {
		return err
	}
	if form.Status, err = a.ask("Status (active/inactive)", current.Status); err != nil {
		return err
	}
	if err := validate.Check(form); a.showInvalid(err) {
		return err
	}
	img, err := a.askImage()
	if err != nil {
		return err
	}

	var saved models.Category
	if current.ID == "" {
		saved, err = r.Create(ctx, form.Input(img))
	} else {
		saved, err = r.Update(ctx, current.ID, form.Input(img))
	}
	notice(a, r.Collection)
	if err == nil {
		a.println(renderCategory(saved))
	}
	return err
}

func (a *App) subCategories(ctx context.Context, sub string, args []string) error {
	if !a.enter(ctx, guard.PathSubCategories) {
		return nil
	}
	r := a.store.SubCategories
	if ok, err := lifecycle(ctx, a, r.Collection, renderSubCategory, sub, args); ok {
		return err
	}

	var current models.SubCategory
	switch sub {
	case "bycat":
		id, err := needID(args, "subcategories bycat <categoryId>")
		if err != nil {
			return err
		}
		err = r.ListByCategory(ctx, id)
		notice(a, r.Collection)
		if err == nil {
			printRows(a, r.Snapshot().Items, renderSubCategory)
		}
		return err
	case "add":
	case "edit":
		id, err := needID(args, "subcategories edit <id>")
		if err != nil {
			return err
		}
		if current, err = r.Get(ctx, models.ID(id)); err != nil {
			notice(a, r.Collection)
			return err
		}
	default:
		return usageError("subcategories list|trash|bycat|show|add|edit|delete|restore|purge|toggle")
	}

	var form validate.SubCategoryForm
	var err error
	if form.CategoryID, err = a.ask("Category ID", current.Category.ID); err != nil {
		return err
	}
	if form.Name, err = a.ask("Name", current.Name); err != nil {
		return err
	}
	if form.Description, err = a.ask("Description", current.Description); err != nil {
		return err
	}
	if form.Status, err = a.ask("Status (active/inactive)", current.Status); err != nil {
		return err
	}
	if err := validate.Check(form); a.showInvalid(err) {
		return err
	}
	img, err := a.askImage()
	if err != nil {
		return err
	}

	var saved models.SubCategory
	if current.ID == "" {
		saved, err = r.Create(ctx, form.Input(img))
	} else {
		saved, err = r.Update(ctx, current.ID, form.Input(img))
	}
	notice(a, r.Collection)
	if err == nil {
		a.println(renderSubCategory(saved))
	}
	return err
}

func (a *App) materials(ctx context.Context, sub string, args []string) error {
	if !a.enter(ctx, guard.PathMaterials) {
		return nil
	}
	r := a.store.Materials
	if ok, err := lifecycle(ctx, a, r.Collection, renderMaterial, sub, args); ok {
		return err
	}

	var current models.Material
	switch sub {
	case "bycat", "bysub":
		id, err := needID(args, "materials "+sub+" <id>")
		if err != nil {
			return err
		}
		if sub == "bycat" {
			err = r.ListByCategory(ctx, id)
		} else {
			err = r.ListBySubCategory(ctx, id)
		}
		notice(a, r.Collection)
		if err == nil {
			printRows(a, r.Snapshot().Items, renderMaterial)
		}
		return err
	case "units":
		units, err := r.FetchUnits(ctx)
		notice(a, r.Collection)
		if err == nil {
			a.println(strings.Join(units, ", "))
		}
		return err
	case "add":
	case "edit":
		id, err := needID(args, "materials edit <id>")
		if err != nil {
			return err
		}
		if current, err = r.Get(ctx, models.ID(id)); err != nil {
			notice(a, r.Collection)
			return err
		}
	default:
		return usageError("materials list|trash|bycat|bysub|units|show|add|edit|delete|restore|purge|toggle")
	}

	form := validate.MaterialForm{Price: current.Price, Stock: current.Stock}
	var err error
	for _, q := range []struct {
		prompt  string
		current string
		dst     *string
	}{
		{"Category ID", current.Category.ID, &form.CategoryID},
		{"Sub-category ID", current.SubCategory.ID, &form.SubCategoryID},
		{"Name", current.Name, &form.Name},
		{"Description", current.Description, &form.Description},
		{"Unit (e.g. Bag, Kg, Ton)", current.Unit, &form.Unit},
	} {
		if *q.dst, err = a.ask(q.prompt, q.current); err != nil {
			return err
		}
	}
	if form.Price, err = GetNumber(a.reader, "Price", current.Price, a.out); err != nil {
		return err
	}
	stock, err := GetNumber(a.reader, "Stock", float64(current.Stock), a.out)
	if err != nil {
		return err
	}
	form.Stock = int(stock)
	if form.Status, err = a.ask("Status (active/inactive)", current.Status); err != nil {
		return err
	}
	if err := validate.Check(form); a.showInvalid(err) {
		return err
	}
	img, err := a.askImage()
	if err != nil {
		return err
	}

	var saved models.Material
	if current.ID == "" {
		saved, err = r.Create(ctx, form.Input(img))
	} else {
		saved, err = r.Update(ctx, current.ID, form.Input(img))
	}
	notice(a, r.Collection)
	if err == nil {
		a.println(renderMaterial(saved))
	}
	return err
}
