package resources

import (
	"context"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/client/store"
	"github.com/dmitrijs2005/buildhub/internal/logging"
)

type Categories struct {
	*store.Collection[models.Category]
}

func NewCategories(client api.Doer, log logging.Logger) *Categories {
	return &Categories{store.NewCollection[models.Category](store.Definition{
		Name:     "categories",
		Path:     store.Static("/categories"),
		Messages: store.DefaultMessages("Category", "categories"),
	}, client, log)}
}

// Create sends a multipart payload and prepends the new category.
func (r *Categories) Create(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	return r.Collection.Create(ctx, "", in)
}

func (r *Categories) Update(ctx context.Context, id string, in models.CategoryInput) (models.Category, error) {
	return r.Collection.Update(ctx, models.ID(id), in)
}

type SubCategories struct {
	*store.Collection[models.SubCategory]
}

func NewSubCategories(client api.Doer, log logging.Logger) *SubCategories {
	return &SubCategories{store.NewCollection[models.SubCategory](store.Definition{
		Name:     "sub-categories",
		Path:     store.Static("/sub-categories"),
		Messages: store.DefaultMessages("Sub-category", "sub-categories"),
	}, client, log)}
}

func (r *SubCategories) Create(ctx context.Context, in models.SubCategoryInput) (models.SubCategory, error) {
	return r.Collection.Create(ctx, "", in)
}

func (r *SubCategories) Update(ctx context.Context, id string, in models.SubCategoryInput) (models.SubCategory, error) {
	return r.Collection.Update(ctx, models.ID(id), in)
}

// ListByCategory replaces the list with the sub-categories of one category.
func (r *SubCategories) ListByCategory(ctx context.Context, categoryID string) error {
	return r.ListFrom(ctx, "/sub-categories/category/"+url.PathEscape(categoryID), nil, "")
}

type Materials struct {
	*store.Collection[models.Material]

	mu    sync.RWMutex
	units []string
}

func NewMaterials(client api.Doer, log logging.Logger) *Materials {
	return &Materials{Collection: store.NewCollection[models.Material](store.Definition{
		Name:     "materials",
		Path:     store.Static("/materials"),
		Messages: store.DefaultMessages("Material", "materials"),
	}, client, log)}
}

func (r *Materials) Create(ctx context.Context, in models.MaterialInput) (models.Material, error) {
	return r.Collection.Create(ctx, "", in)
}

func (r *Materials) Update(ctx context.Context, id string, in models.MaterialInput) (models.Material, error) {
	return r.Collection.Update(ctx, models.ID(id), in)
}

func (r *Materials) ListByCategory(ctx context.Context, categoryID string) error {
	return r.ListFrom(ctx, "/materials/category/"+url.PathEscape(categoryID), nil, "")
}

func (r *Materials) ListBySubCategory(ctx context.Context, subCategoryID string) error {
	return r.ListFrom(ctx, "/materials/sub-category/"+url.PathEscape(subCategoryID), nil, "")
}

// FetchUnits loads the unit vocabulary (bag, kg, ton...) kept beside the list.
func (r *Materials) FetchUnits(ctx context.Context) ([]string, error) {
	units, err := store.Lookup[[]string](ctx, r.Collection, "/materials/units", nil, "Failed to fetch units.")
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.units = units
	r.mu.Unlock()
	return units, nil
}

func (r *Materials) Units() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.units...)
}
