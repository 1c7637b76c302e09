package resources

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/client/store"
	"github.com/dmitrijs2005/buildhub/internal/logging"
)

// DefaultNearbyRadiusKm is the search radius used when none is given.
const DefaultNearbyRadiusKm = 10

type Vendors struct {
	*store.Collection[models.Vendor]

	mu     sync.RWMutex
	states []string
}

func NewVendors(client api.Doer, log logging.Logger) *Vendors {
	return &Vendors{Collection: store.NewCollection[models.Vendor](store.Definition{
		Name:     "vendors",
		Path:     store.Static("/vendors"),
		Messages: store.DefaultMessages("Vendor", "vendors"),
	}, client, log)}
}

func (r *Vendors) Create(ctx context.Context, in models.VendorInput) (models.Vendor, error) {
	return r.Collection.Create(ctx, "", in)
}

func (r *Vendors) Update(ctx context.Context, id string, in models.VendorInput) (models.Vendor, error) {
	return r.Collection.Update(ctx, models.ID(id), in)
}

// Nearby replaces the list with vendors within radiusKm of the point.
func (r *Vendors) Nearby(ctx context.Context, lng, lat float64, radiusKm float64) error {
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	q := url.Values{}
	q.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))
	return r.ListFrom(ctx, "/vendors/nearby", q, "Failed to fetch nearby vendors.")
}

func (r *Vendors) FetchStates(ctx context.Context) ([]string, error) {
	states, err := store.Lookup[[]string](ctx, r.Collection, "/vendors/states", nil, "Failed to fetch states.")
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.states = states
	r.mu.Unlock()
	return states, nil
}

func (r *Vendors) States() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.states...)
}

func (r *Vendors) setSelected(v models.Vendor) {
	r.Mutate(func(s *store.State[models.Vendor]) { s.Selected = &v })
}

// VendorMaterials is the offer list of one vendor at a time. Operations are
// addressed by (vendorID, materialID).
type VendorMaterials struct {
	*store.Collection[models.VendorMaterial]
}

func vendorMaterialsPath(vendorID string) string {
	return "/vendors/" + url.PathEscape(vendorID) + "/materials"
}

// NewVendorMaterials builds the offer collection. onVendor receives the parent
// vendor carried by list responses.
func NewVendorMaterials(client api.Doer, log logging.Logger, onVendor func(models.Vendor)) *VendorMaterials {
	def := store.Definition{
		Name:         "vendor-materials",
		Path:         vendorMaterialsPath,
		ToggleAction: "toggle-availability",
		Messages: store.Messages{
			ListFailed:   "Failed to fetch vendor materials.",
			Created:      "Material added successfully.",
			CreateFailed: "Failed to add material to vendor.",
			Updated:      "Material updated successfully.",
			UpdateFailed: "Failed to update vendor material.",
			Deleted:      "Material removed successfully.",
			DeleteFailed: "Failed to remove material from vendor.",
			Toggled:      "Material availability updated.",
			ToggleFailed: "Failed to toggle material availability.",
		},
		OnList: func(resp *api.Response) {
			var v models.Vendor
			if ok, err := resp.Field("vendor", &v); ok && err == nil && onVendor != nil {
				onVendor(v)
			}
		},
	}
	return &VendorMaterials{store.NewCollection[models.VendorMaterial](def, client, log)}
}

func key(vendorID, materialID string) models.Key {
	return models.Key{Parent: vendorID, ID: materialID}
}

// List loads the offers of vendorID and scopes the collection to it.
func (r *VendorMaterials) List(ctx context.Context, vendorID string, params url.Values) error {
	return r.ListIn(ctx, vendorID, params)
}

func (r *VendorMaterials) Add(ctx context.Context, vendorID string, in models.VendorMaterialInput) (models.VendorMaterial, error) {
	return r.Collection.Create(ctx, vendorID, in)
}

func (r *VendorMaterials) Update(ctx context.Context, vendorID, materialID string, in models.VendorMaterialInput) (models.VendorMaterial, error) {
	in.MaterialID = ""
	return r.Collection.Update(ctx, key(vendorID, materialID), in)
}

func (r *VendorMaterials) Remove(ctx context.Context, vendorID, materialID string) error {
	return r.SoftDelete(ctx, key(vendorID, materialID))
}

func (r *VendorMaterials) ToggleAvailability(ctx context.Context, vendorID, materialID string) (models.VendorMaterial, error) {
	return r.ToggleStatus(ctx, key(vendorID, materialID), nil)
}

// Clear empties the scoped list when its view is left.
func (r *VendorMaterials) Clear() {
	r.Reset()
}
