package httpapi

import (
	"errors"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/server/memstore"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultNearbyRadiusKm = 10
	earthRadiusKm         = 6371.0
)

type createVendorRequest struct {
	Name         string           `json:"name" binding:"required"`
	BusinessName string           `json:"businessName"`
	Email        string           `json:"email" binding:"required,email"`
	Mobile       string           `json:"mobile" binding:"required"`
	GSTNumber    string           `json:"gstNumber"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	State        string           `json:"state"`
	Pincode      string           `json:"pincode"`
	Location     *models.GeoPoint `json:"location"`
	Status       string           `json:"status" binding:"omitempty,oneof=active inactive"`
}

func vendorFields(v *models.Vendor) fields {
	return fields{
		Name:      &v.Name,
		Status:    &v.Status,
		Deleted:   &v.IsDeleted,
		UpdatedAt: &v.UpdatedAt,
		Also:      []string{v.BusinessName, v.Email, v.City},
	}
}

func (h *Handler) mountVendors(g *gin.RouterGroup) {
	l := &lifecycle[models.Vendor]{singular: "Vendor", table: h.db.Vendors, fields: vendorFields, now: h.now}
	g.POST("", h.createVendor)
	g.PUT("/:id", h.updateVendor)
	g.GET("/nearby", h.nearbyVendors)
	g.GET("/states", h.vendorStates)
	l.mount(h, g)

	offers := g.Group("/:id/materials")
	offers.GET("", h.listOffers)
	offers.POST("", h.addOffer)
	offers.PUT("/:materialId", h.updateOffer)
	offers.DELETE("/:materialId", h.removeOffer)
	offers.PATCH("/:materialId/toggle-availability", h.toggleOffer)
}

func (h *Handler) vendorEmailTaken(email, exceptID string) bool {
	return len(h.db.Vendors.Filter(func(v models.Vendor) bool {
		return v.ID != exceptID && !v.IsDeleted && strings.EqualFold(v.Email, email)
	})) > 0
}

func (h *Handler) createVendor(c *gin.Context) {
	var req createVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Name, a valid email and mobile are required")
		return
	}
	if h.vendorEmailTaken(req.Email, "") {
		fail(c, http.StatusConflict, "Vendor with this email already exists")
		return
	}

	now := h.now()
	v := models.Vendor{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		BusinessName: req.BusinessName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Mobile:       req.Mobile,
		GSTNumber:    strings.ToUpper(req.GSTNumber),
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Location:     req.Location,
		Status:       orDefault(req.Status, models.StatusActive),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.db.Vendors.Insert(v); err != nil {
		h.failErr(c, err, "")
		return
	}
	respond(c, http.StatusCreated, v, "Vendor created successfully", nil)
}

func (h *Handler) updateVendor(c *gin.Context) {
	var in models.VendorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	id := c.Param("id")
	if in.Email != "" && h.vendorEmailTaken(in.Email, id) {
		fail(c, http.StatusConflict, "Vendor with this email already exists")
		return
	}
	if in.Status != "" && in.Status != models.StatusActive && in.Status != models.StatusInactive {
		fail(c, http.StatusBadRequest, "Status must be active or inactive")
		return
	}

	v, err := h.db.Vendors.Update(id, func(v *models.Vendor) error {
		setIf(&v.Name, strings.TrimSpace(in.Name))
		setIf(&v.BusinessName, in.BusinessName)
		setIf(&v.Email, strings.ToLower(strings.TrimSpace(in.Email)))
		setIf(&v.Mobile, in.Mobile)
		setIf(&v.GSTNumber, strings.ToUpper(in.GSTNumber))
		setIf(&v.Address, in.Address)
		setIf(&v.City, in.City)
		setIf(&v.State, in.State)
		setIf(&v.Pincode, in.Pincode)
		setIf(&v.Status, in.Status)
		if in.Location != nil {
			v.Location = in.Location
		}
		v.UpdatedAt = h.now()
		return nil
	})
	if err != nil {
		h.failErr(c, err, "Vendor not found")
		return
	}
	respond(c, http.StatusOK, v, "Vendor updated successfully", nil)
}

// distanceKm is the haversine great-circle distance.
func distanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat, dLng := rad(lat2-lat1), rad(lng2-lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func (h *Handler) nearbyVendors(c *gin.Context) {
	lng, errLng := strconv.ParseFloat(c.Query("longitude"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
	if errLng != nil || errLat != nil {
		fail(c, http.StatusBadRequest, "Longitude and latitude are required")
		return
	}
	radius, err := strconv.ParseFloat(c.Query("radius"), 64)
	if err != nil || radius <= 0 {
		radius = defaultNearbyRadiusKm
	}

	dist := make(map[string]float64)
	found := h.db.Vendors.Filter(func(v models.Vendor) bool {
		if v.IsDeleted || v.Status != models.StatusActive || v.Location == nil {
			return false
		}
		d := distanceKm(lat, lng, v.Location.Lat(), v.Location.Lng())
		dist[v.ID] = d
		return d <= radius
	})
	sort.SliceStable(found, func(i, j int) bool { return dist[found[i].ID] < dist[found[j].ID] })
	respond(c, http.StatusOK, found, "", nil)
}

func (h *Handler) vendorStates(c *gin.Context) {
	seen := make(map[string]bool)
	states := []string{}
	for _, v := range h.db.Vendors.Filter(nil) {
		if v.IsDeleted || v.State == "" || seen[v.State] {
			continue
		}
		seen[v.State] = true
		states = append(states, v.State)
	}
	sort.Strings(states)
	respond(c, http.StatusOK, states, "", nil)
}

// offerRequest leaves IsAvailable unset when the client omits it.
type offerRequest struct {
	MaterialID  string  `json:"materialId"`
	Price       float64 `json:"price"`
	MinOrderQty int     `json:"minOrderQty"`
	MaxOrderQty *int    `json:"maxOrderQty"`
	IsAvailable *bool   `json:"isAvailable"`
	Specs       string  `json:"specs"`
}

func checkOffer(o models.VendorMaterial) string {
	switch {
	case o.Price <= 0:
		return "Price must be greater than 0"
	case o.MinOrderQty < 1:
		return "Minimum order quantity must be at least 1"
	case o.MaxOrderQty != nil && *o.MaxOrderQty < o.MinOrderQty:
		return "Maximum order quantity must not be less than minimum"
	}
	return ""
}

func (h *Handler) offerVendor(c *gin.Context) (models.Vendor, bool) {
	v, err := h.db.Vendors.Get(c.Param("id"))
	if err != nil {
		h.failErr(c, err, "Vendor not found")
		return v, false
	}
	return v, true
}

func (h *Handler) listOffers(c *gin.Context) {
	v, ok := h.offerVendor(c)
	if !ok {
		return
	}
	offers := h.db.VendorMaterials.Filter(func(o models.VendorMaterial) bool { return o.Vendor.ID == v.ID })
	respond(c, http.StatusOK, offers, "", gin.H{"vendor": v})
}

func (h *Handler) addOffer(c *gin.Context) {
	v, ok := h.offerVendor(c)
	if !ok {
		return
	}
	var req offerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	m, err := h.db.Materials.Get(req.MaterialID)
	if err != nil || m.IsDeleted {
		fail(c, http.StatusBadRequest, "Invalid material")
		return
	}

	o := models.VendorMaterial{
		ID:          uuid.NewString(),
		Vendor:      ref(v.ID, v.Name),
		Material:    ref(m.ID, m.Name),
		Price:       req.Price,
		MinOrderQty: max(req.MinOrderQty, 1),
		MaxOrderQty: req.MaxOrderQty,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
		Specs:       req.Specs,
	}
	if msg := checkOffer(o); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	if err := h.db.VendorMaterials.Insert(o); err != nil {
		if errors.Is(err, memstore.ErrConflict) {
			fail(c, http.StatusConflict, "Material already added to this vendor")
			return
		}
		h.failErr(c, err, "")
		return
	}
	respond(c, http.StatusCreated, o, "Material added to vendor successfully", nil)
}

func (h *Handler) updateOffer(c *gin.Context) {
	var req offerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var invalid string
	o, err := h.db.VendorMaterials.Update(memstore.OfferKey(c.Param("id"), c.Param("materialId")), func(o *models.VendorMaterial) error {
		next := *o
		if req.Price != 0 {
			next.Price = req.Price
		}
		if req.MinOrderQty != 0 {
			next.MinOrderQty = req.MinOrderQty
		}
		if req.MaxOrderQty != nil {
			next.MaxOrderQty = req.MaxOrderQty
		}
		if req.IsAvailable != nil {
			next.IsAvailable = *req.IsAvailable
		}
		setIf(&next.Specs, req.Specs)
		if invalid = checkOffer(next); invalid != "" {
			return errWrongState
		}
		*o = next
		return nil
	})
	switch {
	case invalid != "":
		fail(c, http.StatusBadRequest, invalid)
	case err != nil:
		h.failErr(c, err, "Vendor material not found")
	default:
		respond(c, http.StatusOK, o, "Vendor material updated successfully", nil)
	}
}

func (h *Handler) removeOffer(c *gin.Context) {
	if err := h.db.VendorMaterials.Delete(memstore.OfferKey(c.Param("id"), c.Param("materialId"))); err != nil {
		h.failErr(c, err, "Vendor material not found")
		return
	}
	respond(c, http.StatusOK, nil, "Material removed from vendor", nil)
}

func (h *Handler) toggleOffer(c *gin.Context) {
	o, err := h.db.VendorMaterials.Update(memstore.OfferKey(c.Param("id"), c.Param("materialId")), func(o *models.VendorMaterial) error {
		o.IsAvailable = !o.IsAvailable
		return nil
	})
	if err != nil {
		h.failErr(c, err, "Vendor material not found")
		return
	}
	respond(c, http.StatusOK, o, "Availability updated", nil)
}
