package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/logging"
	"github.com/dmitrijs2005/buildhub/internal/server/accounts"
	"github.com/dmitrijs2005/buildhub/internal/server/config"
	"github.com/dmitrijs2005/buildhub/internal/server/images"
	"github.com/dmitrijs2005/buildhub/internal/server/memstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type nopSender struct{}

func (nopSender) Send(context.Context, string, string, string) error { return nil }

type harness struct {
	t      *testing.T
	db     *memstore.Database
	router *gin.Engine
	token  string
}

type envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
	Vendor     *models.Vendor     `json:"vendor"`
	Stats      *models.UserStats  `json:"stats"`
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var cfg config.Config
	cfg.LoadDefaults()

	db := memstore.NewDatabase()
	require.NoError(t, db.SeedDemo(time.Now().UTC()))
	acc := accounts.NewService(db, nopSender{}, &cfg, logging.Nop())
	_, err := acc.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
	require.NoError(t, err)

	h := NewHandler(db, acc, images.NewMemoryStore(UploadsPath), logging.Nop(), opts...)
	hs := &harness{t: t, db: db, router: h.Router(cfg.BasePath)}

	var res models.LoginResult
	env := hs.do(http.MethodPost, "/api/auth/login", map[string]string{"email": cfg.AdminEmail, "password": cfg.AdminPassword}, http.StatusOK)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	hs.token = res.Token
	return hs
}

func (h *harness) send(req *http.Request, want int) envelope {
	h.t.Helper()
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	require.Equal(h.t, want, w.Code, w.Body.String())

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return env
}

func (h *harness) do(method, path string, body any, want int) envelope {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.send(req, want)
}

func (h *harness) form(method, path string, in api.Multipart, want int) envelope {
	h.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(h.t, in.WriteMultipart(w))
	require.NoError(h.t, w.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return h.send(req, want)
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.token = ""

	env := h.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@buildhub.in", "password": "nope"}, http.StatusUnauthorized)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid email or password", env.Message)

	env = h.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@buildhub.in"}, http.StatusBadRequest)
	assert.Equal(t, "Email and password are required", env.Message)
}

func TestLogin_RateLimited(t *testing.T) {
	h := newHarness(t, WithLoginRate(rate.Every(time.Hour), 1))
	env := h.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.c", "password": "x"}, http.StatusTooManyRequests)
	assert.False(t, env.Success)
}

func TestRequireAdmin(t *testing.T) {
	h := newHarness(t)

	h.do(http.MethodGet, "/api/auth/profile", nil, http.StatusOK)

	h.token = ""
	env := h.do(http.MethodGet, "/api/categories", nil, http.StatusUnauthorized)
	assert.Equal(t, "Not authorized, no token", env.Message)

	h.token = "garbage"
	env = h.do(http.MethodGet, "/api/categories", nil, http.StatusUnauthorized)
	assert.Equal(t, "Not authorized, token failed", env.Message)

	h.do(http.MethodGet, "/api/health", nil, http.StatusOK)
}

func TestRequestID(t *testing.T) {
	h := newHarness(t)

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "from-console")
	w = httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	assert.Equal(t, "from-console", w.Header().Get(RequestIDHeader))
}

func TestChangePassword_WrongCurrentIsBadRequest(t *testing.T) {
	h := newHarness(t)
	env := h.do(http.MethodPut, "/api/auth/change-password",
		map[string]string{"currentPassword": "wrong", "newPassword": "secret99"}, http.StatusBadRequest)
	assert.Equal(t, "Current password is incorrect", env.Message)
}

func TestCategoryLifecycle(t *testing.T) {
	h := newHarness(t)

	env := h.form(http.MethodPost, "/api/categories", models.CategoryInput{
		Name:  "Cement & Binders",
		Image: &models.Upload{Filename: "cement.png", Data: []byte("\x89PNG\r\n\x1a\nfake")},
	}, http.StatusCreated)
	assert.Equal(t, "Category created successfully", env.Message)
	cat := decode[models.Category](t, env)
	assert.Equal(t, models.StatusActive, cat.Status)
	require.True(t, strings.HasPrefix(cat.Image, UploadsPath+"/"), cat.Image)

	h.send(httptest.NewRequest(http.MethodGet, cat.Image, nil), http.StatusOK)

	env = h.form(http.MethodPost, "/api/categories", models.CategoryInput{Name: "cement & binders"}, http.StatusConflict)
	assert.Equal(t, "Category already exists", env.Message)

	env = h.do(http.MethodDelete, "/api/categories/"+cat.ID+"/permanent", nil, http.StatusBadRequest)
	assert.False(t, env.Success)

	env = h.do(http.MethodDelete, "/api/categories/"+cat.ID, nil, http.StatusOK)
	assert.Equal(t, "Category moved to trash", env.Message)

	live := decode[[]models.Category](t, h.do(http.MethodGet, "/api/categories", nil, http.StatusOK))
	for _, c := range live {
		assert.NotEqual(t, cat.ID, c.ID)
	}
	trashed := decode[[]models.Category](t, h.do(http.MethodGet, "/api/categories?showDeleted=true", nil, http.StatusOK))
	require.Len(t, trashed, 1)
	assert.True(t, trashed[0].IsDeleted)

	env = h.do(http.MethodPatch, "/api/categories/"+cat.ID+"/restore", nil, http.StatusOK)
	assert.Equal(t, "Category restored successfully", env.Message)
	env = h.do(http.MethodPatch, "/api/categories/"+cat.ID+"/restore", nil, http.StatusBadRequest)
	assert.Equal(t, "Category is not in trash", env.Message)

	toggled := decode[models.Category](t, h.do(http.MethodPatch, "/api/categories/"+cat.ID+"/toggle-status", nil, http.StatusOK))
	assert.Equal(t, models.StatusInactive, toggled.Status)
	toggled = decode[models.Category](t, h.do(http.MethodPatch, "/api/categories/"+cat.ID+"/toggle-status",
		models.StatusInput{Status: models.StatusInactive}, http.StatusOK))
	assert.Equal(t, models.StatusInactive, toggled.Status)

	h.do(http.MethodDelete, "/api/categories/"+cat.ID, nil, http.StatusOK)
	env = h.do(http.MethodDelete, "/api/categories/"+cat.ID+"/permanent", nil, http.StatusOK)
	assert.Equal(t, "Category permanently deleted", env.Message)
	h.do(http.MethodGet, "/api/categories/"+cat.ID, nil, http.StatusNotFound)
}

func TestToggleStatus_UnreadableBody(t *testing.T) {
	h := newHarness(t)
	cats := decode[[]models.Category](t, h.do(http.MethodGet, "/api/categories?search=steel", nil, http.StatusOK))
	require.Len(t, cats, 1)

	req := httptest.NewRequest(http.MethodPatch, "/api/categories/"+cats[0].ID+"/toggle-status", iotest.ErrReader(errors.New("connection reset")))
	req.Header.Set("Content-Type", "application/json")
	env := h.send(req, http.StatusBadRequest)
	assert.Equal(t, "Invalid request body", env.Message)

	got := decode[models.Category](t, h.do(http.MethodGet, "/api/categories/"+cats[0].ID, nil, http.StatusOK))
	assert.Equal(t, models.StatusActive, got.Status)
}

func TestListPaginationAndSearch(t *testing.T) {
	h := newHarness(t)

	env := h.do(http.MethodGet, "/api/categories?limit=1&page=2", nil, http.StatusOK)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 1, Total: 2, TotalPages: 2}, *env.Pagination)
	assert.Len(t, decode[[]models.Category](t, env), 1)

	found := decode[[]models.Category](t, h.do(http.MethodGet, "/api/categories?search=steel", nil, http.StatusOK))
	require.Len(t, found, 1)
	assert.Equal(t, "Steel & TMT Bars", found[0].Name)
}

func TestMaterials_CrossChecksSubCategory(t *testing.T) {
	h := newHarness(t)
	cats := decode[[]models.Category](t, h.do(http.MethodGet, "/api/categories?search=steel", nil, http.StatusOK))
	subs := decode[[]models.SubCategory](t, h.do(http.MethodGet, "/api/sub-categories?search=m-sand", nil, http.StatusOK))
	require.Len(t, cats, 1)
	require.Len(t, subs, 1)

	env := h.form(http.MethodPost, "/api/materials", models.MaterialInput{
		Name: "Mismatch", CategoryID: cats[0].ID, SubCategoryID: subs[0].ID, Unit: "Kg", Price: 10,
	}, http.StatusBadRequest)
	assert.Equal(t, "Sub-category does not belong to the selected category", env.Message)

	byCat := decode[[]models.SubCategory](t, h.do(http.MethodGet, "/api/sub-categories/category/"+cats[0].ID, nil, http.StatusOK))
	require.Len(t, byCat, 1)

	env = h.form(http.MethodPost, "/api/materials", models.MaterialInput{
		Name: "TMT Bar 16mm", CategoryID: cats[0].ID, SubCategoryID: byCat[0].ID, Unit: "Quintal", Price: 6400,
	}, http.StatusCreated)
	m := decode[models.Material](t, env)
	assert.Equal(t, byCat[0].ID, m.SubCategory.ID)

	units := decode[[]string](t, h.do(http.MethodGet, "/api/materials/units", nil, http.StatusOK))
	assert.Contains(t, units, "Bag")
	assert.Contains(t, units, "Quintal")
}

func TestVendorOffers(t *testing.T) {
	h := newHarness(t)

	env := h.do(http.MethodPost, "/api/vendors", map[string]string{"name": "No Mail"}, http.StatusBadRequest)
	assert.False(t, env.Success)

	v := decode[models.Vendor](t, h.do(http.MethodPost, "/api/vendors", models.VendorInput{
		Name: "Deccan Cement", Email: "orders@deccan.in", Mobile: "9000000001", State: "Karnataka",
	}, http.StatusCreated))
	h.do(http.MethodPost, "/api/vendors", models.VendorInput{Name: "Dup", Email: "ORDERS@deccan.in", Mobile: "9"}, http.StatusConflict)

	mats := decode[[]models.Material](t, h.do(http.MethodGet, "/api/materials?search=plaster", nil, http.StatusOK))
	require.Len(t, mats, 1)

	base := "/api/vendors/" + v.ID + "/materials"
	offer := decode[models.VendorMaterial](t, h.do(http.MethodPost, base, models.VendorMaterialInput{
		MaterialID: mats[0].ID, Price: 60, MinOrderQty: 50,
	}, http.StatusCreated))
	assert.True(t, offer.IsAvailable)
	assert.Equal(t, models.Key{Parent: v.ID, ID: mats[0].ID}, offer.Key())

	env = h.do(http.MethodPost, base, models.VendorMaterialInput{MaterialID: mats[0].ID, Price: 61, MinOrderQty: 1}, http.StatusConflict)
	assert.Equal(t, "Material already added to this vendor", env.Message)

	maxQty, available := 10, true
	env = h.do(http.MethodPut, base+"/"+mats[0].ID, models.VendorMaterialInput{Price: 60, MinOrderQty: 50, MaxOrderQty: &maxQty, IsAvailable: &available}, http.StatusBadRequest)
	assert.Equal(t, "Maximum order quantity must not be less than minimum", env.Message)

	env = h.do(http.MethodGet, base, nil, http.StatusOK)
	require.NotNil(t, env.Vendor)
	assert.Equal(t, v.ID, env.Vendor.ID)
	assert.Len(t, decode[[]models.VendorMaterial](t, env), 1)

	toggled := decode[models.VendorMaterial](t, h.do(http.MethodPatch, base+"/"+mats[0].ID+"/toggle-availability", nil, http.StatusOK))
	assert.False(t, toggled.IsAvailable)

	h.do(http.MethodDelete, base+"/"+mats[0].ID, nil, http.StatusOK)
	h.do(http.MethodDelete, base+"/"+mats[0].ID, nil, http.StatusNotFound)

	states := decode[[]string](t, h.do(http.MethodGet, "/api/vendors/states", nil, http.StatusOK))
	assert.Equal(t, []string{"Karnataka", "Maharashtra"}, states)
}

func TestNearbyVendors(t *testing.T) {
	h := newHarness(t)

	h.do(http.MethodGet, "/api/vendors/nearby", nil, http.StatusBadRequest)

	near := decode[[]models.Vendor](t, h.do(http.MethodGet, "/api/vendors/nearby?latitude=18.52&longitude=73.85", nil, http.StatusOK))
	require.Len(t, near, 1)
	assert.Equal(t, "Shree Traders", near[0].Name)

	wide := decode[[]models.Vendor](t, h.do(http.MethodGet, "/api/vendors/nearby?latitude=18.52&longitude=73.85&radius=500", nil, http.StatusOK))
	require.Len(t, wide, 2)
	assert.Equal(t, "Shree Traders", wide[0].Name)
}

func TestDistanceKm(t *testing.T) {
	// Pune to Mumbai is roughly 120 km as the crow flies.
	d := distanceKm(18.5204, 73.8567, 19.0760, 72.8777)
	assert.InDelta(t, 120, d, 5)
	assert.Zero(t, distanceKm(10, 10, 10, 10))
}

func TestUsers(t *testing.T) {
	h := newHarness(t)

	env := h.do(http.MethodGet, "/api/users", nil, http.StatusOK)
	require.NotNil(t, env.Stats)
	assert.Equal(t, 2, env.Stats.Total)
	users := decode[[]models.User](t, env)
	require.NotEmpty(t, users)

	blocked := decode[models.User](t, h.do(http.MethodPatch, "/api/users/"+users[0].ID+"/block", nil, http.StatusOK))
	assert.True(t, blocked.IsBlocked)

	stats := decode[models.UserStats](t, h.do(http.MethodGet, "/api/users/stats", nil, http.StatusOK))
	assert.Equal(t, 1, stats.Blocked)

	found := decode[[]models.User](t, h.do(http.MethodGet, "/api/users?search=ravi@example", nil, http.StatusOK))
	require.Len(t, found, 1)
	assert.Equal(t, "Ravi Kumar", found[0].Name)
}

func TestBookingsAndTransactions(t *testing.T) {
	h := newHarness(t)

	bookings := decode[[]models.Booking](t, h.do(http.MethodGet, "/api/bookings?status=pending", nil, http.StatusOK))
	require.Len(t, bookings, 1)
	id := bookings[0].ID

	env := h.do(http.MethodPatch, "/api/bookings/"+id+"/status", models.StatusInput{Status: "shipped"}, http.StatusBadRequest)
	assert.Contains(t, env.Message, "pending")

	updated := decode[models.Booking](t, h.do(http.MethodPatch, "/api/bookings/"+id+"/status", models.StatusInput{Status: models.BookingConfirmed}, http.StatusOK))
	assert.Equal(t, models.BookingConfirmed, updated.Status)

	txns := decode[[]models.Transaction](t, h.do(http.MethodGet, "/api/transactions?search=TXN", nil, http.StatusOK))
	require.Len(t, txns, 1)
	paid := decode[models.Transaction](t, h.do(http.MethodPatch, "/api/transactions/"+txns[0].ID+"/status", models.StatusInput{Status: models.TransactionSuccess}, http.StatusOK))
	assert.Equal(t, models.TransactionSuccess, paid.Status)

	h.do(http.MethodDelete, "/api/bookings/"+id, nil, http.StatusOK)
	h.do(http.MethodGet, "/api/bookings/"+id, nil, http.StatusNotFound)
}
