package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/config"
	"github.com/dmitrijs2005/buildhub/internal/client/geo"
	"github.com/dmitrijs2005/buildhub/internal/client/guard"
	"github.com/dmitrijs2005/buildhub/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/buildhub/internal/logging"
	"github.com/dmitrijs2005/buildhub/internal/server/accounts"
	sconfig "github.com/dmitrijs2005/buildhub/internal/server/config"
	"github.com/dmitrijs2005/buildhub/internal/server/httpapi"
	"github.com/dmitrijs2005/buildhub/internal/server/images"
	"github.com/dmitrijs2005/buildhub/internal/server/mail"
	"github.com/dmitrijs2005/buildhub/internal/server/memstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	places []geo.Place
	addr   geo.Address
	err    error
}

func (f *fakeGeocoder) Search(ctx context.Context, query string) ([]geo.Place, error) {
	return f.places, f.err
}

func (f *fakeGeocoder) Reverse(ctx context.Context, lat, lng float64) (geo.Address, error) {
	if f.err != nil {
		return geo.Address{}, f.err
	}
	a := f.addr
	a.Latitude, a.Longitude = lat, lng
	return a, nil
}

type fixture struct {
	app  *App
	out  *bytes.Buffer
	repo *localstore.MemoryRepository
}

// newFixture starts the mock backend and a console reading the given lines.
func newFixture(t *testing.T, g geo.Geocoder, lines ...string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var scfg sconfig.Config
	scfg.LoadDefaults()
	db := memstore.NewDatabase()
	require.NoError(t, db.SeedDemo(time.Now().UTC()))
	acc := accounts.NewService(db, mail.NewLogSender(logging.Nop()), &scfg, logging.Nop())
	_, err := acc.EnsureAdmin(scfg.AdminEmail, scfg.AdminPassword, scfg.AdminName)
	require.NoError(t, err)
	h := httpapi.NewHandler(db, acc, images.NewMemoryStore(httpapi.UploadsPath), logging.Nop())
	srv := httptest.NewServer(h.Router(scfg.BasePath))
	t.Cleanup(srv.Close)

	var cfg config.Config
	cfg.LoadDefaults()
	cfg.APIBaseURL = srv.URL + scfg.BasePath
	cfg.SearchDebounce = 10 * time.Millisecond

	if g == nil {
		g = &fakeGeocoder{}
	}
	input := strings.Join(lines, "\n")
	if input != "" {
		input += "\n"
	}
	out := &bytes.Buffer{}
	repo := localstore.NewMemoryRepository()
	a := newApp(&cfg, logging.Nop(), api.NewClient(cfg.APIBaseURL), repo, g, strings.NewReader(input), out)
	return &fixture{app: a, out: out, repo: repo}
}

func stubPasswords(t *testing.T, passwords ...string) {
	t.Helper()
	orig := getPassword
	getPassword = func(prompt string, w io.Writer) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, errors.New("no more passwords")
		}
		p := passwords[0]
		passwords = passwords[1:]
		return []byte(p), nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func (f *fixture) run(t *testing.T, cmd string, args ...string) error {
	t.Helper()
	known, err := f.app.Dispatch(context.Background(), cmd, args)
	require.True(t, known, cmd)
	return err
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	stubPasswords(t, "admin123")
	require.NoError(t, f.app.Login(context.Background()))
	require.True(t, f.app.isLoggedIn())
	f.out.Reset()
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, nil, "admin@buildhub.in")
	stubPasswords(t, "admin123")

	require.NoError(t, f.app.Login(context.Background()))

	assert.True(t, f.app.isLoggedIn())
	assert.Equal(t, guard.PathDashboard, f.app.currentRoute())
	assert.Contains(t, f.out.String(), "Login successful")

	token, err := f.repo.Get(context.Background(), localstore.KeyToken)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Contains(t, f.app.status(), "admin@buildhub.in")
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t, nil, "admin@buildhub.in")
	stubPasswords(t, "wrongpass")

	require.Error(t, f.app.Login(context.Background()))

	assert.False(t, f.app.isLoggedIn())
	assert.Equal(t, guard.PathLogin, f.app.currentRoute())
	assert.Contains(t, f.out.String(), "Error: Invalid email or password")
	assert.NotContains(t, f.out.String(), "Your session has ended")
}

func TestLogin_InvalidFormNeverReachesServer(t *testing.T) {
	f := newFixture(t, nil, "not-an-email")
	stubPasswords(t, "123")

	require.Error(t, f.app.Login(context.Background()))

	assert.False(t, f.app.isLoggedIn())
	assert.Equal(t, "", f.app.auth.State().LastError)
	assert.NotContains(t, f.out.String(), "Invalid email or password")
}

func TestGuardRedirectsAnonymousConsole(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.run(t, "categories", "list"))

	assert.Contains(t, f.out.String(), "Redirected to /login")
	assert.Equal(t, guard.PathLogin, f.app.currentRoute())
	assert.Empty(t, f.app.store.Categories.Snapshot().Items)
}

func TestCategoriesLifecycle(t *testing.T) {
	f := newFixture(t, nil,
		"admin@buildhub.in",
		// categories add
		"Cement & Binders", "OPC and PPC cement", "active", "",
		// categories purge
		"y",
	)
	f.login(t)

	require.NoError(t, f.run(t, "categories", "add"))
	assert.Contains(t, f.out.String(), "Category created successfully")

	require.NoError(t, f.run(t, "categories", "list", "search=cement"))
	items := f.app.store.Categories.Snapshot().Items
	require.Len(t, items, 1)
	cement := items[0]
	assert.Equal(t, "Cement & Binders", cement.Name)
	assert.Contains(t, f.out.String(), cement.ID+"  Cement & Binders [active]")

	require.NoError(t, f.run(t, "categories", "delete", cement.ID))
	assert.Contains(t, f.out.String(), "Category moved to trash")
	for _, c := range f.app.store.Categories.Snapshot().Items {
		assert.NotEqual(t, cement.ID, c.ID)
	}

	require.NoError(t, f.run(t, "categories", "trash"))
	trashed := f.app.store.Categories.Snapshot().Trashed
	require.Len(t, trashed, 1)
	assert.Equal(t, cement.ID, trashed[0].ID)

	require.NoError(t, f.run(t, "categories", "restore", cement.ID))
	s := f.app.store.Categories.Snapshot()
	assert.Empty(t, s.Trashed)
	require.NotEmpty(t, s.Items)
	assert.Equal(t, cement.ID, s.Items[0].ID)

	require.NoError(t, f.run(t, "categories", "delete", cement.ID))
	require.NoError(t, f.run(t, "categories", "purge", cement.ID))
	assert.Contains(t, f.out.String(), "Category permanently deleted")

	require.NoError(t, f.run(t, "categories", "trash"))
	assert.Empty(t, f.app.store.Categories.Snapshot().Trashed)
}

func TestCategoriesAdd_InvalidFormIsNotSent(t *testing.T) {
	f := newFixture(t, nil, "admin@buildhub.in", "", "", "bogus")
	f.login(t)

	require.Error(t, f.run(t, "categories", "add"))
	assert.NotContains(t, f.out.String(), "created successfully")
	assert.Equal(t, "", f.app.store.Categories.Snapshot().LastError)
}

func TestOffersAreScopedToVendorRoute(t *testing.T) {
	f := newFixture(t, nil, "admin@buildhub.in")
	f.login(t)

	require.NoError(t, f.run(t, "vendors", "list", "search=shree"))
	vendors := f.app.store.Vendors.Snapshot().Items
	require.Len(t, vendors, 1)
	shree := vendors[0]

	require.NoError(t, f.run(t, "offers", shree.ID, "list"))
	assert.Contains(t, f.out.String(), "Offers of Shree Traders")
	offers := f.app.store.VendorMaterials.Snapshot().Items
	require.Len(t, offers, 1)
	assert.Equal(t, "Plaster M-Sand", offers[0].Material.Name)

	require.NoError(t, f.run(t, "categories", "list"))
	assert.Empty(t, f.app.store.VendorMaterials.Snapshot().Items)
}

func TestExpiredSessionReturnsToLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.repo.Set(ctx, localstore.KeyToken, "expired-token"))
	require.NoError(t, f.app.auth.Restore(ctx))
	require.True(t, f.app.isLoggedIn())

	require.Error(t, f.run(t, "categories", "list"))

	assert.False(t, f.app.isLoggedIn())
	assert.Equal(t, guard.PathLogin, f.app.currentRoute())
	assert.Contains(t, f.out.String(), "Your session has ended. Please log in again.")

	token, err := f.repo.Get(ctx, localstore.KeyToken)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLocatePickAndConfirm(t *testing.T) {
	g := &fakeGeocoder{
		places: []geo.Place{{Lat: 18.5204, Lng: 73.8567, DisplayName: "Pune, Maharashtra, India"}},
		addr:   geo.Address{Address: "FC Road", City: "Pune", State: "Maharashtra", Pincode: "411004"},
	}
	f := newFixture(t, g, "admin@buildhub.in")
	f.login(t)

	err := f.run(t, "locate", "confirm")
	require.Error(t, err)
	assert.Contains(t, f.out.String(), "Pick a point first")

	require.NoError(t, f.run(t, "locate", "search", "pune"))
	assert.Contains(t, f.out.String(), "1. Pune, Maharashtra, India")

	require.NoError(t, f.run(t, "locate", "select", "1"))
	require.NoError(t, f.run(t, "locate", "confirm"))
	require.NotNil(t, f.app.located)
	assert.Equal(t, "Pune", f.app.located.City)
	assert.InDelta(t, 18.5204, f.app.located.Latitude, 1e-9)

	require.NoError(t, f.run(t, "locate", "pick", "19.0760", "72.8777"))
	require.NoError(t, f.run(t, "locate", "confirm"))
	assert.InDelta(t, 72.8777, f.app.located.Longitude, 1e-9)

	require.NoError(t, f.run(t, "locate", "clear"))
	assert.Nil(t, f.app.located)
}

func TestLocateSearchReportsGeocoderError(t *testing.T) {
	f := newFixture(t, &fakeGeocoder{err: errors.New("geocoder down")}, "admin@buildhub.in")
	f.login(t)

	require.Error(t, f.run(t, "locate", "search", "pune"))
	assert.Contains(t, f.out.String(), "Error:")
}

func TestDashboardSummarisesStore(t *testing.T) {
	f := newFixture(t, nil, "admin@buildhub.in")
	f.login(t)

	require.NoError(t, f.run(t, "dashboard"))
	assert.Len(t, f.app.store.Vendors.Snapshot().Items, 2)
	assert.NotEmpty(t, f.out.String())
}

func TestUnknownAndUsage(t *testing.T) {
	f := newFixture(t, nil)

	known, _ := f.app.Dispatch(context.Background(), "frobnicate", nil)
	assert.False(t, known)

	var u usageError
	err := f.run(t, "open")
	require.ErrorAs(t, err, &u)

	require.NoError(t, f.run(t, "open", "/nowhere"))
	assert.Contains(t, f.out.String(), "Now at /login")
}
