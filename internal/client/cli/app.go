package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/config"
	"github.com/dmitrijs2005/buildhub/internal/client/geo"
	"github.com/dmitrijs2005/buildhub/internal/client/guard"
	"github.com/dmitrijs2005/buildhub/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/buildhub/internal/client/resources"
	"github.com/dmitrijs2005/buildhub/internal/client/services"
	"github.com/dmitrijs2005/buildhub/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const healthCheckInterval = 30 * time.Second

type App struct {
	config   *config.Config
	log      logging.Logger
	client   *api.Client
	auth     services.AuthService
	store    *resources.Store
	geocoder geo.Geocoder
	reader   *bufio.Reader
	out      io.Writer
	closeDB  func() error

	picker  *geo.Picker
	found   chan []geo.Place
	located *geo.Address

	mu    sync.Mutex
	route string
	mode  Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.Environment)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := localstore.Open(ctx, c.StoragePath)
	if err != nil {
		logger.Error(ctx, "error initializing local storage", "error", err)
		return nil, err
	}

	client := api.NewClient(c.APIBaseURL, api.WithTimeout(c.RequestTimeout), api.WithLogger(logger))
	geocoder := geo.NewNominatim(c.GeocoderBaseURL, c.GeocoderCountry, geo.WithGeoLogger(logger))

	a := newApp(c, logger, client, localstore.NewSQLiteRepository(db), geocoder, os.Stdin, os.Stdout)
	a.closeDB = db.Close
	return a, nil
}

// newApp wires the session and the store around client. It performs no I/O.
func newApp(c *config.Config, log logging.Logger, client *api.Client, repo localstore.Repository,
	geocoder geo.Geocoder, in io.Reader, out io.Writer) *App {
	a := &App{
		config:   c,
		log:      log,
		client:   client,
		geocoder: geocoder,
		reader:   bufio.NewReader(in),
		out:      out,
		found:    make(chan []geo.Place, 1),
	}
	a.auth = services.NewAuthService(client, repo, a, log)
	a.store = resources.NewStore(client, log)
	client.SetTokenSource(a.auth)
	client.SetUnauthorizedHandler(a.auth.HandleUnauthorized)
	return a
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.State().IsAuthenticated()
}

func (a *App) snapshot(ctx context.Context) guard.Snapshot {
	s := a.auth.State()
	return guard.Snapshot{
		Authenticated: s.IsAuthenticated(),
		Token:         s.Token,
		StoredToken:   a.auth.StoredToken(ctx),
	}
}

// Navigate implements services.Navigator. It is also how a rejected session
// lands on the login view.
func (a *App) Navigate(path string) {
	m := guard.Resolve(path, a.snapshot(context.Background()))
	a.setRoute(m)
	if path == services.LoginPath {
		a.println("Your session has ended. Please log in again.")
	}
}

func (a *App) setRoute(m guard.Match) {
	a.mu.Lock()
	prev := a.route
	a.route = m.Path
	a.mu.Unlock()

	if prevMatch, ok := guard.Lookup(prev); ok && prevMatch.Route.Pattern == guard.PathVendorMaterial && prev != m.Path {
		a.store.VendorMaterials.Clear()
	}
}

func (a *App) currentRoute() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

// enter navigates to path through the guards and reports whether the view
// was admitted. A redirect is printed.
func (a *App) enter(ctx context.Context, path string) bool {
	m := guard.Resolve(path, a.snapshot(ctx))
	a.setRoute(m)
	if m.Path != path {
		a.printf("Redirected to %s\n", m.Path)
		return false
	}
	return true
}

func (a *App) status() string {
	a.mu.Lock()
	route, mode := a.route, a.mode
	a.mu.Unlock()

	s := ""
	if admin := a.auth.State().Admin; admin != nil {
		s = admin.Email + " "
	}
	if mode != "" {
		s += string(mode) + " "
	}
	return fmt.Sprintf("(%s%s)", s, route)
}

// StartOnlineStatusWatcher polls the backend health endpoint and switches
// the connectivity mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	check := func() {
		ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if _, err := a.client.Get(ctx, "/health", nil); err != nil {
			a.setMode(ModeOffline)
			return
		}
		a.setMode(ModeOnline)
	}
	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) Close() {
	if a.picker != nil {
		a.picker.Close()
	}
	if a.closeDB != nil {
		if err := a.closeDB(); err != nil {
			a.log.Warn(context.Background(), "close local storage", "error", err)
		}
	}
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	a.println("Welcome to the BuildHub admin console (type 'help' for commands)")

	if err := a.auth.Restore(ctx); err != nil {
		a.log.Error(ctx, "restore session", "error", err)
	}
	a.Navigate("/")

	go a.StartOnlineStatusWatcher(ctx, healthCheckInterval)

	runREPL(ctx, a, a.status, a.reader)
}
