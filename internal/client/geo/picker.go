package geo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/logging"
)

// DefaultDebounce is the search-as-you-type pause.
const DefaultDebounce = 500 * time.Millisecond

// Map zoom levels: the country overview and a focused point.
const (
	DefaultZoom  = 5
	RecenterZoom = 15
)

type Point struct {
	Lat float64
	Lng float64
}

// DefaultCenter is the geographic centre of India.
var DefaultCenter = Point{Lat: 20.5937, Lng: 78.9629}

// Locator reports the device position.
type Locator interface {
	CurrentPosition(ctx context.Context, highAccuracy bool) (Point, error)
}

type PickerState struct {
	Query     string
	Results   []Place
	Searching bool
	Position  *Point
	Center    Point
	Zoom      int
	LastError string
}

type Picker struct {
	geocoder Geocoder
	locator  Locator
	debounce *Debouncer
	log      logging.Logger

	mu        sync.Mutex
	state     PickerState
	onResults func([]Place)
}

type PickerOption func(*Picker)

// WithLocator enables UseCurrentLocation.
func WithLocator(l Locator) PickerOption {
	return func(p *Picker) { p.locator = l }
}

func WithDebounce(d time.Duration) PickerOption {
	return func(p *Picker) { p.debounce = NewDebouncer(d) }
}

func WithPickerLogger(l logging.Logger) PickerOption {
	return func(p *Picker) { p.log = l }
}

// OnResults is called from the search goroutine whenever candidates change.
func OnResults(fn func([]Place)) PickerOption {
	return func(p *Picker) { p.onResults = fn }
}

// NewPicker opens a picker. A non-nil initial seeds both the selection and the map centre.
func NewPicker(g Geocoder, initial *Point, opts ...PickerOption) *Picker {
	p := &Picker{
		geocoder: g,
		debounce: NewDebouncer(DefaultDebounce),
		log:      logging.Nop(),
		state:    PickerState{Center: DefaultCenter, Zoom: DefaultZoom},
	}
	for _, o := range opts {
		o(p)
	}
	if initial != nil && initial.Lat != 0 && initial.Lng != 0 {
		pos := *initial
		p.state.Position = &pos
		p.state.Center = pos
		p.state.Zoom = RecenterZoom
	}
	return p
}

func (p *Picker) State() PickerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Results = append([]Place(nil), p.state.Results...)
	if s.Position != nil {
		pos := *s.Position
		s.Position = &pos
	}
	return s
}

// SetQuery records a keystroke. The search runs once typing pauses; an empty
// query clears the candidates without a request.
func (p *Picker) SetQuery(ctx context.Context, query string) {
	p.mu.Lock()
	p.state.Query = query
	p.mu.Unlock()

	p.debounce.Do(func() { p.search(ctx, query) })
}

func (p *Picker) setResults(query string, results []Place) {
	p.mu.Lock()
	if p.state.Query != query {
		p.mu.Unlock()
		return
	}
	p.state.Results = results
	p.state.Searching = false
	cb := p.onResults
	p.mu.Unlock()

	if cb != nil {
		cb(append([]Place(nil), results...))
	}
}

func (p *Picker) search(ctx context.Context, query string) {
	if strings.TrimSpace(query) == "" {
		p.setResults(query, nil)
		return
	}

	p.mu.Lock()
	p.state.Searching = true
	p.mu.Unlock()

	results, err := p.geocoder.Search(ctx, query)
	if err != nil {
		p.log.Warn(ctx, "location search failed", "query", query, "error", err)
		p.mu.Lock()
		if p.state.Query == query {
			p.state.Searching = false
			p.state.LastError = "Search failed: " + err.Error()
		}
		p.mu.Unlock()
		return
	}
	p.setResults(query, results)
}

// Pick selects a point, as a click on the map does.
func (p *Picker) Pick(pt Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Position = &pt
}

// SelectResult focuses the i-th candidate: it becomes the selection and the
// centre, its name becomes the query, and the candidate list is cleared.
func (p *Picker) SelectResult(i int) (Place, bool) {
	p.debounce.Cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.state.Results) {
		return Place{}, false
	}
	r := p.state.Results[i]
	pos := Point{Lat: r.Lat, Lng: r.Lng}
	p.state.Position = &pos
	p.state.Center = pos
	p.state.Zoom = RecenterZoom
	p.state.Query = r.DisplayName
	p.state.Results = nil
	return r, true
}

// UseCurrentLocation asks the device for a high-accuracy fix. On failure the
// prior selection is kept and the failure is surfaced in LastError.
func (p *Picker) UseCurrentLocation(ctx context.Context) error {
	if p.locator == nil {
		p.mu.Lock()
		p.state.LastError = "Geolocation is not supported on this device"
		p.mu.Unlock()
		return ErrGeolocationUnsupported
	}

	pt, err := p.locator.CurrentPosition(ctx, true)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state.LastError = "Failed to get location: " + err.Error()
		return err
	}
	p.state.LastError = ""
	p.state.Position = &pt
	p.state.Center = pt
	p.state.Zoom = RecenterZoom
	return nil
}

// Confirm reverse-geocodes the selection. A geocoder failure still yields the
// raw coordinates with empty address fields.
func (p *Picker) Confirm(ctx context.Context) (Address, error) {
	p.mu.Lock()
	pos := p.state.Position
	p.mu.Unlock()
	if pos == nil {
		return Address{}, ErrNoPosition
	}

	addr, err := p.geocoder.Reverse(ctx, pos.Lat, pos.Lng)
	if err != nil {
		p.log.Warn(ctx, "reverse geocoding failed", "lat", pos.Lat, "lng", pos.Lng, "error", err)
		return Address{Latitude: pos.Lat, Longitude: pos.Lng}, nil
	}
	return addr, nil
}

func (p *Picker) ClearError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.LastError = ""
}

// Close drops any pending search.
func (p *Picker) Close() {
	p.debounce.Cancel()
}

// IsNoPosition reports whether err means nothing was selected.
func IsNoPosition(err error) bool {
	return errors.Is(err, ErrNoPosition)
}
