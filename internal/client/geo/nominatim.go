package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/logging"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	DefaultCountry = "in"
	SearchLimit    = 5
	userAgent      = "buildhub-admin-console/1.0"
)

// Place is a forward-search candidate.
type Place struct {
	Lat         float64
	Lng         float64
	DisplayName string
}

// Address is the outcome of a confirmed selection. Address fields are empty
// when reverse geocoding was not possible.
type Address struct {
	Latitude  float64
	Longitude float64
	Address   string
	City      string
	State     string
	Pincode   string
}

type Geocoder interface {
	Search(ctx context.Context, query string) ([]Place, error)
	Reverse(ctx context.Context, lat, lng float64) (Address, error)
}

// Nominatim queries the public OpenStreetMap geocoder. Requests share one
// limiter; the public instance allows one request per second.
type Nominatim struct {
	baseURL string
	country string
	http    *http.Client
	limiter *rate.Limiter
	log     logging.Logger
}

type NominatimOption func(*Nominatim)

// WithRateLimit overrides the request rate; rate.Inf disables limiting.
func WithRateLimit(r rate.Limit) NominatimOption {
	return func(n *Nominatim) { n.limiter = rate.NewLimiter(r, 1) }
}

func WithGeoHTTPClient(hc *http.Client) NominatimOption {
	return func(n *Nominatim) { n.http = hc }
}

func WithGeoLogger(l logging.Logger) NominatimOption {
	return func(n *Nominatim) { n.log = l }
}

func NewNominatim(baseURL, country string, opts ...NominatimOption) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if country == "" {
		country = DefaultCountry
	}
	n := &Nominatim{
		baseURL: strings.TrimRight(baseURL, "/"),
		country: country,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

func (n *Nominatim) get(ctx context.Context, path string, q url.Values, v any) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("geocoder rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder: unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode geocoder response: %w", err)
	}
	return nil
}

// Search returns up to SearchLimit candidates inside the configured country.
func (n *Nominatim) Search(ctx context.Context, query string) ([]Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(SearchLimit))
	q.Set("countrycodes", n.country)

	var raw []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := n.get(ctx, "/search", q, &raw); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(raw))
	for _, r := range raw {
		lat, err1 := strconv.ParseFloat(r.Lat, 64)
		lng, err2 := strconv.ParseFloat(r.Lon, 64)
		if err1 != nil || err2 != nil {
			n.log.Debug(ctx, "skip candidate with bad coordinates", "name", r.DisplayName)
			continue
		}
		places = append(places, Place{Lat: lat, Lng: lng, DisplayName: r.DisplayName})
		if len(places) == SearchLimit {
			break
		}
	}
	return places, nil
}

type reverseAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	Suburb       string `json:"suburb"`
	County       string `json:"county"`
	State        string `json:"state"`
	Postcode     string `json:"postcode"`
}

// city picks the first non-empty of city, town, village, municipality,
// suburb and county.
func (a reverseAddress) city() string {
	for _, c := range []string{a.City, a.Town, a.Village, a.Municipality, a.Suburb, a.County} {
		if c != "" {
			return c
		}
	}
	return ""
}

// Reverse resolves a coordinate into a postal address.
func (n *Nominatim) Reverse(ctx context.Context, lat, lng float64) (Address, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("addressdetails", "1")

	var raw struct {
		DisplayName string         `json:"display_name"`
		Address     reverseAddress `json:"address"`
	}
	out := Address{Latitude: lat, Longitude: lng}
	if err := n.get(ctx, "/reverse", q, &raw); err != nil {
		return out, err
	}

	out.Address = raw.DisplayName
	out.City = raw.Address.city()
	out.State = raw.Address.State
	out.Pincode = raw.Address.Postcode
	return out, nil
}
