package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestNominatim(t *testing.T, h http.HandlerFunc) *Nominatim {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewNominatim(srv.URL, "", WithRateLimit(rate.Inf))
}

func TestNominatim_Search(t *testing.T) {
	n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "Pune", q.Get("q"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "in", q.Get("countrycodes"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[
			{"lat":"18.5204","lon":"73.8567","display_name":"Pune, Maharashtra, India"},
			{"lat":"bad","lon":"73.1","display_name":"Broken"}
		]`))
	})

	got, err := n.Search(context.Background(), "Pune")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Place{Lat: 18.5204, Lng: 73.8567, DisplayName: "Pune, Maharashtra, India"}, got[0])
}

func TestNominatim_SearchStatusError(t *testing.T) {
	n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := n.Search(context.Background(), "Pune")
	require.Error(t, err)
}

func TestNominatim_ReverseCityFallback(t *testing.T) {
	tests := []struct {
		name    string
		address map[string]string
		want    string
	}{
		{"city", map[string]string{"city": "Pune", "town": "T", "county": "C"}, "Pune"},
		{"town", map[string]string{"town": "Lonavala", "village": "V"}, "Lonavala"},
		{"village", map[string]string{"village": "Kolad", "suburb": "S"}, "Kolad"},
		{"municipality", map[string]string{"municipality": "M", "suburb": "S"}, "M"},
		{"suburb", map[string]string{"suburb": "Baner", "county": "C"}, "Baner"},
		{"county", map[string]string{"county": "Haveli"}, "Haveli"},
		{"none", map[string]string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/reverse", r.URL.Path)
				assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))
				assert.Equal(t, "18.52", r.URL.Query().Get("lat"))
				assert.Equal(t, "73.85", r.URL.Query().Get("lon"))

				addr := map[string]string{"state": "Maharashtra", "postcode": "411001"}
				for k, v := range tt.address {
					addr[k] = v
				}
				_ = json.NewEncoder(w).Encode(map[string]any{"display_name": "Somewhere", "address": addr})
			})

			got, err := n.Reverse(context.Background(), 18.52, 73.85)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.City)
			assert.Equal(t, "Somewhere", got.Address)
			assert.Equal(t, "Maharashtra", got.State)
			assert.Equal(t, "411001", got.Pincode)
			assert.Equal(t, 18.52, got.Latitude)
			assert.Equal(t, 73.85, got.Longitude)
		})
	}
}
