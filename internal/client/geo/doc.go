// Package geo implements the vendor location picker: forward search and
// reverse geocoding against a Nominatim-compatible service, a debouncer for
// search-as-you-type, and Picker, which holds the chosen coordinate.
package geo
