package geo

import "errors"

var (
	ErrNoPosition             = errors.New("no position selected")
	ErrGeolocationUnsupported = errors.New("geolocation is not supported on this device")
)
