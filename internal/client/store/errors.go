package store

import "errors"

// ErrNotLoaded is returned by Find when the key is not in the loaded list.
var ErrNotLoaded = errors.New("record not loaded")
