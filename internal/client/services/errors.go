package services

import "errors"

var ErrNotAuthenticated = errors.New("not authenticated")

var errLoginNoToken = errors.New("login response without token")
