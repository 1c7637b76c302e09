package accounts

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidResetToken  = errors.New("reset token is invalid or has expired")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)
