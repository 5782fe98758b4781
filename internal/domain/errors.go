package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrDuplicateSlug         = errors.New("slug already exists")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)
