package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrItemNotFound is returned when a wishlist item does not exist
	ErrItemNotFound = errors.New("wishlist item not found")

	// ErrItemUnavailable is returned when a guest tries to buy an item that is no longer available
	ErrItemUnavailable = errors.New("wishlist item is not available")

	// ErrUnauthorized is returned when an admin operation lacks valid credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrStorageFailure is returned when the registry store cannot complete an operation
	ErrStorageFailure = errors.New("registry storage failure")

	// ErrNoHTML is returned when every transport strategy failed to produce a page
	ErrNoHTML = errors.New("no HTML obtained from any source")
)
