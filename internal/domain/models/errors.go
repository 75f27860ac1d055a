package models

import "errors"

var (
	// ErrStoreUnavailable is returned when the price store cannot be read:
	// open, connectivity, query, scan or timeout failures.
	ErrStoreUnavailable = errors.New("price store unavailable")

	// ErrInvalidArgument is returned for malformed caller input such as a
	// blank symbol or an out-of-range limit.
	ErrInvalidArgument = errors.New("invalid argument")
)
