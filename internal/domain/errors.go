package domain

import "errors"

var (
	// ErrProductNotFound is returned when no tier produced data: the catalog
	// has no entry and no photos were supplied for a vision attempt
	ErrProductNotFound = errors.New("product not found")

	// ErrUnresolved is returned when every tier was exhausted: catalog missed
	// and a vision attempt was made but failed. Distinct from ErrProductNotFound
	// since it is not a confirmed absence.
	ErrUnresolved = errors.New("product could not be resolved")

	// ErrTierTimeout marks a single tier exceeding its budget; absorbed inside
	// the resolver as that tier's miss
	ErrTierTimeout = errors.New("resolution tier timed out")

	// ErrTierFailure marks a tier returning malformed or rejected data; treated
	// as a miss for fallthrough but logged
	ErrTierFailure = errors.New("resolution tier failed")

	// ErrCacheMiss is returned when a barcode is not in the cache store
	ErrCacheMiss = errors.New("cache miss")

	// ErrHistoryItemNotFound is returned when deleting an unknown history entry
	ErrHistoryItemNotFound = errors.New("history item not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
