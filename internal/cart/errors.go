package cart

import "errors"

var (
	// ErrCartNotFound is returned by mutations targeting an unknown cart id.
	ErrCartNotFound = errors.New("cart not found")
	// ErrPromotionAlreadyApplied is returned when (cart, promotion) already exists.
	ErrPromotionAlreadyApplied = errors.New("promotion already applied")
	// ErrCartModified is returned when a quote is written against a stale revision.
	ErrCartModified = errors.New("cart modified since it was priced")
)
