package sale

import "errors"

// Engine errors. Every precondition failure aborts the operation with zero
// state change; the caller distinguishes causes with errors.Is.
var (
	// ErrUnauthorized is returned when a restricted operation is called by
	// anyone other than the administrator.
	ErrUnauthorized = errors.New("caller is not the administrator")

	// ErrSaleClosed is returned when the sale is finalized or the current
	// time is outside the sale window.
	ErrSaleClosed = errors.New("sale is closed")

	// ErrNotAllowed is returned when the buyer is not on the allow-list.
	ErrNotAllowed = errors.New("buyer is not allow-listed")

	// ErrPaymentMismatch is returned when the attached payment does not
	// exactly equal quantity × unit price.
	ErrPaymentMismatch = errors.New("payment does not match quantity at current price")

	// ErrBelowMinimum is returned when quantity is below the per-purchase
	// minimum.
	ErrBelowMinimum = errors.New("quantity below per-purchase minimum")

	// ErrAboveMaximum is returned when quantity exceeds the per-purchase
	// maximum.
	ErrAboveMaximum = errors.New("quantity above per-purchase maximum")

	// ErrCapExceeded is returned when the purchase would push cumulative
	// sales past the sale cap.
	ErrCapExceeded = errors.New("sale cap exceeded")

	// ErrInsufficientInventory is returned when the engine's own token
	// balance cannot cover the purchase. Should not occur under correct
	// seeding but is handled, not assumed impossible.
	ErrInsufficientInventory = errors.New("engine inventory insufficient")

	// ErrAlreadyFinalized is returned when finalize is called twice.
	ErrAlreadyFinalized = errors.New("sale already finalized")

	// ErrInvalidPrice is returned when setting a zero unit price.
	ErrInvalidPrice = errors.New("unit price must be positive")
)
