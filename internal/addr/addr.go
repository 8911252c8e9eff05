// Package addr validates account addresses used by the ledger and sale
// engine. An address is the base58 encoding of a 32-byte ed25519 public key.
package addr

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Validation errors.
var (
	// ErrInvalidAddress is returned for addresses that do not decode to a
	// canonical 32-byte curve point.
	ErrInvalidAddress = errors.New("invalid account address")
)

// Validate checks that account is a well-formed address.
func Validate(account string) error {
	if account == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAddress)
	}

	decoded, err := base58.Decode(account)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("%w: decoded length %d, want 32", ErrInvalidAddress, len(decoded))
	}
	if !isOnCurve(decoded) {
		return fmt.Errorf("%w: not a canonical curve point", ErrInvalidAddress)
	}
	return nil
}

// isOnCurve reports whether point is a canonical ed25519 curve point.
func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
