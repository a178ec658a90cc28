package nft

import "github.com/pkg/errors"

var (
	ErrDuplicateURI        = errors.New("duplicate token uri")
	ErrInvalidPrice        = errors.New("price must be at least 1")
	ErrInsufficientFee     = errors.New("attached fee does not match the listing fee")
	ErrUnknownToken        = errors.New("unknown token")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotListed           = errors.New("token not listed")
	ErrUnderPayment        = errors.New("payment does not match the price")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrInvalidRecipient    = errors.New("invalid recipient")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnexpectedPayment   = errors.New("operation does not accept payment")
	ErrAmountOverflow      = errors.New("amount overflow")
)

// IsValidation reports whether err is one of the ledger validation kinds,
// as opposed to a storage or internal failure.
func IsValidation(err error) bool {
	for _, kind := range []error{
		ErrDuplicateURI, ErrInvalidPrice, ErrInsufficientFee, ErrUnknownToken,
		ErrUnauthorized, ErrNotListed, ErrUnderPayment, ErrIndexOutOfRange,
		ErrInvalidRecipient, ErrInsufficientBalance, ErrUnexpectedPayment,
		ErrAmountOverflow,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
