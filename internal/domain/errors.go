package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	// Command dispatch errors
	ErrMsgInvalidCommand = "invalid command for this area"
	ErrMsgAreaNotFound   = "area not found"

	// Grocery store errors
	ErrMsgItemUnavailable = "item unavailable in store"
	ErrMsgPriceMismatch   = "price does not match store price"
	ErrMsgItemNotInCart   = "item not in cart"

	// Economy errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgInsufficientItems = "insufficient items"

	// Trading errors
	ErrMsgInvalidOffer  = "invalid trading offer"
	ErrMsgItemNotOwned  = "item not owned in sufficient quantity"
	ErrMsgOfferNotFound = "trading offer not found"
	ErrMsgSelfTrade     = "cannot accept own trading offer"
	ErrMsgNotOfferOwner = "not the owner of the trading offer"

	// Persistence errors
	ErrMsgPersistenceUnavailable = "player database unavailable"

	// Player errors
	ErrMsgPlayerNotFound = "player not found"
)

// Domain errors for the interactable-area subsystem.
// All of these are validation errors rejected before the first mutating
// sub-step: when one is returned, area state and player records are
// untouched. Wrap with fmt.Errorf("%w: %s", domain.ErrXxx, details) for
// additional context.
var (
	ErrInvalidCommand = errors.New(ErrMsgInvalidCommand)
	ErrAreaNotFound   = errors.New(ErrMsgAreaNotFound)

	ErrItemUnavailable = errors.New(ErrMsgItemUnavailable)
	ErrPriceMismatch   = errors.New(ErrMsgPriceMismatch)
	ErrItemNotInCart   = errors.New(ErrMsgItemNotInCart)

	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrInsufficientItems = errors.New(ErrMsgInsufficientItems)

	ErrInvalidOffer  = errors.New(ErrMsgInvalidOffer)
	ErrItemNotOwned  = errors.New(ErrMsgItemNotOwned)
	ErrOfferNotFound = errors.New(ErrMsgOfferNotFound)
	ErrSelfTrade     = errors.New(ErrMsgSelfTrade)
	ErrNotOfferOwner = errors.New(ErrMsgNotOfferOwner)

	// ErrPersistenceUnavailable is the one transient error in the taxonomy:
	// it is surfaced only after bounded retries, with in-memory area state
	// rolled back to the pre-command snapshot.
	ErrPersistenceUnavailable = errors.New(ErrMsgPersistenceUnavailable)

	ErrPlayerNotFound = errors.New(ErrMsgPlayerNotFound)
)

// Wire error kinds, sent to clients in command results.
const (
	KindInvalidCommand         = "InvalidCommand"
	KindItemUnavailable        = "ItemUnavailable"
	KindPriceMismatch          = "PriceMismatch"
	KindItemNotInCart          = "ItemNotInCart"
	KindInsufficientFunds      = "InsufficientFunds"
	KindInvalidOffer           = "InvalidOffer"
	KindItemNotOwned           = "ItemNotOwned"
	KindOfferNotFound          = "OfferNotFound"
	KindSelfTrade              = "SelfTrade"
	KindNotOfferOwner          = "NotOfferOwner"
	KindPersistenceUnavailable = "PersistenceUnavailable"
	KindInternalError          = "InternalError"
)

// ErrorKind maps a domain error to its wire error kind. Unrecognized errors
// map to InternalError so internals are never leaked to clients.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCommand), errors.Is(err, ErrAreaNotFound):
		return KindInvalidCommand
	case errors.Is(err, ErrItemUnavailable):
		return KindItemUnavailable
	case errors.Is(err, ErrPriceMismatch):
		return KindPriceMismatch
	case errors.Is(err, ErrItemNotInCart):
		return KindItemNotInCart
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrInvalidOffer):
		return KindInvalidOffer
	case errors.Is(err, ErrItemNotOwned), errors.Is(err, ErrInsufficientItems):
		return KindItemNotOwned
	case errors.Is(err, ErrOfferNotFound):
		return KindOfferNotFound
	case errors.Is(err, ErrSelfTrade):
		return KindSelfTrade
	case errors.Is(err, ErrNotOfferOwner):
		return KindNotOfferOwner
	case errors.Is(err, ErrPersistenceUnavailable):
		return KindPersistenceUnavailable
	default:
		return KindInternalError
	}
}
