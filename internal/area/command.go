package area

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/TownCommerce_Go/internal/domain"
)

// CommandKind identifies one of the closed set of area commands.
type CommandKind string

const (
	KindOpenInventory      CommandKind = "OpenInventory"
	KindAddItemToCart      CommandKind = "AddItemToCart"
	KindRemoveItemFromCart CommandKind = "RemoveItemFromCart"
	KindCheckout           CommandKind = "Checkout"
	KindPostTradingOffer   CommandKind = "PostTradingOffer"
	KindAcceptTradingOffer CommandKind = "AcceptTradingOffer"
	KindDeleteOffer        CommandKind = "DeleteOffer"
)

// Command is a fully decoded player command. The transport decodes and
// validates the payload before dispatch, so Payload is always the typed
// struct for Kind (or nil for payload-free kinds) by the time an area
// sees it.
type Command struct {
	AreaID  string
	Kind    CommandKind
	Payload any
}

// CommandResult is the envelope returned to the issuing player.
type CommandResult struct {
	Success   bool   `json:"success"`
	Payload   any    `json:"payload,omitempty"`
	ErrorKind string `json:"errorKind,omitempty"`
}

// Typed command payloads. Validation tags are enforced at the transport
// boundary; a payload failing them never reaches area logic.

// AddItemToCartPayload carries the client's claimed price so the store can
// reject stale or tampered prices.
type AddItemToCartPayload struct {
	ItemName string `json:"itemName" validate:"required"`
	Price    int    `json:"price" validate:"gte=0"`
}

type RemoveItemFromCartPayload struct {
	ItemName string `json:"itemName" validate:"required"`
}

// PostTradingOfferPayload deliberately leaves the quantities unvalidated
// here: non-positive quantities are a domain rejection (InvalidOffer) owed
// to the issuing player, not a malformed message.
type PostTradingOfferPayload struct {
	ItemOffered string `json:"itemOffered" validate:"required"`
	QtyOffered  int    `json:"qtyOffered"`
	ItemDesired string `json:"itemDesired" validate:"required"`
	QtyDesired  int    `json:"qtyDesired"`
}

type AcceptTradingOfferPayload struct {
	OfferID string `json:"offerId" validate:"required"`
}

type DeleteOfferPayload struct {
	OfferID string `json:"offerId" validate:"required"`
}

// Typed command results.

type CheckoutResult struct {
	TotalCharged int `json:"totalCharged"`
}

type PostTradingOfferResult struct {
	OfferID string `json:"offerId"`
}

var validate = validator.New()

// DecodePayload decodes and validates the raw payload for a command kind.
// Unknown kinds and malformed payloads are both transport-boundary errors;
// neither reaches an area.
func DecodePayload(kind CommandKind, raw json.RawMessage) (any, error) {
	var payload any
	switch kind {
	case KindOpenInventory, KindCheckout:
		return nil, nil
	case KindAddItemToCart:
		payload = &AddItemToCartPayload{}
	case KindRemoveItemFromCart:
		payload = &RemoveItemFromCartPayload{}
	case KindPostTradingOffer:
		payload = &PostTradingOfferPayload{}
	case KindAcceptTradingOffer:
		payload = &AcceptTradingOfferPayload{}
	case KindDeleteOffer:
		payload = &DeleteOfferPayload{}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidCommand, kind)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing payload for %s", domain.ErrInvalidCommand, kind)
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("%w: malformed payload for %s", domain.ErrInvalidCommand, kind)
	}
	if err := validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: invalid payload for %s: %v", domain.ErrInvalidCommand, kind, err)
	}
	return payload, nil
}
