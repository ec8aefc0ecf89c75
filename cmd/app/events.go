package main

import (
	"context"

	"github.com/osse101/TownCommerce_Go/internal/event"
	"github.com/osse101/TownCommerce_Go/internal/logger"
)

// subscribeEventLoggers attaches audit-log listeners to the bus. Metrics for
// these events are recorded at publish time; these listeners give operators a
// durable trace of commerce activity in the service logs.
func subscribeEventLoggers(bus event.Bus) {
	bus.Subscribe(event.CheckoutCompleted, func(ctx context.Context, e event.Event) error {
		payload, err := event.DecodePayload[event.CheckoutCompletedPayloadV1](e.Payload)
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Info("Checkout completed",
			"area_id", payload.AreaID,
			"player_id", payload.PlayerID,
			"total_charged", payload.TotalCharged,
			"item_count", payload.ItemCount)
		return nil
	})

	bus.Subscribe(event.TradeAccepted, func(ctx context.Context, e event.Event) error {
		payload, err := event.DecodePayload[event.TradeAcceptedPayloadV1](e.Payload)
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Info("Trade accepted",
			"area_id", payload.AreaID,
			"offer_id", payload.OfferID,
			"poster_id", payload.PosterID,
			"acceptor_id", payload.AcceptorID)
		return nil
	})
}
