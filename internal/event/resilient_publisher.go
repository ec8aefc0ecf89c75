package event

import (
	"context"
	"time"

	"github.com/osse101/TownCommerce_Go/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	DeadLetter *DeadLetterWriter
}

// ResilientPublisher wraps an Event Bus to add retry logic and dead-letter
// queuing. Area broadcasts never depend on event delivery, so a failing
// handler must not stall command processing; callers get nil back once the
// event is accepted and retries happen in the background.
type ResilientPublisher struct {
	inner  Bus
	config ResilientConfig
}

// NewResilientPublisher creates a new ResilientPublisher
func NewResilientPublisher(inner Bus, config ResilientConfig) *ResilientPublisher {
	if config.MaxRetries <= 0 {
		config.MaxRetries = RetryMaxAttempts
	}
	return &ResilientPublisher{
		inner:  inner,
		config: config,
	}
}

// Publish attempts to publish an event. If it fails, it initiates a
// background retry loop and returns nil to the caller immediately.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"retries", p.config.MaxRetries)

	go p.retryLoop(event)

	return nil
}

func (p *ResilientPublisher) retryLoop(event Event) {
	// Detached context: the originating request may be done by now
	ctx := context.Background()
	log := logger.FromContext(ctx)

	var lastErr error
	for i := 1; i <= p.config.MaxRetries; i++ {
		time.Sleep(p.config.RetryDelay * time.Duration(i))

		lastErr = p.inner.Publish(ctx, event)
		if lastErr == nil {
			log.Info(LogMsgEventRetrySucceeded,
				"event_type", event.Type,
				"attempt", i)
			return
		}

		log.Warn(LogMsgEventRetryFailed,
			"event_type", event.Type,
			"attempt", i,
			"error", lastErr)
	}

	log.Error(LogMsgEventRetryExhausted, "event_type", event.Type)
	if p.config.DeadLetter != nil {
		if err := p.config.DeadLetter.Write(event, p.config.MaxRetries, lastErr); err != nil {
			log.Error(LogMsgDeadLetterWriteFailed, "error", err)
		}
	}
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}
