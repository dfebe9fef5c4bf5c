package service

import (
	"context"
	"sync"

	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	"github.com/rs/zerolog/log"
)

// NoopEventPublisher drops events. It is used when no broker is configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, string, dto.KafkaMessage) error {
	return nil
}

// EventEmitter publishes domain events off the request path. Failures are
// logged and never reach the caller.
type EventEmitter struct {
	publisher EventPublisher
	wg        sync.WaitGroup
}

func CreateEventEmitter(publisher EventPublisher) *EventEmitter {
	if publisher == nil {
		publisher = NoopEventPublisher{}
	}

	return &EventEmitter{publisher: publisher}
}

func (e *EventEmitter) Emit(ctx context.Context, key string, eventType string, data interface{}) {
	ctx = context.WithoutCancel(ctx)
	msg := dto.KafkaMessage{EventType: eventType, Data: data}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.publisher.Publish(ctx, key, msg); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "Emit").Str("event_type", eventType).Msg("")
		}
	}()
}

// Wait blocks until every emitted event has been handed to the publisher.
func (e *EventEmitter) Wait() {
	e.wg.Wait()
}
