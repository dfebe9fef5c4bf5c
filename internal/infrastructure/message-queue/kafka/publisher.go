package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

const maxRetries = 3

// MessageWriter is the subset of *kafka.Conn the publisher needs.
type MessageWriter interface {
	WriteMessages(msgs ...kafka.Message) (int, error)
	SetWriteDeadline(t time.Time) error
}

type Publisher struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker[[]byte]
	backoff time.Duration
}

func CreatePublisher(writer MessageWriter, breaker *gobreaker.CircuitBreaker[[]byte]) *Publisher {
	return &Publisher{writer: writer, breaker: breaker, backoff: time.Second}
}

// Publish writes msg keyed by key, retrying with a growing delay. Once the
// breaker is open calls fail fast with gobreaker.ErrOpenState.
func (p *Publisher) Publish(ctx context.Context, key string, msg dto.KafkaMessage) error {
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	_, err = p.breaker.Execute(func() ([]byte, error) {
		var err error
		for i := 0; i < maxRetries; i++ {
			err = p.writeKafkaMessage(jsonMsg, key)
			if err == nil {
				return nil, nil
			}
			log.Ctx(ctx).Error().Err(err).Str("component", "Publish").Str("event_type", msg.EventType).Int("attempt", i+1).Msg("")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.backoff * time.Duration(i+1)):
			}
		}
		return nil, err
	})

	return err
}

func (p *Publisher) writeKafkaMessage(msg []byte, key string) error {
	if err := p.writer.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}

	_, err := p.writer.WriteMessages(
		kafka.Message{
			Key:   []byte(key),
			Value: msg,
		},
	)
	return err
}
