package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/config"
	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"gopkg.in/gomail.v2"
)

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type NotificationServiceImpl struct {
	reader    MessageReader
	config    config.SMTPConfig
	sendEmail func(message *gomail.Message) error
}

func CreateNotificationService(reader MessageReader, smtp config.SMTPConfig) NotificationService {
	return &NotificationServiceImpl{
		reader: reader,
		config: smtp,
		sendEmail: func(message *gomail.Message) error {
			return utils.SendEmail(message, smtp.Sender, smtp.Password, smtp.Host, smtp.Port)
		},
	}
}

// ConsumeEvent reads events until ctx is cancelled.
func (s *NotificationServiceImpl) ConsumeEvent(ctx context.Context) {
	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			log.Error().Err(err).Str("component", "ConsumeEvent").Msg("")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if err := s.HandleMessage(ctx, msg.Value); err != nil {
			log.Error().Err(err).Str("component", "ConsumeEvent").Str("key", string(msg.Key)).Msg("")
		}
	}
}

func (s *NotificationServiceImpl) HandleMessage(ctx context.Context, value []byte) (err error) {
	var receivedMsg struct {
		EventType string          `json:"event_type"`
		Data      json.RawMessage `json:"data"`
	}
	if err = json.Unmarshal(value, &receivedMsg); err != nil {
		return err
	}

	switch receivedMsg.EventType {
	case dto.EventOrderPaid, dto.EventOrderDelivered:
		var event dto.OrderEvent
		if err = json.Unmarshal(receivedMsg.Data, &event); err != nil {
			return err
		}
		return s.notifyOrder(receivedMsg.EventType, event)
	case dto.EventUserRegistered:
		var event dto.UserEvent
		if err = json.Unmarshal(receivedMsg.Data, &event); err != nil {
			return err
		}
		return s.notify(event.Email, "Welcome to the store", fmt.Sprintf("Hi %s, your account is ready.", event.Name))
	default:
		log.Debug().Str("component", "HandleMessage").Str("event_type", receivedMsg.EventType).Msg("ignored event")
		return nil
	}
}

func (s *NotificationServiceImpl) notifyOrder(eventType string, event dto.OrderEvent) error {
	var subject, body string
	switch eventType {
	case dto.EventOrderPaid:
		subject = fmt.Sprintf("Payment received for order %s", event.OrderID)
		body = fmt.Sprintf("Hi %s, we received your payment of %.2f for order %s.", event.UserName, event.TotalPrice, event.OrderID)
		if event.PaidAt != 0 {
			body += fmt.Sprintf("\nPaid at: %s", utils.HumanReadableTime(event.PaidAt, s.config.Location))
		}
	case dto.EventOrderDelivered:
		subject = fmt.Sprintf("Order %s delivered", event.OrderID)
		body = fmt.Sprintf("Hi %s, your order %s has been delivered.", event.UserName, event.OrderID)
		if event.DeliveredAt != 0 {
			body += fmt.Sprintf("\nDelivered at: %s", utils.HumanReadableTime(event.DeliveredAt, s.config.Location))
		}
	}

	return s.notify(event.UserEmail, subject, body)
}

func (s *NotificationServiceImpl) notify(to, subject, body string) error {
	if !s.config.Enabled() || to == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.Sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.sendEmail(m)
}
