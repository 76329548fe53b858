package consumer

import (
	"context"
	"errors"
	"sync"

	"github.com/IBM/sarama"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/service"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

// Consumer relays gateway notifications published to Kafka into the
// gateway issuance path. Each message value is the raw notification body
// and the signature travels in a header.
type Consumer struct {
	consGr    sarama.ConsumerGroup
	ticketSvc service.TicketService
	l         logger.Logger
	wg        sync.WaitGroup
}

func NewConsumer(
	consGr sarama.ConsumerGroup,
	ticketSvc service.TicketService,
	l logger.Logger,
) *Consumer {
	return &Consumer{
		consGr:    consGr,
		ticketSvc: ticketSvc,
		l:         l,
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	if msg.Topic != kafka.TopicGatewayNotifications {
		c.l.Warnf(ctx, "delivery.kafka.consumer.processMessage: unknown topic %s", msg.Topic)
		return nil
	}

	res, err := c.ticketSvc.IssueFromGatewayPath(ctx, msg.Value, headerValue(msg, kafka.HeaderGatewaySignature))
	if err != nil {
		if isPermanent(err) {
			c.l.Warnf(ctx, "delivery.kafka.consumer.processMessage: dropping offset %d: %v", msg.Offset, err)
			return nil
		}
		return err
	}

	if res.Ticket != nil {
		c.l.Infof(ctx, "delivery.kafka.consumer.processMessage: payment %s -> %s (created=%t)", res.Ticket.PaymentID, res.Ticket.ID, res.Created)
	}
	return nil
}

// Messages that can never succeed are acknowledged so they do not block the partition.
func isPermanent(err error) bool {
	return errors.Is(err, service.ErrInvalidSignature) ||
		errors.Is(err, service.ErrInvalidNotification) ||
		errors.Is(err, service.ErrMissingRequiredField)
}

func headerValue(msg *sarama.ConsumerMessage, key string) string {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *Consumer) Start(ctx context.Context) error {
	topics := []string{kafka.TopicGatewayNotifications}
	c.wg.Go(func() {
		for {
			if err := c.consGr.Consume(ctx, topics, c); err != nil {
				c.l.Errorf(ctx, "delivery.kafka.consumer.Start: %v", err)
			}

			if ctx.Err() != nil {
				c.l.Infof(ctx, "delivery.kafka.consumer.Start: %v", ctx.Err())
				return
			}
		}
	})

	c.wg.Go(func() {
		for err := range c.consGr.Errors() {
			c.l.Errorf(ctx, "delivery.kafka.consumer.Start: %v", err)
		}
	})

	c.l.Infof(ctx, "Consumer is consuming topics: %v", topics)
	return nil
}

func (c *Consumer) Close() error {
	if err := c.consGr.Close(); err != nil {
		return err
	}

	c.wg.Wait()
	return nil
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	c.l.Debug(context.Background(), "Consumer group session started")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	c.l.Debug(context.Background(), "Consumer group session ended")
	return nil
}

// ConsumeClaim stops at the first transient failure without marking it, so
// the next session resumes from that offset.
func (c *Consumer) ConsumeClaim(ss sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := c.processMessage(ss.Context(), message); err != nil {
				c.l.Errorf(ss.Context(), "delivery.kafka.consumer.ConsumeClaim: topic %s offset %d: %v", message.Topic, message.Offset, err)
				return err
			}

			ss.MarkMessage(message, "")

		case <-ss.Context().Done():
			return nil
		}
	}
}
