package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	kafka "github.com/vogiaan1904/ticketbottle-ticketing/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

type Producer interface {
	PublishTicketIssued(ctx context.Context, event kafka.TicketIssuedEvent) error
	// NotifyTicketIssued lets the producer serve as the dispatcher's notifier.
	NotifyTicketIssued(ctx context.Context, t *models.Ticket) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
}

func NewProducer(prod sarama.SyncProducer, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
	}
}

func (p *implProducer) PublishTicketIssued(ctx context.Context, event kafka.TicketIssuedEvent) error {
	now := time.Now()
	event.Timestamp = now
	val, err := json.Marshal(event)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.PublishTicketIssued: %v", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: kafka.TopicTicketIssued,
		Key:   sarama.StringEncoder(event.TicketID),
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte(kafka.HeaderTimestamp),
				Value: []byte(now.Format(time.RFC3339)),
			},
		},
	}

	partition, offset, err := p.prod.SendMessage(msg)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.PublishTicketIssued: %v", err)
		return err
	}

	p.l.Debugf(ctx, "delivery.kafka.producer.PublishTicketIssued: %s at partition %d offset %d", event.TicketID, partition, offset)
	return nil
}

func (p *implProducer) NotifyTicketIssued(ctx context.Context, t *models.Ticket) error {
	return p.PublishTicketIssued(ctx, kafka.NewTicketIssuedEvent(t))
}

func (p *implProducer) Close() error {
	return p.prod.Close()
}
