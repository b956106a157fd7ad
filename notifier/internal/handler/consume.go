package handler

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/pkg/kafka"
)

type notify func(ctx context.Context, event kafka.AvailabilityEvent) error

type Consumer struct {
	notifyHandler notify
	log           *zap.Logger
	ready         chan bool
}

func NewConsumer(notify notify, log *zap.Logger) *Consumer {
	return &Consumer{
		notifyHandler: notify,
		log:           log.Named("consumer"),
		ready:         make(chan bool),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	// Mark the consumer as ready
	close(consumer.ready)
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.AvailabilityEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				// a poison message never becomes deliverable, commit and move on
				consumer.log.Error("unmarshal event", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.notifyHandler(session.Context(), event); err != nil {
				consumer.log.Error("consumer.notifyHandler", zap.Error(err))
				continue
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
