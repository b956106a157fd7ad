package service

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/circulation/internal/repository"
	"github.com/campuslib/circulation-service/pkg/kafka"
)

// Notifier delivers availability events to the outbound sink. Delivery is
// fire-and-forget: a failure is logged, never surfaced to the member
// returning the book.
type Notifier interface {
	NotifyBookAvailable(event kafka.AvailabilityEvent) error
}

type nopNotifier struct{}

func (nopNotifier) NotifyBookAvailable(kafka.AvailabilityEvent) error { return nil }

type kafkaNotifier struct {
	producer sarama.SyncProducer
}

func NewKafkaNotifier(producer sarama.SyncProducer) Notifier {
	return &kafkaNotifier{producer: producer}
}

func (n *kafkaNotifier) NotifyBookAvailable(event kafka.AvailabilityEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: kafka.CirculationTopic,
		Key:   sarama.StringEncoder(event.MemberUid),
		Value: sarama.StringEncoder(data),
	}
	_, _, err = n.producer.SendMessage(msg)
	return err
}

// notifyHeld publishes off the request path; the Return has already
// committed by the time this runs.
func (s *Service) notifyHeld(held *repository.HeldNotification) {
	event := kafka.AvailabilityEvent{
		Event:         kafka.EventBookAvailable,
		MemberUid:     held.MemberUid,
		Username:      held.Username,
		Email:         held.Email,
		Phone:         held.Phone,
		BookUid:       held.BookUid,
		BookName:      held.BookName,
		HoldExpiresAt: held.HoldExpiresAt,
	}
	go func() {
		if err := s.notifier.NotifyBookAvailable(event); err != nil {
			s.log.Error("notify book available",
				zap.String("memberUid", event.MemberUid),
				zap.String("bookUid", event.BookUid),
				zap.Error(err))
		}
	}()
}
