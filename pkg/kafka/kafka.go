package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	CirculationTopic      = "circulation-events"
	NotifierConsumerGroup = "notifier-group"
)

const (
	EventBookAvailable = "BOOK_AVAILABLE"
)

// AvailabilityEvent is published by the circulation service when a returned
// copy is being held for the head of a reservation queue, and consumed by the
// notifier service.
type AvailabilityEvent struct {
	Event         string    `json:"event"`
	MemberUid     string    `json:"memberUid"`
	Username      string    `json:"username"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	BookUid       string    `json:"bookUid"`
	BookName      string    `json:"bookName"`
	HoldExpiresAt time.Time `json:"holdExpiresAt"`
}

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume loops Consume on the group until the context is canceled;
// sarama requires re-entering Consume after every rebalance.
func Consume(ctx context.Context, cg sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) {
	for {
		if err := cg.Consume(ctx, topics, handler); err != nil {
			log.Error("consumer group", zap.Error(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}
