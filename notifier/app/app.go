package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/campuslib/circulation-service/notifier/config"
	"github.com/campuslib/circulation-service/notifier/internal/handler"
	"github.com/campuslib/circulation-service/notifier/internal/service"
	"github.com/campuslib/circulation-service/pkg/kafka"
	"github.com/campuslib/circulation-service/pkg/logger"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "notifier")
	svc := service.NewService(cfg.WebhookURL, log)

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.NotifierConsumerGroup)
	if err != nil {
		return fmt.Errorf("kafka.NewConsumer %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go kafka.Consume(ctx, consumer, handler.NewConsumer(svc.Notify, log), log, kafka.CirculationTopic)

	h := handler.New(log)
	e := h.NewRouter()
	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	log.Info("http server start ON: ", zap.String("addr", addr))
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err := e.Shutdown(closeCtx); err != nil {
		log.Error("e.Shutdown", zap.Error(err))
	}
	cancel()
	if err := consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
	return nil
}
