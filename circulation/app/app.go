package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campuslib/circulation-service/circulation/config"
	"github.com/campuslib/circulation-service/circulation/internal/handler"
	"github.com/campuslib/circulation-service/circulation/internal/policy"
	"github.com/campuslib/circulation-service/circulation/internal/repository"
	"github.com/campuslib/circulation-service/circulation/internal/server"
	"github.com/campuslib/circulation-service/circulation/internal/service"
	"github.com/campuslib/circulation-service/circulation/migrations"
	"github.com/campuslib/circulation-service/pkg/kafka"
	"github.com/campuslib/circulation-service/pkg/logger"
	"github.com/campuslib/circulation-service/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "circulation")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo init %v", err)
	}
	policies, err := policy.NewStore(cfg.Policy)
	if err != nil {
		return fmt.Errorf("policy init %v", err)
	}

	opts := []service.Option{}
	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		// circulation keeps working without the notification pipeline
		log.Warn("kafka producer unavailable, availability events disabled", zap.Error(err))
	} else {
		opts = append(opts, service.WithNotifier(service.NewKafkaNotifier(producer)))
	}

	svc := service.NewService(repo, policies, log, opts...)
	h := handler.New(svc, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		return svc.RunSweeper(ctx, cfg.SweepInterval)
	})
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case termSig := <-sig:
			log.Debug("Graceful shutdown", zap.Any("signal", termSig))
		case <-ctx.Done():
		}

		closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
		defer closeCancel()
		if err := srv.Stop(closeCtx); err != nil {
			log.Error("srv.Stop", zap.Error(err))
		}
		cancel()
		return nil
	})

	err = g.Wait()
	if producer != nil {
		producer.Close() //nolint:errcheck
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}
