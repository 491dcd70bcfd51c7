package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/richardliu001/point-service/internal/config"
	"github.com/richardliu001/point-service/internal/logger"
	"github.com/richardliu001/point-service/internal/repo"
	"github.com/segmentio/kafka-go"
)

func main() {
	path := "internal/config/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfgPath := flag.String("config", path, "path to yaml config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	log, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer log.Sync()

	if cfg.Store.Driver == config.DriverMemory {
		log.Fatalf("poller needs a database store, got %q", cfg.Store.Driver)
	}
	gdb, err := repo.OpenGorm(cfg)
	if err != nil {
		log.Fatalf("open %s: %v", cfg.Store.Driver, err)
	}

	kw := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.Hash{},
	}
	defer kw.Close()

	relay := repo.NewOutboxRelay(gdb, kw, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.Poller.Interval)
	defer ticker.Stop()

	log.Info("point-poller started")
	for {
		select {
		case <-ctx.Done():
			log.Info("point-poller stopped")
			return
		case <-ticker.C:
			sent, err := relay.RunOnce(ctx, cfg.Poller.Batch)
			if err != nil {
				log.Errorf("relay outbox: %v", err)
			}
			if sent > 0 {
				log.Infof("%d events sent", sent)
			}
		}
	}
}
