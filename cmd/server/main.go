package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/richardliu001/point-service/internal/config"
	"github.com/richardliu001/point-service/internal/lock"
	"github.com/richardliu001/point-service/internal/logger"
	"github.com/richardliu001/point-service/internal/metrics"
	"github.com/richardliu001/point-service/internal/service"
	httptransport "github.com/richardliu001/point-service/internal/transport/http"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := flag.String("config", envOr("CONFIG_PATH", "internal/config/config.yaml"), "path to yaml config")
	flag.Parse()

	// 1. load config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	// 2. init logger
	log, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. stores (memory / postgres / sqlite, optional redis cache)
	points, histories, closeStores, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatalf("open stores: %v", err)
	}
	defer closeStores()

	// 4. metrics, lock registry & service
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	locks := lock.NewRegistry()
	svc := service.NewPointService(points, histories, locks, log,
		service.WithMetrics(metrics.New(reg, locks.Len)))

	// 5. gin router
	gin.SetMode(cfg.Server.Mode)
	router := httptransport.NewRouter(svc, cfg.RateLimit, log, reg)

	// 6. serve until signalled
	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: router}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("point-server listening on %s (store=%s)", srv.Addr, cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("point-server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Errorf("server: %v", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
