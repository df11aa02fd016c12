package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mutter0815/PageBuilder/internal/store"
	"github.com/Mutter0815/PageBuilder/pkg/config"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
	"github.com/Mutter0815/PageBuilder/pkg/metrics"
	"github.com/Mutter0815/PageBuilder/pkg/rmq"
	"github.com/Mutter0815/PageBuilder/services/page-auditor/worker"
)

func main() {
	logx.Init()
	defer logx.Sync()

	config.MustLoadWorker()
	cfg := config.Worker

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancelInit := context.WithTimeout(ctx, 15*time.Second)
	st, closeStore, err := store.Open(initCtx, cfg.Store)
	cancelInit()
	if err != nil {
		logx.L().Fatalw("store_open_error", "driver", cfg.Store.Driver, "error", err)
	}
	defer closeStore()

	cons, err := rmq.NewConsumer(cfg.RMQURL, cfg.Queue)
	if err != nil {
		logx.L().Fatalw("rmq_consumer_error", "error", err)
	}
	defer cons.Close()

	pub, err := rmq.NewPublisher(cfg.RMQURL, cfg.Queue)
	if err != nil {
		logx.L().Fatalw("rmq_publisher_error", "error", err)
	}
	defer pub.Close()

	msrv := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := msrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.L().Errorw("metrics_server_error", "error", err)
		}
	}()
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = msrv.Shutdown(sctx)
	}()

	w := worker.New(st, cons, pub, cfg.MaxRetries)
	logx.L().Infow("auditor_start", "queue", cfg.Queue, "max_retries", cfg.MaxRetries)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logx.L().Errorw("worker_error", "error", err)
	}
	logx.L().Infow("page-auditor stopped gracefully")
}
