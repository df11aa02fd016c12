package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/internal/builder"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/store"
	"github.com/Mutter0815/PageBuilder/pkg/config"
	"github.com/Mutter0815/PageBuilder/pkg/i18n"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
	"github.com/Mutter0815/PageBuilder/pkg/rmq"
	"github.com/Mutter0815/PageBuilder/services/campaign-api/server"
)

func main() {
	logx.Init()
	defer logx.Sync()

	config.MustLoadAPI()
	cfg := config.API

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	st, closeStore, err := store.Open(initCtx, cfg.Store)
	cancelInit()
	if err != nil {
		logx.L().Fatalw("store_open_error", "driver", cfg.Store.Driver, "error", err)
	}
	defer closeStore()

	authSvc := auth.NewService(st, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL))
	if err := authSvc.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logx.L().Fatalw("admin_bootstrap_error", "error", err)
	}

	var pub campaign.Publisher
	if cfg.RMQURL != "" {
		p, err := rmq.NewPublisher(cfg.RMQURL, cfg.Queue)
		if err != nil {
			logx.L().Fatalw("rmq_init_error", "error", err)
		}
		defer func() {
			if err := p.Close(); err != nil {
				logx.L().Warnw("rmq_publisher_close_error", "error", err)
			} else {
				logx.L().Infow("rmq_publisher_closed")
			}
		}()
		pub = p
	} else {
		logx.L().Infow("events_disabled", "reason", "RMQ_URL is empty")
	}

	cs := campaign.NewService(st, pub)

	h := server.NewHandlers(authSvc, cs, builder.NewRegistry(cs, cfg.SessionIdleTTL))
	h.Timeout = cfg.RequestTimeout
	h.CORSOrigins = cfg.CORSOrigins
	if tag, ok := i18n.Parse(cfg.DefaultLang); ok {
		h.DefaultLang = tag
	} else {
		logx.L().Warnw("default_lang_unsupported", "lang", cfg.DefaultLang)
	}

	srv := server.NewHTTPServer(":"+cfg.Port, h)

	go func() {
		logx.L().Infow("api_listen_start", "addr", ":"+cfg.Port, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.L().Fatalw("http_server_error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logx.L().Infow("signal_received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logx.L().Errorw("server_shutdown_error", "error", err)
	} else {
		logx.L().Infow("server_shutdown_success")
	}

	logx.L().Infow("campaign-api stopped gracefully")
}
