// Package store implements the campaign and user gateways on MongoDB,
// Postgres and process memory.
package store

import (
	"context"
	"fmt"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/pkg/config"
	"github.com/Mutter0815/PageBuilder/pkg/db"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
	"github.com/Mutter0815/PageBuilder/pkg/mongox"
)

// Backend is everything the services need from persistence.
type Backend interface {
	campaign.Store
	auth.UserStore
}

var (
	_ Backend = (*Memory)(nil)
	_ Backend = (*Mongo)(nil)
	_ Backend = (*Postgres)(nil)
)

// Open connects the backend selected by cfg.Driver. The returned func
// releases its connections.
func Open(ctx context.Context, cfg config.StoreConfig) (Backend, func(), error) {
	switch cfg.Driver {
	case "memory":
		return NewMemory(), func() {}, nil

	case "postgres":
		sqlDB, err := db.Open(cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres open: %w", err)
		}
		closeFn := func() {
			if err := sqlDB.Close(); err != nil {
				logx.L().Warnw("db_close_error", "error", err)
			} else {
				logx.L().Infow("db_closed")
			}
		}
		return NewPostgres(sqlDB), closeFn, nil

	case "mongo", "":
		client, err := mongox.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo connect: %w", err)
		}
		m := NewMongo(client.Database(cfg.MongoDB))
		if err := m.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logx.L().Warnw("mongo_disconnect_error", "error", err)
			} else {
				logx.L().Infow("mongo_disconnected")
			}
		}
		return m, closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

func slugTaken(slug string) error {
	return apperr.Validation(apperr.CodeSlugTaken, "slug", "slug %q already exists", slug)
}

func usernameTaken(username string) error {
	return apperr.Validation(apperr.CodeUsernameTaken, "username", "username %q already exists", username)
}

func notFound(slug string) error {
	return apperr.NotFound(apperr.CodeCampaignNotFound, "campaign %q not found", slug)
}
