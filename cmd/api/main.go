// @title                       Blog API
// @version                     1.0
// @description                 Authentication, sessions and publishing for the blog platform.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/api"
	"github.com/inkwell/blog-api/internal/api/handler"
	"github.com/inkwell/blog-api/internal/core/service"
	mongodb "github.com/inkwell/blog-api/internal/infrastructure/db/mongo"
	"github.com/inkwell/blog-api/internal/infrastructure/db/mysql"
	redisdb "github.com/inkwell/blog-api/internal/infrastructure/db/redis"
	"github.com/inkwell/blog-api/internal/infrastructure/http/handlers"
	"github.com/inkwell/blog-api/internal/infrastructure/queue"
	"github.com/inkwell/blog-api/internal/pkg/config"
	"github.com/inkwell/blog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog-api",
	})

	// --- Stores ---
	db, err := mysql.Connect(ctx, mysql.Config{DSN: cfg.MySQL.DSN}, log)
	if err != nil {
		return err
	}
	defer closeWith(log, "mysql", func() error { return mysql.Close(db) })

	if err := mysql.Migrate(ctx, db); err != nil {
		return err
	}

	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "blog-api",
	})
	if err != nil {
		return err
	}
	defer closeWith(log, "mongodb", func() error { return mongodb.Disconnect(mongoClient) })

	auditRepo := mongodb.NewAuditRepository(mongoDB)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer closeWith(log, "redis", rdb.Close)

	// --- Services ---
	users := mysql.NewUserRepository(db)
	sessions := service.NewSessionService(users, redisdb.NewSessionCache(rdb, cfg.Session.CacheTTL, log), log)
	tokens := service.NewTokenService(service.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		AccessTTL:     cfg.JWT.AccessExpiry,
		RefreshSecret: cfg.JWT.RefreshSecret,
		RefreshTTL:    cfg.JWT.RefreshExpiry,
		Issuer:        cfg.JWT.Issuer,
	})
	posts := mysql.NewPostRepository(db)
	tags := mysql.NewTagRepository(db)

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(auditRepo, log), log)
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Stop()

	e := api.NewRouter(api.Dependencies{
		Auth:     service.NewAuthService(users, tokens, service.NewBcryptHasher(cfg.Security.BcryptCost), sessions, log),
		Authors:  service.NewAuthorService(mysql.NewAuthorRepository(db), sessions, log),
		Posts:    service.NewPostService(posts, tags, log),
		Tags:     service.NewTagService(tags, posts, log),
		Tokens:   tokens,
		Sessions: sessions,
		Audit:    dispatcher,
		Cookie: handler.CookieConfig{
			Secure: cfg.Cookie.Secure,
			MaxAge: tokens.RefreshTTL(),
		},
		Readiness: handlers.NewHealthDependenciesHandler(db, mongoDB, rdb),
		Logger:    log,
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	return nil
}

func closeWith(log zerolog.Logger, name string, fn func() error) {
	if err := fn(); err != nil {
		log.Error().Err(err).Str("component", name).Msg("close failed")
		return
	}
	log.Info().Str("component", name).Msg("closed")
}
