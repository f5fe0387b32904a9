package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	adapthttp "microblog/internal/adapter/http"
	"microblog/internal/adapter/postgres"
	"microblog/internal/app"
	"microblog/internal/config"
	"microblog/internal/token"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.UsingDefaultSecret() {
		log.Warn("TOKEN_SECRET is not set; using the insecure default signing secret, do not run this in production")
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("db open", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	tokens := token.NewService(cfg.TokenSecret)
	authSvc := app.NewAuthService(db, tokens)
	feedSvc := app.NewFeedService(db, db, db, db)

	h := adapthttp.New(authSvc, feedSvc, tokens, log).Handler()
	log.Info("listening", slog.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server", slog.Any("error", err))
		os.Exit(1)
	}
}
