package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go-storefront/internal/config"
	"go-storefront/internal/repository"
	"go-storefront/internal/service"
	"go-storefront/pkg/database"
	"go-storefront/pkg/jwt"
	"go-storefront/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "email of the account to reset")
	password := flag.String("password", "", "new password (at least 6 characters)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: reset-password -email admin@example.com -password newsecret")
		os.Exit(2)
	}

	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DSN(), database.DefaultOptions(), log)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}

	auth := service.NewAuthService(repository.NewUserRepo(db), jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL), log)
	if err := auth.ResetPassword(context.Background(), *email, *password); err != nil {
		log.Fatal("reset password", zap.String("email", *email), zap.Error(err))
	}
	fmt.Printf("Password for %s has been reset. Existing sessions are signed out.\n", *email)
}
