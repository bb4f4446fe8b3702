package main

import (
	"context"
	"flag"
	"time"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "business account email")
	password := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("failed to load config", zap.Error(err))
	}
	log := logger.New(cfg.Log.Level, "console")
	defer log.Sync()
	if envErr != nil {
		log.Debug(".env file not found, relying on system env")
	}

	if *email == "" || len(*password) < 6 {
		log.Fatal("usage: reset-password -email <email> -password <new password, min 6 characters>")
	}

	// 2. Setup Database
	db, err := database.Open(cfg.Database.Store(), log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 3. Find business
	businesses := repository.NewBusinessRepo(db)
	business, err := businesses.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatal("business not found", zap.String("email", *email), zap.Error(err))
	}

	// 4. Hash and store the new password
	if err := business.SetPassword(*password); err != nil {
		log.Fatal("failed to hash password", zap.Error(err))
	}
	if err := businesses.UpdatePassword(ctx, business.ID, business.Password); err != nil {
		log.Fatal("failed to update password", zap.Error(err))
	}

	log.Info("password reset", zap.String("email", business.Email))
}
