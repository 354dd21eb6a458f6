package main

import (
	"os"

	"automod-bot/bot"
	"automod-bot/config"
	"automod-bot/handlers"
	"automod-bot/utils"
	"automod-bot/utils/database"

	"github.com/sirupsen/logrus"
)

func main() {
	utils.SetupLogging()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Error loading configuration: %v", err)
	}

	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		logrus.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := database.Init(cfg.PunishmentDBPath)
	if err != nil {
		logrus.Fatalf("Error initializing punishment database: %v", err)
	}
	defer db.Close()

	b, err := bot.New(cfg, db)
	if err != nil {
		logrus.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)

	if err := b.Run(); err != nil {
		logrus.Fatalf("Error running bot: %v", err)
	}

	b.Close()
}
