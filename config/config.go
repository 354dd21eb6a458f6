package config

import (
	"errors"
	"fmt"
	"os"

	"automod-bot/model"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var logger = logrus.WithField("module", "config")

// Load loads the process configuration from environment variables and the
// stats channel config file.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info(".env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		return nil, fmt.Errorf("APP_ID environment variable not set")
	}

	logChannelID := os.Getenv("LOG_CHANNEL_ID")
	if logChannelID == "" {
		logger.Warn("LOG_CHANNEL_ID not set, process-level Discord logging disabled")
	}

	automodConfigPath := os.Getenv("AUTOMOD_CONFIG_PATH")
	if automodConfigPath == "" {
		automodConfigPath = "data/automod.yaml"
	}

	punishmentDBPath := os.Getenv("PUNISHMENT_DB_PATH")
	if punishmentDBPath == "" {
		punishmentDBPath = "data/punishments.db"
	}

	cfg := &model.Config{
		BotToken:          token,
		AppID:             appID,
		LogChannelID:      logChannelID,
		AutomodConfigPath: automodConfigPath,
		PunishmentDBPath:  punishmentDBPath,
	}

	if err := loadStatsChannels(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadStatsChannels reads the optional punishment-stats channel list from the
// automod config file's top-level stats_channels key.
func loadStatsChannels(cfg *model.Config) error {
	v := viper.New()
	v.SetConfigFile(cfg.AutomodConfigPath)
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warnf("Config file not found at %s, skipping stats channels", cfg.AutomodConfigPath)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", cfg.AutomodConfigPath, err)
	}
	if err := v.UnmarshalKey("stats_channels", &cfg.StatsChannels); err != nil {
		return fmt.Errorf("failed to parse stats_channels: %w", err)
	}
	return nil
}
