package bot

import (
	"fmt"
	"sync/atomic"

	"automod-bot/automod"
	"automod-bot/config"
	"automod-bot/model"
	"automod-bot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("module", "bot")

// Bot owns the gateway session, the moderation engine and the scheduler.
type Bot struct {
	Session            *discordgo.Session
	Engine             *automod.Engine
	DB                 *sqlx.DB
	RegisteredCommands []*discordgo.ApplicationCommand

	config    atomic.Value // *model.Config
	scheduler *Scheduler
	done      chan struct{}
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

func (b *Bot) GetEngine() *automod.Engine {
	return b.Engine
}

// New wires the session, config provider, engine and punishment store.
func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildBans

	provider, err := config.NewFileProvider(cfg.AutomodConfigPath)
	if err != nil {
		return nil, err
	}

	engine := automod.New(
		config.NewCachedProvider(provider),
		&automod.DiscordActuator{Session: dg},
		&automod.DiscordAuditLog{Session: dg},
		&automod.DiscordGuildDirectory{Session: dg},
	)
	engine.Records = &database.PunishmentStore{DB: db}

	b := &Bot{
		Session: dg,
		Engine:  engine,
		DB:      db,
		done:    make(chan struct{}),
	}
	b.config.Store(cfg)
	b.scheduler = NewScheduler(b)
	return b, nil
}

// Close stops the scheduler and shuts the session down.
func (b *Bot) Close() {
	logger.Info("Gracefully shutting down.")
	close(b.done)
	b.scheduler.Stop()
	if err := b.Session.Close(); err != nil {
		logger.WithError(err).Warn("Error closing session")
	}
}
