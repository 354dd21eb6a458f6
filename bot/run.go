package bot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"automod-bot/commands"
	"automod-bot/utils"
)

// Run opens the gateway connection, registers commands, starts the
// scheduler and blocks until the process receives a termination signal.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}

	cmds := commands.Generate()
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.GetConfig().AppID, "", cmds)
	if err != nil {
		logger.WithError(err).Error("Cannot register application commands")
	} else {
		b.RegisteredCommands = registered
	}

	b.scheduler.Start()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	if err := utils.LogInfo(b.Session, b.GetConfig().LogChannelID, "System", "Startup", "Moderation engine started."); err != nil {
		logger.WithError(err).Warn("Failed to send startup log")
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}
