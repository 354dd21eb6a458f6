package commands

import (
	"automod-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// Generate returns the application commands the bot registers globally.
func Generate() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.AutomodStatus,
	}
}
