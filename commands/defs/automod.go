package defs

import "github.com/bwmarrin/discordgo"

var AutomodStatus = &discordgo.ApplicationCommand{
	Name:        "automod-status",
	Description: "Display moderation engine and host status",
}
