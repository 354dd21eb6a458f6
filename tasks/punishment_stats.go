package tasks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"automod-bot/model"
	"automod-bot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("module", "tasks")

// GeneratePunishmentStatsEmbed builds the per-action punishment breakdown
// for one guild over the given window.
func GeneratePunishmentStatsEmbed(db *sqlx.DB, targetGuildID string, duration time.Duration) (*discordgo.MessageEmbed, error) {
	since := time.Now().Add(-duration)

	stats, err := database.GetActionStats(db, targetGuildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get action stats for guild %s: %w", targetGuildID, err)
	}
	total, err := database.GetTotalPunishmentCount(db, targetGuildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get total punishment count for guild %s: %w", targetGuildID, err)
	}

	var actions []string
	for action := range stats {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool {
		return stats[actions[i]] > stats[actions[j]]
	})

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("### Automod actions over the last %s\n", duration.String()))
	builder.WriteString(fmt.Sprintf("**Total: %d**\n\n", total))
	for i, action := range actions {
		builder.WriteString(fmt.Sprintf("%d. `%s`: %d\n", i+1, action, stats[action]))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Moderation activity",
		Description: builder.String(),
		Timestamp:   time.Now().Format(time.RFC3339),
		Color:       0x00ff00,
	}
	return embed, nil
}

// UpdatePunishmentStats posts or edits the stats embed in the configured
// channel.
func UpdatePunishmentStats(s *discordgo.Session, db *sqlx.DB, config model.PunishmentStatsChannel, duration time.Duration) {
	embed, err := GeneratePunishmentStatsEmbed(db, config.TargetGuildID, duration)
	if err != nil {
		logger.WithError(err).Error("Failed to generate punishment stats embed")
		return
	}

	if config.MessageID == "" {
		if _, err := s.ChannelMessageSendEmbed(config.ChannelID, embed); err != nil {
			logger.WithError(err).WithField("channel", config.ChannelID).Error("Failed to send punishment stats message")
		}
		return
	}
	if _, err := s.ChannelMessageEditEmbed(config.ChannelID, config.MessageID, embed); err != nil {
		logger.WithError(err).WithField("channel", config.ChannelID).Error("Failed to edit punishment stats message")
	}
}
