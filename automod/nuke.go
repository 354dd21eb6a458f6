package automod

import (
	"fmt"
	"time"

	"automod-bot/model"

	"github.com/bwmarrin/discordgo"
)

// dangerousPermissions are the permission bits that make a role worth
// stripping from a nuking account.
const dangerousPermissions = discordgo.PermissionAdministrator |
	discordgo.PermissionManageServer |
	discordgo.PermissionManageChannels |
	discordgo.PermissionManageRoles |
	discordgo.PermissionBanMembers |
	discordgo.PermissionKickMembers

// HandleAdminAction feeds one destructive event into the nuke window for the
// actor the audit log attributes it to. Without attribution there is no
// detection. The window is not cleared on trigger, so a continuing burst
// keeps re-triggering until it ages out.
func (e *Engine) HandleAdminAction(ev model.AdminActionEvent) {
	cfg := e.guildConfig(ev.GuildID)
	if cfg == nil || !cfg.NukeEnabled {
		return
	}

	executorID, ok := e.audit.LatestExecutor(ev.GuildID, ev.Action)
	if !ok {
		logger.WithField("guild", ev.GuildID).WithField("action", ev.Action).
			Debug("No audit entry for destructive event, skipping")
		return
	}
	for _, id := range cfg.NukeWhitelist {
		if id == executorID {
			return
		}
	}

	now := e.now()
	key := nukeKey{GuildID: ev.GuildID, ExecutorID: executorID, Action: ev.Action}

	e.nukesMu.Lock()
	window := append(e.nukes[key], now)
	cut := 0
	for cut < len(window) && now.Sub(window[cut]) > nukeWindow {
		cut++
	}
	window = window[cut:]
	e.nukes[key] = window
	count := len(window)
	e.nukesMu.Unlock()

	if count < nukeThreshold {
		return
	}

	e.nukeResponses.Add(1)
	e.respondToNuke(ev.GuildID, executorID, ev.Action, count, cfg)
}

func (e *Engine) respondToNuke(guildID, executorID string, action model.AdminActionType, count int, cfg *model.AutomodConfig) {
	logger.WithFields(map[string]interface{}{
		"guild":    guildID,
		"executor": executorID,
		"action":   action,
		"count":    count,
	}).Warn("Nuke detected")

	stripped := 0
	if cfg.NukeAction == model.NukeActionRemovePerms || cfg.NukeAction == model.NukeActionBan {
		stripped = e.stripDangerousRoles(guildID, executorID)
	}
	if cfg.NukeAction == model.NukeActionBan {
		reason := fmt.Sprintf("Automod: nuke response, %d %s actions in %s", count, action, nukeWindow)
		if err := e.actuator.BanMember(guildID, executorID, reason, banDeleteDays); err != nil {
			logger.WithError(err).WithField("user", executorID).Error("Failed banning nuke actor")
		}
	}

	if cfg.LogChannelID != "" {
		embed := &discordgo.MessageEmbed{
			Title:       "Nuke alert",
			Description: fmt.Sprintf("<@%s> performed %d `%s` actions within %s.", executorID, count, action, nukeWindow),
			Color:       0xED4245,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Response", Value: string(cfg.NukeAction), Inline: true},
				{Name: "Roles stripped", Value: fmt.Sprintf("%d", stripped), Inline: true},
			},
			Timestamp: e.now().Format(time.RFC3339),
		}
		if err := e.actuator.PostLogMessage(cfg.LogChannelID, embed); err != nil {
			logger.WithError(err).WithField("channel", cfg.LogChannelID).Warn("Failed posting nuke alert")
		}
	}
}

// stripDangerousRoles removes every role the executor holds that carries a
// dangerous permission and sits below the bot's own highest role.
func (e *Engine) stripDangerousRoles(guildID, executorID string) int {
	roles, err := e.guilds.MemberRoles(guildID, executorID)
	if err != nil {
		logger.WithError(err).WithField("user", executorID).Error("Failed resolving executor roles")
		return 0
	}
	botPos, err := e.guilds.BotRolePosition(guildID)
	if err != nil {
		logger.WithError(err).WithField("guild", guildID).Error("Failed resolving bot role position")
		return 0
	}

	stripped := 0
	for _, r := range roles {
		if r.Permissions&dangerousPermissions == 0 || r.Position >= botPos {
			continue
		}
		if err := e.actuator.RemoveRole(guildID, executorID, r.ID, "Automod: nuke response"); err != nil {
			logger.WithError(err).WithField("role", r.ID).Warn("Failed removing role from nuke actor")
			continue
		}
		stripped++
	}
	return stripped
}
