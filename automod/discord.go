package automod

import (
	"fmt"
	"time"

	"automod-bot/model"
	"automod-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// DiscordActuator implements Actuator against a live discordgo session.
type DiscordActuator struct {
	Session *discordgo.Session
}

func (a *DiscordActuator) DeleteMessage(channelID, messageID string) error {
	return a.Session.ChannelMessageDelete(channelID, messageID)
}

func (a *DiscordActuator) TimeoutMember(guildID, userID string, duration time.Duration, reason string) error {
	until := time.Now().Add(duration)
	return a.Session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithAuditLogReason(reason))
}

func (a *DiscordActuator) KickMember(guildID, userID, reason string) error {
	return a.Session.GuildMemberDeleteWithReason(guildID, userID, reason)
}

func (a *DiscordActuator) BanMember(guildID, userID, reason string, deleteMessageDays int) error {
	return a.Session.GuildBanCreateWithReason(guildID, userID, reason, deleteMessageDays)
}

func (a *DiscordActuator) RemoveRole(guildID, userID, roleID, reason string) error {
	return a.Session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
}

func (a *DiscordActuator) SetVerificationLevel(guildID string, level int) error {
	lvl := discordgo.VerificationLevel(level)
	_, err := a.Session.GuildEdit(guildID, &discordgo.GuildParams{VerificationLevel: &lvl})
	return err
}

func (a *DiscordActuator) PostLogMessage(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := a.Session.ChannelMessageSendEmbed(channelID, embed)
	return err
}

func (a *DiscordActuator) SendDirectMessage(userID, content string) error {
	return utils.SendPrivateMessage(a.Session, userID, content)
}

// DiscordAuditLog implements AuditLog via the guild audit log endpoint.
// Lookups are best-effort: any failure means no attribution.
type DiscordAuditLog struct {
	Session *discordgo.Session
}

func auditLogAction(action model.AdminActionType) discordgo.AuditLogAction {
	switch action {
	case model.AdminActionChannelDelete:
		return discordgo.AuditLogActionChannelDelete
	case model.AdminActionRoleDelete:
		return discordgo.AuditLogActionRoleDelete
	case model.AdminActionBan:
		return discordgo.AuditLogActionMemberBanAdd
	case model.AdminActionKick:
		return discordgo.AuditLogActionMemberKick
	default:
		return 0
	}
}

func (a *DiscordAuditLog) LatestExecutor(guildID string, action model.AdminActionType) (string, bool) {
	logAction := auditLogAction(action)
	if logAction == 0 {
		return "", false
	}
	al, err := a.Session.GuildAuditLog(guildID, "", "", int(logAction), 1)
	if err != nil {
		logger.WithError(err).WithField("guild", guildID).Debug("Audit log lookup failed")
		return "", false
	}
	if len(al.AuditLogEntries) == 0 {
		return "", false
	}
	return al.AuditLogEntries[0].UserID, true
}

// DiscordGuildDirectory implements GuildDirectory, preferring local state and
// falling back to the REST API.
type DiscordGuildDirectory struct {
	Session *discordgo.Session
}

func (d *DiscordGuildDirectory) guildRoles(guildID string) ([]*discordgo.Role, error) {
	if g, err := d.Session.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		return g.Roles, nil
	}
	return d.Session.GuildRoles(guildID)
}

func (d *DiscordGuildDirectory) member(guildID, userID string) (*discordgo.Member, error) {
	if m, err := d.Session.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	return d.Session.GuildMember(guildID, userID)
}

func (d *DiscordGuildDirectory) MemberRoles(guildID, userID string) ([]Role, error) {
	m, err := d.member(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member %s: %w", userID, err)
	}
	guildRoles, err := d.guildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles for guild %s: %w", guildID, err)
	}

	byID := make(map[string]*discordgo.Role, len(guildRoles))
	for _, r := range guildRoles {
		byID[r.ID] = r
	}

	roles := make([]Role, 0, len(m.Roles))
	for _, id := range m.Roles {
		r, ok := byID[id]
		if !ok {
			continue
		}
		roles = append(roles, Role{ID: r.ID, Name: r.Name, Permissions: r.Permissions, Position: r.Position})
	}
	return roles, nil
}

func (d *DiscordGuildDirectory) BotRolePosition(guildID string) (int, error) {
	roles, err := d.MemberRoles(guildID, d.Session.State.User.ID)
	if err != nil {
		return 0, err
	}
	highest := 0
	for _, r := range roles {
		if r.Position > highest {
			highest = r.Position
		}
	}
	return highest, nil
}
