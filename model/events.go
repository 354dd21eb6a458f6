package model

import "time"

// MessageEvent is a normalized message-create event from the gateway.
// The handler layer fills it in from discordgo state before the engine sees it.
type MessageEvent struct {
	MessageID      string
	GuildID        string
	ChannelID      string
	AuthorID       string
	AuthorUsername string
	Content        string

	MentionUserIDs   []string
	MentionRoleIDs   []string
	MentionsEveryone bool

	AuthorRoleIDs []string
	AuthorIsAdmin bool
}

// MemberJoinEvent is a normalized guild-member-add event.
type MemberJoinEvent struct {
	GuildID          string
	UserID           string
	AccountCreatedAt time.Time
}

// AdminActionType classifies a destructive administrative event.
type AdminActionType string

const (
	AdminActionChannelDelete AdminActionType = "channel_delete"
	AdminActionRoleDelete    AdminActionType = "role_delete"
	AdminActionBan           AdminActionType = "ban"
	AdminActionKick          AdminActionType = "kick"
)

// AdminActionEvent is a destructive event observed on the gateway. The actor
// is unknown at this point; the nuke detector attributes it via the audit log.
type AdminActionEvent struct {
	GuildID  string
	Action   AdminActionType
	TargetID string
}
