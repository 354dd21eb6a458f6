package model

// RaidAction is the guild-wide response to a join burst.
type RaidAction string

const (
	RaidActionAlert    RaidAction = "alert"
	RaidActionLockdown RaidAction = "lockdown"
	RaidActionKickNew  RaidAction = "kick_new"
)

// NukeAction is the response against an actor caught mass-deleting.
type NukeAction string

const (
	NukeActionAlert       NukeAction = "alert"
	NukeActionRemovePerms NukeAction = "remove_perms"
	NukeActionBan         NukeAction = "ban"
)

// AutomodWhitelist exempts roles and channels from content detection.
type AutomodWhitelist struct {
	Roles    []string `mapstructure:"roles"`
	Channels []string `mapstructure:"channels"`
}

// AutomodConfig is the per-guild moderation configuration. It is owned by the
// external config store and read-only to the engine.
type AutomodConfig struct {
	Enabled bool `mapstructure:"enabled"`

	SpamEnabled      bool `mapstructure:"spam_enabled"`
	DuplicateEnabled bool `mapstructure:"duplicate_enabled"`
	InviteEnabled    bool `mapstructure:"invite_enabled"`
	LinkEnabled      bool `mapstructure:"link_enabled"`
	CapsEnabled      bool `mapstructure:"caps_enabled"`
	EmojiEnabled     bool `mapstructure:"emoji_enabled"`
	MentionEnabled   bool `mapstructure:"mention_enabled"`
	NSFWEnabled      bool `mapstructure:"nsfw_enabled"`
	ZalgoEnabled     bool `mapstructure:"zalgo_enabled"`
	RaidEnabled      bool `mapstructure:"raid_enabled"`
	NukeEnabled      bool `mapstructure:"nuke_enabled"`

	// Thresholds are cumulative violation counts, ascending warn < mute <
	// kick < ban. A zero threshold disables that tier.
	WarnThreshold int `mapstructure:"warn_threshold"`
	MuteThreshold int `mapstructure:"mute_threshold"`
	KickThreshold int `mapstructure:"kick_threshold"`
	BanThreshold  int `mapstructure:"ban_threshold"`

	MuteDurationSeconds int `mapstructure:"mute_duration_seconds"`

	// ResetOnAction clears a user's violation count after a kick or ban so a
	// returning user starts over instead of escalating straight to ban.
	ResetOnAction bool `mapstructure:"reset_on_action"`

	RaidAction RaidAction `mapstructure:"raid_action"`
	NukeAction NukeAction `mapstructure:"nuke_action"`

	LogChannelID string `mapstructure:"log_channel_id"`

	Whitelist     AutomodWhitelist `mapstructure:"whitelist"`
	NukeWhitelist []string         `mapstructure:"nuke_whitelist"`
}

// PunishmentStatsChannel configures the periodic stats embed for one guild.
type PunishmentStatsChannel struct {
	TargetGuildID string `mapstructure:"guild_id"`
	ChannelID     string `mapstructure:"channel_id"`
	MessageID     string `mapstructure:"message_id"`
}

// Config holds the process-level configuration loaded from the environment.
type Config struct {
	BotToken     string
	AppID        string
	LogChannelID string

	AutomodConfigPath string
	PunishmentDBPath  string

	StatsChannels []PunishmentStatsChannel
}
