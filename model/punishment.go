package model

// PunishmentRecord represents a single executed punishment in the database.
// The database table is named 'punishments'.
type PunishmentRecord struct {
	PunishmentID int64  `db:"punishment_id"` // Primary Key, Auto-increment
	MessageID    string `db:"message_id"`
	UserID       string `db:"user_id"`
	UserUsername string `db:"user_username"`
	GuildID      string `db:"guild_id"`
	ActionType   string `db:"action_type"` // warn, mute, kick, ban, raid_response, nuke_response
	Reason       string `db:"reason"`
	Violations   string `db:"violations"` // comma-separated violation types for this message
	Timestamp    int64  `db:"timestamp"`
}
