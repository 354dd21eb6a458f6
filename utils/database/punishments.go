package database

import (
	"fmt"
	"time"

	"automod-bot/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init opens the punishment database and ensures the schema exists.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS punishments (
	          punishment_id INTEGER PRIMARY KEY AUTOINCREMENT,
	          message_id TEXT NOT NULL DEFAULT '',
	          user_id TEXT NOT NULL,
	          user_username TEXT NOT NULL DEFAULT '',
	          guild_id TEXT NOT NULL,
	          action_type TEXT NOT NULL,
	          reason TEXT NOT NULL DEFAULT '',
	          violations TEXT NOT NULL DEFAULT '',
	          timestamp INTEGER NOT NULL
	      );`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create punishments table: %w", err)
	}

	return db, nil
}

// AddPunishmentRecord inserts one executed punishment and returns its ID.
func AddPunishmentRecord(db *sqlx.DB, record model.PunishmentRecord) (int64, error) {
	query := `INSERT INTO punishments (message_id, user_id, user_username, guild_id, action_type, reason, violations, timestamp)
			  VALUES (:message_id, :user_id, :user_username, :guild_id, :action_type, :reason, :violations, :timestamp)`

	result, err := db.NamedExec(query, record)
	if err != nil {
		return 0, fmt.Errorf("failed to insert punishment record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// GetPunishmentRecordsByUserID retrieves a user's punishment records,
// optionally filtered by a start time.
func GetPunishmentRecordsByUserID(db *sqlx.DB, guildID, userID string, since *time.Time) ([]model.PunishmentRecord, error) {
	var records []model.PunishmentRecord
	query := "SELECT * FROM punishments WHERE guild_id = ? AND user_id = ?"
	args := []interface{}{guildID, userID}

	if since != nil {
		query += " AND timestamp >= ?"
		args = append(args, since.Unix())
	}

	if err := db.Select(&records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get punishment records for user %s: %w", userID, err)
	}
	return records, nil
}

// GetActionStats returns punishment counts per action type since a cutoff.
func GetActionStats(db *sqlx.DB, guildID string, since time.Time) (map[string]int, error) {
	rows, err := db.Query(`SELECT action_type, COUNT(*) FROM punishments
		WHERE guild_id = ? AND timestamp >= ? GROUP BY action_type`, guildID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to get action stats for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("failed to scan action stats row: %w", err)
		}
		stats[action] = count
	}
	return stats, rows.Err()
}

// GetTotalPunishmentCount returns the total punishments since a cutoff.
func GetTotalPunishmentCount(db *sqlx.DB, guildID string, since time.Time) (int, error) {
	var total int
	err := db.Get(&total, `SELECT COUNT(*) FROM punishments WHERE guild_id = ? AND timestamp >= ?`,
		guildID, since.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to get total punishment count for guild %s: %w", guildID, err)
	}
	return total, nil
}

// PunishmentStore adapts the punishments table to the engine's record
// interface.
type PunishmentStore struct {
	DB *sqlx.DB
}

func (s *PunishmentStore) AddRecord(record model.PunishmentRecord) error {
	_, err := AddPunishmentRecord(s.DB, record)
	return err
}
