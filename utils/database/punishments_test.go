package database

import (
	"path/filepath"
	"testing"
	"time"

	"automod-bot/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Init(filepath.Join(t.TempDir(), "punishments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func record(guildID, userID, action string, ts time.Time) model.PunishmentRecord {
	return model.PunishmentRecord{
		MessageID:    "msg-1",
		UserID:       userID,
		UserUsername: "someone",
		GuildID:      guildID,
		ActionType:   action,
		Reason:       "Automod: spam",
		Violations:   "spam",
		Timestamp:    ts.Unix(),
	}
}

func TestAddAndGetPunishmentRecords(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	id, err := AddPunishmentRecord(db, record("guild-1", "alice", "mute", now))
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	_, err = AddPunishmentRecord(db, record("guild-1", "alice", "kick", now))
	require.NoError(t, err)
	_, err = AddPunishmentRecord(db, record("guild-2", "alice", "ban", now))
	require.NoError(t, err)

	records, err := GetPunishmentRecordsByUserID(db, "guild-1", "alice", nil)
	require.NoError(t, err)
	assert.Len(t, records, 2, "records are scoped to one guild")
	assert.Equal(t, "mute", records[0].ActionType)
	assert.Equal(t, "Automod: spam", records[0].Reason)
}

func TestGetPunishmentRecordsSince(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	_, err := AddPunishmentRecord(db, record("guild-1", "alice", "warn", now.Add(-48*time.Hour)))
	require.NoError(t, err)
	_, err = AddPunishmentRecord(db, record("guild-1", "alice", "mute", now))
	require.NoError(t, err)

	since := now.Add(-24 * time.Hour)
	records, err := GetPunishmentRecordsByUserID(db, "guild-1", "alice", &since)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "mute", records[0].ActionType)
}

func TestActionStats(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	for i := 0; i < 3; i++ {
		_, err := AddPunishmentRecord(db, record("guild-1", "alice", "mute", now))
		require.NoError(t, err)
	}
	_, err := AddPunishmentRecord(db, record("guild-1", "bob", "ban", now))
	require.NoError(t, err)
	_, err = AddPunishmentRecord(db, record("guild-1", "carol", "warn", now.Add(-2*time.Hour)))
	require.NoError(t, err)

	stats, err := GetActionStats(db, "guild-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"mute": 3, "ban": 1}, stats, "stale records fall outside the cutoff")

	total, err := GetTotalPunishmentCount(db, "guild-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestPunishmentStoreAdapter(t *testing.T) {
	db := testDB(t)
	store := &PunishmentStore{DB: db}

	require.NoError(t, store.AddRecord(record("guild-1", "alice", "warn", time.Now())))

	total, err := GetTotalPunishmentCount(db, "guild-1", time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
