package automod

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"automod-bot/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTierMonotonicity(t *testing.T) {
	cfg := testConfig() // warn=2 mute=4 kick=6 ban=8

	cases := []struct {
		count int
		want  Tier
	}{
		{1, TierNone},
		{2, TierWarn},
		{3, TierWarn},
		{4, TierMute},
		{5, TierMute},
		{6, TierKick},
		{7, TierKick},
		{8, TierBan},
		{100, TierBan},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, selectTier(tc.count, cfg), "count=%d", tc.count)
	}
}

func TestSelectTierDisabledTiers(t *testing.T) {
	cfg := testConfig()
	cfg.KickThreshold = 0
	cfg.BanThreshold = 0

	assert.Equal(t, TierMute, selectTier(50, cfg), "disabled tiers cap escalation at mute")
}

// A message producing several violations still bumps the count by exactly one.
func TestOneIncrementPerMessage(t *testing.T) {
	env := newTestEnv(testConfig())

	ev := message("mallory", "@everyone https://discord.gg/abc https://evil.example PORN")
	ev.MentionsEveryone = true
	env.engine.HandleMessage(ev)

	st := env.engine.counts[userKey{GuildID: testGuild, UserID: "mallory"}]
	require.NotNil(t, st)
	assert.Equal(t, 1, st.count)
}

func TestEscalationSequence(t *testing.T) {
	env := newTestEnv(testConfig())

	// Each message is an invite violation; space them out so the spam
	// window never enters the picture.
	for i := 1; i <= 8; i++ {
		env.engine.HandleMessage(message("mallory", fmt.Sprintf("spam %d https://discord.gg/x%d", i, i)))
		env.clock.Advance(time.Minute)
	}

	assert.Len(t, env.actuator.Deleted, 8, "every offending message is deleted")
	assert.Len(t, env.actuator.DMs, 2, "violations 2 and 3 warn")
	require.Len(t, env.actuator.Timeouts, 2, "violations 4 and 5 mute")
	assert.Equal(t, 600*time.Second, env.actuator.Timeouts[0].Duration)
	assert.Len(t, env.actuator.Kicks, 2, "violations 6 and 7 kick")
	assert.Len(t, env.actuator.Bans, 1, "violation 8 bans")
}

func TestCountsSurvivePunishment(t *testing.T) {
	env := newTestEnv(testConfig())

	for i := 1; i <= 10; i++ {
		env.engine.HandleMessage(message("mallory", fmt.Sprintf("x %d https://discord.gg/y%d", i, i)))
		env.clock.Advance(time.Minute)
	}
	// Past the ban threshold every further violation keeps banning.
	assert.Len(t, env.actuator.Bans, 3)
}

func TestResetOnAction(t *testing.T) {
	cfg := testConfig()
	cfg.ResetOnAction = true
	env := newTestEnv(cfg)

	for i := 1; i <= 6; i++ {
		env.engine.HandleMessage(message("mallory", fmt.Sprintf("x %d https://discord.gg/y%d", i, i)))
		env.clock.Advance(time.Minute)
	}
	require.Len(t, env.actuator.Kicks, 1, "6th violation kicks")

	// The kick reset the count, so the next violation starts from 1.
	env.engine.HandleMessage(message("mallory", "again https://discord.gg/z"))
	st := env.engine.counts[userKey{GuildID: testGuild, UserID: "mallory"}]
	require.NotNil(t, st)
	assert.Equal(t, 1, st.count)
}

func TestViolationCountsArePerGuild(t *testing.T) {
	env := newTestEnv(testConfig())
	env.configs.configs["guild-2"] = testConfig()

	env.engine.HandleMessage(message("mallory", "https://discord.gg/a"))
	ev := message("mallory", "https://discord.gg/b")
	ev.GuildID = "guild-2"
	env.engine.HandleMessage(ev)

	st := env.engine.counts[userKey{GuildID: testGuild, UserID: "mallory"}]
	require.NotNil(t, st)
	assert.Equal(t, 1, st.count, "a violation in another guild does not bleed over")
}

func TestWarnDMFailureIsSwallowed(t *testing.T) {
	env := newTestEnv(testConfig())
	env.actuator.FailDM = true

	for i := 1; i <= 2; i++ {
		env.engine.HandleMessage(message("mallory", fmt.Sprintf("x %d https://discord.gg/y%d", i, i)))
		env.clock.Advance(time.Minute)
	}
	// No panic, nothing escalated beyond the warn, processing continues.
	env.engine.HandleMessage(message("mallory", "ok https://discord.gg/z"))
	assert.Len(t, env.actuator.Deleted, 3)
}

func TestViolationLogNamesEveryViolation(t *testing.T) {
	env := newTestEnv(testConfig())

	ev := message("mallory", "@everyone https://discord.gg/abc")
	ev.MentionsEveryone = true
	env.engine.HandleMessage(ev)

	require.NotEmpty(t, env.actuator.Logs)
	embed := env.actuator.Logs[len(env.actuator.Logs)-1]

	found := map[string]bool{}
	for _, f := range embed.Fields {
		found[f.Name] = true
	}
	assert.True(t, found["invite (high)"])
	assert.True(t, found["everyone_mention (critical)"])
}

type recordingStore struct {
	mu      sync.Mutex
	records []model.PunishmentRecord
}

func (r *recordingStore) AddRecord(record model.PunishmentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func TestPunishmentsAreRecorded(t *testing.T) {
	env := newTestEnv(testConfig())
	store := &recordingStore{}
	env.engine.Records = store

	env.engine.HandleMessage(message("mallory", "https://discord.gg/abc"))

	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "mallory", rec.UserID)
	assert.Equal(t, testGuild, rec.GuildID)
	assert.Contains(t, rec.Violations, "invite")
}

// A guild without config must be a no-op.
func TestMissingConfigIsNoOp(t *testing.T) {
	env := newTestEnv(testConfig())

	ev := message("mallory", "https://discord.gg/abc")
	ev.GuildID = "guild-3"
	env.engine.HandleMessage(ev)
	assert.Empty(t, env.actuator.Deleted)
}

func TestDisabledConfigIsNoOp(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	env := newTestEnv(cfg)

	env.engine.HandleMessage(message("mallory", "https://discord.gg/abc"))
	assert.Empty(t, env.actuator.Deleted)
}
