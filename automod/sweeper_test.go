package automod

import (
	"fmt"
	"testing"
	"time"

	"automod-bot/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperEvictsStaleState(t *testing.T) {
	env := newTestEnv(testConfig())
	env.audit.set(model.AdminActionChannelDelete, "actor")

	env.engine.HandleMessage(message("alice", "hello there"))
	env.engine.HandleMessage(message("bob", "https://discord.gg/abc"))
	join(env, "carol", 48*time.Hour)
	channelDelete(env, "c1")

	require.NotEmpty(t, env.engine.messages)
	require.NotEmpty(t, env.engine.counts)
	require.NotEmpty(t, env.engine.raids)
	require.NotEmpty(t, env.engine.nukes)

	env.clock.Advance(2 * time.Hour)
	env.engine.Sweep()

	assert.Empty(t, env.engine.messages)
	assert.Empty(t, env.engine.counts)
	assert.Empty(t, env.engine.raids)
	assert.Empty(t, env.engine.nukes)
}

func TestSweeperKeepsFreshState(t *testing.T) {
	env := newTestEnv(testConfig())

	env.engine.HandleMessage(message("alice", "hello there"))
	join(env, "carol", 48*time.Hour)

	env.clock.Advance(time.Minute)
	env.engine.Sweep()

	assert.NotEmpty(t, env.engine.messages, "entries inside the retention ceiling survive")
	assert.NotEmpty(t, env.engine.raids)
}

// Running the sweeper twice with no intervening events must leave state
// exactly as after the first run.
func TestSweeperIdempotence(t *testing.T) {
	env := newTestEnv(testConfig())
	env.audit.set(model.AdminActionChannelDelete, "actor")

	for i := 0; i < 3; i++ {
		env.engine.HandleMessage(message(fmt.Sprintf("user-%d", i), fmt.Sprintf("msg %d", i)))
	}
	join(env, "dave", time.Hour)
	channelDelete(env, "c1")

	env.clock.Advance(30 * time.Minute)
	env.engine.Sweep()

	messagesAfter := len(env.engine.messages)
	raidsAfter := len(env.engine.raids)
	nukesAfter := len(env.engine.nukes)

	env.engine.Sweep()

	assert.Equal(t, messagesAfter, len(env.engine.messages))
	assert.Equal(t, raidsAfter, len(env.engine.raids))
	assert.Equal(t, nukesAfter, len(env.engine.nukes))
}

func TestSweeperOnEmptyState(t *testing.T) {
	env := newTestEnv(testConfig())
	assert.NotPanics(t, func() {
		env.engine.Sweep()
		env.engine.Sweep()
	})
}
