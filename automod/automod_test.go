package automod

import (
	"fmt"
	"sync"
	"time"

	"automod-bot/model"

	"github.com/bwmarrin/discordgo"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type timeoutCall struct {
	UserID   string
	Duration time.Duration
}

type roleRemoval struct {
	UserID string
	RoleID string
}

type fakeActuator struct {
	mu sync.Mutex

	Deleted      []string
	Timeouts     []timeoutCall
	Kicks        []string
	Bans         []string
	RemovedRoles []roleRemoval
	Verification []int
	Logs         []*discordgo.MessageEmbed
	DMs          []string

	FailDM bool
}

func (a *fakeActuator) DeleteMessage(channelID, messageID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Deleted = append(a.Deleted, messageID)
	return nil
}

func (a *fakeActuator) TimeoutMember(guildID, userID string, duration time.Duration, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Timeouts = append(a.Timeouts, timeoutCall{UserID: userID, Duration: duration})
	return nil
}

func (a *fakeActuator) KickMember(guildID, userID, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Kicks = append(a.Kicks, userID)
	return nil
}

func (a *fakeActuator) BanMember(guildID, userID, reason string, deleteMessageDays int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Bans = append(a.Bans, userID)
	return nil
}

func (a *fakeActuator) RemoveRole(guildID, userID, roleID, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.RemovedRoles = append(a.RemovedRoles, roleRemoval{UserID: userID, RoleID: roleID})
	return nil
}

func (a *fakeActuator) SetVerificationLevel(guildID string, level int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Verification = append(a.Verification, level)
	return nil
}

func (a *fakeActuator) PostLogMessage(channelID string, embed *discordgo.MessageEmbed) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Logs = append(a.Logs, embed)
	return nil
}

func (a *fakeActuator) SendDirectMessage(userID, content string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailDM {
		return fmt.Errorf("user has DMs disabled")
	}
	a.DMs = append(a.DMs, userID)
	return nil
}

type fakeConfigs struct {
	configs map[string]*model.AutomodConfig
}

func (f *fakeConfigs) GuildConfig(guildID string) (*model.AutomodConfig, error) {
	return f.configs[guildID], nil
}

type fakeAudit struct {
	mu        sync.Mutex
	executors map[model.AdminActionType]string
}

func (f *fakeAudit) set(action model.AdminActionType, executorID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.executors == nil {
		f.executors = make(map[model.AdminActionType]string)
	}
	f.executors[action] = executorID
}

func (f *fakeAudit) LatestExecutor(guildID string, action model.AdminActionType) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.executors[action]
	return id, ok
}

type fakeDirectory struct {
	roles  map[string][]Role
	botPos int
}

func (f *fakeDirectory) MemberRoles(guildID, userID string) ([]Role, error) {
	return f.roles[userID], nil
}

func (f *fakeDirectory) BotRolePosition(guildID string) (int, error) {
	return f.botPos, nil
}

const testGuild = "guild-1"

func testConfig() *model.AutomodConfig {
	return &model.AutomodConfig{
		Enabled:          true,
		SpamEnabled:      true,
		DuplicateEnabled: true,
		InviteEnabled:    true,
		LinkEnabled:      true,
		CapsEnabled:      true,
		EmojiEnabled:     true,
		MentionEnabled:   true,
		NSFWEnabled:      true,
		ZalgoEnabled:     true,
		RaidEnabled:      true,
		NukeEnabled:      true,

		WarnThreshold: 2,
		MuteThreshold: 4,
		KickThreshold: 6,
		BanThreshold:  8,

		MuteDurationSeconds: 600,
		RaidAction:          model.RaidActionAlert,
		NukeAction:          model.NukeActionRemovePerms,
		LogChannelID:        "log-channel",
	}
}

type testEnv struct {
	engine   *Engine
	actuator *fakeActuator
	audit    *fakeAudit
	dir      *fakeDirectory
	clock    *testClock
	cfg      *model.AutomodConfig
	configs  *fakeConfigs
}

func newTestEnv(cfg *model.AutomodConfig) *testEnv {
	actuator := &fakeActuator{}
	audit := &fakeAudit{}
	dir := &fakeDirectory{roles: make(map[string][]Role), botPos: 10}
	clock := newTestClock()
	configs := &fakeConfigs{configs: map[string]*model.AutomodConfig{testGuild: cfg}}

	engine := New(configs, actuator, audit, dir)
	engine.now = clock.Now

	return &testEnv{engine: engine, actuator: actuator, audit: audit, dir: dir, clock: clock, cfg: cfg, configs: configs}
}

func message(user, content string) model.MessageEvent {
	return model.MessageEvent{
		MessageID:      fmt.Sprintf("msg-%s-%d", user, time.Now().UnixNano()),
		GuildID:        testGuild,
		ChannelID:      "channel-1",
		AuthorID:       user,
		AuthorUsername: user,
		Content:        content,
	}
}

func hasViolation(violations []model.Violation, t model.ViolationType) bool {
	for _, v := range violations {
		if v.Type == t {
			return true
		}
	}
	return false
}
