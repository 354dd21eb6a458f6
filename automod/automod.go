package automod

import (
	"sync"
	"sync/atomic"
	"time"

	"automod-bot/model"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("module", "automod")

// Retention horizons and trigger thresholds for all windowed state.
const (
	spamWindow         = 10 * time.Second
	spamThreshold      = 5
	duplicateWindow    = 30 * time.Second
	duplicateThreshold = 3

	raidWindow    = 60 * time.Second
	raidThreshold = 10
	raidCooldown  = 5 * time.Minute
	newAccountAge = 24 * time.Hour

	nukeWindow    = 10 * time.Second
	nukeThreshold = 3

	sweepRetention = time.Hour
)

// ConfigProvider resolves the per-guild automod configuration. A nil config
// or a config with Enabled false turns the engine into a no-op for the guild.
type ConfigProvider interface {
	GuildConfig(guildID string) (*model.AutomodConfig, error)
}

// Actuator is the external guild surface the engine acts through. Every call
// is fire-and-forget from the engine's perspective: errors are logged by the
// caller and never retried.
type Actuator interface {
	DeleteMessage(channelID, messageID string) error
	TimeoutMember(guildID, userID string, duration time.Duration, reason string) error
	KickMember(guildID, userID, reason string) error
	BanMember(guildID, userID, reason string, deleteMessageDays int) error
	RemoveRole(guildID, userID, roleID, reason string) error
	SetVerificationLevel(guildID string, level int) error
	PostLogMessage(channelID string, embed *discordgo.MessageEmbed) error
	SendDirectMessage(userID, content string) error
}

// AuditLog attributes a destructive event to the member who performed it.
type AuditLog interface {
	LatestExecutor(guildID string, action model.AdminActionType) (executorID string, ok bool)
}

// Role carries the fields of a guild role the nuke response inspects.
type Role struct {
	ID          string
	Name        string
	Permissions int64
	Position    int
}

// GuildDirectory exposes the member/role lookups the nuke response needs.
type GuildDirectory interface {
	MemberRoles(guildID, userID string) ([]Role, error)
	BotRolePosition(guildID string) (int, error)
}

// RecordStore persists executed punishments. Optional; a nil store disables
// recording without affecting detection.
type RecordStore interface {
	AddRecord(record model.PunishmentRecord) error
}

type userKey struct {
	GuildID string
	UserID  string
}

type nukeKey struct {
	GuildID    string
	ExecutorID string
	Action     model.AdminActionType
}

type messageEntry struct {
	content   string
	ts        time.Time
	channelID string
}

type messageWindow struct {
	entries []messageEntry
}

type violationState struct {
	count         int
	lastViolation time.Time
}

type joinEntry struct {
	userID     string
	ts         time.Time
	accountAge time.Duration
}

type raidState struct {
	joins     []joinEntry
	lastAlert time.Time
}

// Engine is the moderation core. All windowed state is process-local and
// guarded per concern so message evaluation, raid/nuke detection and the
// sweeper can run under true parallelism.
type Engine struct {
	configs  ConfigProvider
	actuator Actuator
	audit    AuditLog
	guilds   GuildDirectory

	// Records is optional and may be left nil.
	Records RecordStore

	now func() time.Time

	messagesMu sync.Mutex
	messages   map[userKey]*messageWindow

	countsMu sync.Mutex
	counts   map[userKey]*violationState

	raidsMu sync.Mutex
	raids   map[string]*raidState

	nukesMu sync.Mutex
	nukes   map[nukeKey][]time.Time

	evaluated     atomic.Uint64
	flagged       atomic.Uint64
	actions       atomic.Uint64
	raidAlerts    atomic.Uint64
	nukeResponses atomic.Uint64
}

// New wires up an engine against its external collaborators.
func New(configs ConfigProvider, actuator Actuator, audit AuditLog, guilds GuildDirectory) *Engine {
	return &Engine{
		configs:  configs,
		actuator: actuator,
		audit:    audit,
		guilds:   guilds,
		now:      time.Now,
		messages: make(map[userKey]*messageWindow),
		counts:   make(map[userKey]*violationState),
		raids:    make(map[string]*raidState),
		nukes:    make(map[nukeKey][]time.Time),
	}
}

// HandleMessage runs the full content pipeline for one inbound message:
// whitelist check, detector evaluation, then escalation if anything fired.
func (e *Engine) HandleMessage(ev model.MessageEvent) {
	cfg := e.guildConfig(ev.GuildID)
	if cfg == nil {
		return
	}
	if isWhitelisted(ev, cfg) {
		return
	}

	e.evaluated.Add(1)
	violations := e.evaluateMessage(ev, cfg)
	if len(violations) == 0 {
		return
	}

	e.flagged.Add(1)
	e.escalate(ev, violations, cfg)
}

func (e *Engine) guildConfig(guildID string) *model.AutomodConfig {
	if guildID == "" {
		return nil
	}
	cfg, err := e.configs.GuildConfig(guildID)
	if err != nil {
		logger.WithError(err).WithField("guild", guildID).Error("Failed retrieving guild config")
		return nil
	}
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	return cfg
}

// isWhitelisted is checked once per message, before any detector runs.
// Administrators, whitelisted roles and whitelisted channels are exempt.
func isWhitelisted(ev model.MessageEvent, cfg *model.AutomodConfig) bool {
	if ev.AuthorIsAdmin {
		return true
	}
	for _, c := range cfg.Whitelist.Channels {
		if c == ev.ChannelID {
			return true
		}
	}
	for _, r := range ev.AuthorRoleIDs {
		for _, w := range cfg.Whitelist.Roles {
			if r == w {
				return true
			}
		}
	}
	return false
}

// Stats is a snapshot of engine counters for the status command.
type Stats struct {
	MessagesEvaluated uint64
	MessagesFlagged   uint64
	ActionsExecuted   uint64
	RaidAlerts        uint64
	NukeResponses     uint64
	TrackedUsers      int
	TrackedGuilds     int
}

// Snapshot returns current engine counters and tracked-state sizes.
func (e *Engine) Snapshot() Stats {
	e.messagesMu.Lock()
	users := len(e.messages)
	e.messagesMu.Unlock()
	e.raidsMu.Lock()
	guilds := len(e.raids)
	e.raidsMu.Unlock()

	return Stats{
		MessagesEvaluated: e.evaluated.Load(),
		MessagesFlagged:   e.flagged.Load(),
		ActionsExecuted:   e.actions.Load(),
		RaidAlerts:        e.raidAlerts.Load(),
		NukeResponses:     e.nukeResponses.Load(),
		TrackedUsers:      users,
		TrackedGuilds:     guilds,
	}
}
