package automod

import (
	"fmt"
	"strings"
	"time"

	"automod-bot/model"

	"github.com/bwmarrin/discordgo"
)

// Tier is the punishment level selected from a user's cumulative count.
type Tier int

const (
	TierNone Tier = iota
	TierWarn
	TierMute
	TierKick
	TierBan
)

func (t Tier) String() string {
	switch t {
	case TierWarn:
		return "warn"
	case TierMute:
		return "mute"
	case TierKick:
		return "kick"
	case TierBan:
		return "ban"
	default:
		return "none"
	}
}

// escalate handles everything after detection for one offending message:
// delete it, bump the author's count by exactly one, pick the punishment
// tier, execute it, then log and record the outcome.
func (e *Engine) escalate(ev model.MessageEvent, violations []model.Violation, cfg *model.AutomodConfig) {
	if err := e.actuator.DeleteMessage(ev.ChannelID, ev.MessageID); err != nil {
		logger.WithError(err).WithField("message", ev.MessageID).Warn("Failed deleting offending message")
	}

	key := userKey{GuildID: ev.GuildID, UserID: ev.AuthorID}
	count := e.bumpViolations(key)
	tier := selectTier(count, cfg)

	reason := violationSummary(violations)
	e.execute(tier, ev, reason, cfg)

	if cfg.ResetOnAction && tier >= TierKick {
		e.resetViolations(key)
	}

	e.postViolationLog(ev, violations, tier, count, cfg)
	e.recordPunishment(model.PunishmentRecord{
		MessageID:    ev.MessageID,
		UserID:       ev.AuthorID,
		UserUsername: ev.AuthorUsername,
		GuildID:      ev.GuildID,
		ActionType:   tier.String(),
		Reason:       reason,
		Violations:   violationTypes(violations),
		Timestamp:    e.now().Unix(),
	})
}

// bumpViolations increments the user's count by one, however many violation
// entries the message produced, and stamps the violation time.
func (e *Engine) bumpViolations(key userKey) int {
	now := e.now()

	e.countsMu.Lock()
	defer e.countsMu.Unlock()

	st := e.counts[key]
	if st == nil {
		st = &violationState{}
		e.counts[key] = st
	}
	st.count++
	st.lastViolation = now
	return st.count
}

func (e *Engine) resetViolations(key userKey) {
	e.countsMu.Lock()
	delete(e.counts, key)
	e.countsMu.Unlock()
}

// selectTier picks the highest tier whose threshold is met or exceeded.
// Zero thresholds disable their tier.
func selectTier(count int, cfg *model.AutomodConfig) Tier {
	tier := TierNone
	if cfg.WarnThreshold > 0 && count >= cfg.WarnThreshold {
		tier = TierWarn
	}
	if cfg.MuteThreshold > 0 && count >= cfg.MuteThreshold {
		tier = TierMute
	}
	if cfg.KickThreshold > 0 && count >= cfg.KickThreshold {
		tier = TierKick
	}
	if cfg.BanThreshold > 0 && count >= cfg.BanThreshold {
		tier = TierBan
	}
	return tier
}

func violationSummary(violations []model.Violation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, fmt.Sprintf("%s (%s)", v.Type, v.Severity))
	}
	return "Automod: " + strings.Join(parts, ", ")
}

func violationTypes(violations []model.Violation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, string(v.Type))
	}
	return strings.Join(parts, ",")
}

func (e *Engine) recordPunishment(record model.PunishmentRecord) {
	if e.Records == nil {
		return
	}
	if err := e.Records.AddRecord(record); err != nil {
		logger.WithError(err).Warn("Failed recording punishment")
	}
}

func (e *Engine) postViolationLog(ev model.MessageEvent, violations []model.Violation, tier Tier, count int, cfg *model.AutomodConfig) {
	if cfg.LogChannelID == "" {
		return
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(violations)+2)
	for _, v := range violations {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%s)", v.Type, v.Severity),
			Value:  v.Details,
			Inline: false,
		})
	}
	fields = append(fields,
		&discordgo.MessageEmbedField{Name: "Action", Value: tier.String(), Inline: true},
		&discordgo.MessageEmbedField{Name: "Total violations", Value: fmt.Sprintf("%d", count), Inline: true},
	)

	embed := &discordgo.MessageEmbed{
		Title:       "Automod violation",
		Description: fmt.Sprintf("<@%s> in <#%s>", ev.AuthorID, ev.ChannelID),
		Color:       0xED4245,
		Fields:      fields,
		Timestamp:   e.now().Format(time.RFC3339),
	}
	if err := e.actuator.PostLogMessage(cfg.LogChannelID, embed); err != nil {
		logger.WithError(err).WithField("channel", cfg.LogChannelID).Warn("Failed posting violation log")
	}
}
