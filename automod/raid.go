package automod

import (
	"fmt"
	"time"

	"automod-bot/model"

	"github.com/bwmarrin/discordgo"
)

// verificationLevelHighest maps to the strictest gateway verification level.
const verificationLevelHighest = 4

// HandleMemberJoin feeds one join into the guild's raid window and fires the
// configured raid response when the window crosses the threshold. The 300s
// alert cooldown is the only debounce; the join window itself is never reset.
func (e *Engine) HandleMemberJoin(ev model.MemberJoinEvent) {
	cfg := e.guildConfig(ev.GuildID)
	if cfg == nil || !cfg.RaidEnabled {
		return
	}

	now := e.now()
	accountAge := now.Sub(ev.AccountCreatedAt)

	e.raidsMu.Lock()
	st := e.raids[ev.GuildID]
	if st == nil {
		st = &raidState{}
		e.raids[ev.GuildID] = st
	}

	st.joins = append(st.joins, joinEntry{userID: ev.UserID, ts: now, accountAge: accountAge})
	cut := 0
	for cut < len(st.joins) && now.Sub(st.joins[cut].ts) > raidWindow {
		cut++
	}
	if cut > 0 {
		st.joins = append(st.joins[:0], st.joins[cut:]...)
	}

	triggered := len(st.joins) >= raidThreshold && now.Sub(st.lastAlert) > raidCooldown
	var windowed []joinEntry
	if triggered {
		st.lastAlert = now
		windowed = append(windowed, st.joins...)
	}
	e.raidsMu.Unlock()

	if !triggered {
		return
	}

	e.raidAlerts.Add(1)
	e.respondToRaid(ev.GuildID, windowed, cfg)
}

func (e *Engine) respondToRaid(guildID string, joins []joinEntry, cfg *model.AutomodConfig) {
	logger.WithField("guild", guildID).WithField("joins", len(joins)).Warn("Raid detected")

	kicked := 0
	switch cfg.RaidAction {
	case model.RaidActionLockdown:
		if err := e.actuator.SetVerificationLevel(guildID, verificationLevelHighest); err != nil {
			logger.WithError(err).WithField("guild", guildID).Error("Failed raising verification level")
		}
	case model.RaidActionKickNew:
		for _, j := range joins {
			if j.accountAge >= newAccountAge {
				continue
			}
			if err := e.actuator.KickMember(guildID, j.userID, "Automod: raid response, new account"); err != nil {
				logger.WithError(err).WithField("user", j.userID).Warn("Failed kicking raid joiner")
				continue
			}
			kicked++
		}
	}

	if cfg.LogChannelID != "" {
		desc := fmt.Sprintf("%d members joined within %s.", len(joins), raidWindow)
		switch cfg.RaidAction {
		case model.RaidActionLockdown:
			desc += " Verification level raised to maximum."
		case model.RaidActionKickNew:
			desc += fmt.Sprintf(" Kicked %d accounts younger than 24h.", kicked)
		}
		embed := &discordgo.MessageEmbed{
			Title:       "Raid alert",
			Description: desc,
			Color:       0xFEE75C,
			Timestamp:   e.now().Format(time.RFC3339),
		}
		if err := e.actuator.PostLogMessage(cfg.LogChannelID, embed); err != nil {
			logger.WithError(err).WithField("channel", cfg.LogChannelID).Warn("Failed posting raid alert")
		}
	}
}
