package automod

import (
	"fmt"
	"time"

	"automod-bot/model"

	"github.com/sirupsen/logrus"
)

// banDeleteDays is the bulk message-delete window applied on bans.
const banDeleteDays = 1

// execute translates an escalation tier into actuator calls. Failures are
// logged and swallowed so one broken call never blocks the next event.
func (e *Engine) execute(tier Tier, ev model.MessageEvent, reason string, cfg *model.AutomodConfig) {
	if tier == TierNone {
		return
	}
	e.actions.Add(1)

	var err error
	switch tier {
	case TierWarn:
		// DMs can be disabled; a failed warn is not worth logging loudly.
		msg := fmt.Sprintf("You received a warning in this server.\n%s\nRepeated violations lead to a mute, kick or ban.", reason)
		if dmErr := e.actuator.SendDirectMessage(ev.AuthorID, msg); dmErr != nil {
			logger.WithError(dmErr).WithField("user", ev.AuthorID).Debug("Failed sending warn DM")
		}
	case TierMute:
		duration := time.Duration(cfg.MuteDurationSeconds) * time.Second
		err = e.actuator.TimeoutMember(ev.GuildID, ev.AuthorID, duration, reason)
	case TierKick:
		err = e.actuator.KickMember(ev.GuildID, ev.AuthorID, reason)
	case TierBan:
		err = e.actuator.BanMember(ev.GuildID, ev.AuthorID, reason, banDeleteDays)
	}

	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"guild":  ev.GuildID,
			"user":   ev.AuthorID,
			"action": tier.String(),
		}).Error("Failed executing punishment")
	}
}
