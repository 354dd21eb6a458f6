package handlers

import (
	"automod-bot/bot"
	"automod-bot/model"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("module", "handlers")

// Register attaches all gateway handlers to the session. Each handler
// normalizes the discordgo payload and hands it to the engine; the engine
// never sees raw gateway types.
func Register(b *bot.Bot) {
	s := b.Session

	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Infof("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})

	s.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		handleMessageCreate(s, m, b)
	})

	s.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		handleMemberJoin(m, b)
	})

	s.AddHandler(func(s *discordgo.Session, c *discordgo.ChannelDelete) {
		if c.GuildID == "" {
			return
		}
		b.Engine.HandleAdminAction(model.AdminActionEvent{
			GuildID:  c.GuildID,
			Action:   model.AdminActionChannelDelete,
			TargetID: c.ID,
		})
	})

	s.AddHandler(func(s *discordgo.Session, r *discordgo.GuildRoleDelete) {
		b.Engine.HandleAdminAction(model.AdminActionEvent{
			GuildID:  r.GuildID,
			Action:   model.AdminActionRoleDelete,
			TargetID: r.RoleID,
		})
	})

	s.AddHandler(func(s *discordgo.Session, gb *discordgo.GuildBanAdd) {
		b.Engine.HandleAdminAction(model.AdminActionEvent{
			GuildID:  gb.GuildID,
			Action:   model.AdminActionBan,
			TargetID: gb.User.ID,
		})
	})

	s.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		if m.User == nil || m.User.Bot {
			return
		}
		b.Engine.HandleAdminAction(model.AdminActionEvent{
			GuildID:  m.GuildID,
			Action:   model.AdminActionKick,
			TargetID: m.User.ID,
		})
	})

	s.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if i.ApplicationCommandData().Name == "automod-status" {
			AutomodStatusHandler(s, i, b)
		}
	})
}

// handleMessageCreate feeds human-authored guild messages into the engine.
func handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, b *bot.Bot) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	ev := model.MessageEvent{
		MessageID:      m.ID,
		GuildID:        m.GuildID,
		ChannelID:      m.ChannelID,
		AuthorID:       m.Author.ID,
		AuthorUsername: m.Author.Username,
		Content:        m.Content,

		MentionRoleIDs:   m.MentionRoles,
		MentionsEveryone: m.MentionEveryone,
	}
	for _, u := range m.Mentions {
		ev.MentionUserIDs = append(ev.MentionUserIDs, u.ID)
	}
	if m.Member != nil {
		ev.AuthorRoleIDs = m.Member.Roles
	}

	// Permission resolution is best-effort; an unresolvable member is
	// simply not treated as an administrator.
	if perms, err := s.State.MessagePermissions(m.Message); err == nil {
		ev.AuthorIsAdmin = perms&discordgo.PermissionAdministrator != 0
	}

	b.Engine.HandleMessage(ev)
}

func handleMemberJoin(m *discordgo.GuildMemberAdd, b *bot.Bot) {
	if m.User == nil || m.User.Bot {
		return
	}

	created, err := discordgo.SnowflakeTimestamp(m.User.ID)
	if err != nil {
		logger.WithError(err).WithField("user", m.User.ID).Warn("Failed parsing account creation time")
		return
	}

	b.Engine.HandleMemberJoin(model.MemberJoinEvent{
		GuildID:          m.GuildID,
		UserID:           m.User.ID,
		AccountCreatedAt: created,
	})
}
