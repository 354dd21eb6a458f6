package bot

import (
	"sync"
	"time"

	"automod-bot/automod"
	"automod-bot/model"
	"automod-bot/tasks"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

const (
	sweepInterval = time.Minute
	statsInterval = time.Hour
)

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	GetConfig() *model.Config
	GetDB() *sqlx.DB
	GetSession() *discordgo.Session
	GetEngine() *automod.Engine
}

// Scheduler runs the expiry sweeper and the punishment stats updater on
// fixed periods, independent of event traffic.
type Scheduler struct {
	bot  BotProvider
	done chan struct{}
	wg   sync.WaitGroup

	sweepTicker *time.Ticker
	statsTicker *time.Ticker
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot BotProvider) *Scheduler {
	return &Scheduler{
		bot:  bot,
		done: make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop terminates all scheduled tasks gracefully.
func (s *Scheduler) Stop() {
	logger.Info("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	logger.Info("Scheduler stopped.")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	s.sweepTicker = time.NewTicker(sweepInterval)
	s.statsTicker = time.NewTicker(statsInterval)
	defer s.sweepTicker.Stop()
	defer s.statsTicker.Stop()

	for {
		select {
		case <-s.sweepTicker.C:
			s.bot.GetEngine().Sweep()
		case <-s.statsTicker.C:
			s.updatePunishmentStats()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) updatePunishmentStats() {
	cfg := s.bot.GetConfig()
	if len(cfg.StatsChannels) == 0 {
		return
	}
	for _, channelConfig := range cfg.StatsChannels {
		go tasks.UpdatePunishmentStats(s.bot.GetSession(), s.bot.GetDB(), channelConfig, statsInterval)
	}
}
