package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"automod-bot/model"

	"github.com/fsnotify/fsnotify"
	"github.com/karlseguin/ccache/v2"
	"github.com/spf13/viper"
)

// FileProvider serves per-guild automod configs from a viper-managed YAML
// file keyed by guild ID. The file is re-parsed on change.
type FileProvider struct {
	v *viper.Viper

	mu     sync.RWMutex
	guilds map[string]*model.AutomodConfig
}

// NewFileProvider parses the config file and starts watching it. A missing
// file is not an error; it means automod is off everywhere until configured.
func NewFileProvider(path string) (*FileProvider, error) {
	p := &FileProvider{
		v:      viper.New(),
		guilds: make(map[string]*model.AutomodConfig),
	}
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warnf("Automod config file not found at %s", path)
			return p, nil
		}
		return nil, fmt.Errorf("failed to read automod config %s: %w", path, err)
	}
	if err := p.reload(); err != nil {
		return nil, err
	}

	p.v.OnConfigChange(func(fsnotify.Event) {
		if err := p.reload(); err != nil {
			logger.WithError(err).Error("Failed reloading automod config")
		}
	})
	p.v.WatchConfig()

	return p, nil
}

func (p *FileProvider) reload() error {
	var raw struct {
		Guilds map[string]*model.AutomodConfig `mapstructure:"guilds"`
	}
	if err := p.v.Unmarshal(&raw); err != nil {
		return fmt.Errorf("failed to parse automod config: %w", err)
	}
	for _, cfg := range raw.Guilds {
		applyDefaults(cfg)
	}

	p.mu.Lock()
	p.guilds = raw.Guilds
	p.mu.Unlock()
	logger.WithField("guilds", len(raw.Guilds)).Info("Automod config loaded")
	return nil
}

// GuildConfig returns the config for a guild, or nil when the guild has none.
func (p *FileProvider) GuildConfig(guildID string) (*model.AutomodConfig, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.guilds[guildID], nil
}

func applyDefaults(cfg *model.AutomodConfig) {
	if cfg == nil {
		return
	}
	if cfg.WarnThreshold == 0 {
		cfg.WarnThreshold = 2
	}
	if cfg.MuteThreshold == 0 {
		cfg.MuteThreshold = 4
	}
	if cfg.KickThreshold == 0 {
		cfg.KickThreshold = 6
	}
	if cfg.BanThreshold == 0 {
		cfg.BanThreshold = 8
	}
	if cfg.MuteDurationSeconds == 0 {
		cfg.MuteDurationSeconds = 600
	}
	if cfg.RaidAction == "" {
		cfg.RaidAction = model.RaidActionAlert
	}
	if cfg.NukeAction == "" {
		cfg.NukeAction = model.NukeActionAlert
	}
}

const (
	cacheTTL     = 5 * time.Minute
	cacheMaxSize = 1000
)

// CachedProvider caches guild configs because they are read on every event.
type CachedProvider struct {
	inner cache
	cc    *ccache.Cache
}

type cache interface {
	GuildConfig(guildID string) (*model.AutomodConfig, error)
}

// NewCachedProvider wraps a provider with a small TTL cache.
func NewCachedProvider(inner cache) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cc:    ccache.New(ccache.Configure().MaxSize(cacheMaxSize)),
	}
}

func (c *CachedProvider) GuildConfig(guildID string) (*model.AutomodConfig, error) {
	item, err := c.cc.Fetch(guildID, cacheTTL, func() (interface{}, error) {
		return c.inner.GuildConfig(guildID)
	})
	if err != nil {
		return nil, err
	}
	cfg, _ := item.Value().(*model.AutomodConfig)
	return cfg, nil
}

// Invalidate drops one guild from the cache, used after config edits.
func (c *CachedProvider) Invalidate(guildID string) {
	c.cc.Delete(guildID)
}
