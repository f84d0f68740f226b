package db

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/commitboard/internal/config"
	"github.com/Kamar-Folarin/commitboard/internal/models"
)

// ScheduleStore persists daily report schedules
type ScheduleStore struct {
	docs     DocumentStore
	defaults *config.ScheduleConfig
	logger   *logrus.Logger
	mu       sync.Mutex
}

// NewScheduleStore creates a schedule store seeded with defaults
func NewScheduleStore(docs DocumentStore, defaults *config.ScheduleConfig, logger *logrus.Logger) *ScheduleStore {
	if defaults == nil {
		defaults = config.DefaultScheduleConfig()
	}
	return &ScheduleStore{docs: docs, defaults: defaults, logger: logger}
}

// Default returns the schedule a guild starts with
func (s *ScheduleStore) Default() models.GuildScheduleConfig {
	return models.GuildScheduleConfig{
		Enabled:  false,
		Time:     s.defaults.DefaultTime,
		TimeZone: s.defaults.DefaultTimeZone,
	}
}

// Get returns the guild's schedule, creating the default on first access
func (s *ScheduleStore) Get(ctx context.Context, guildID string) (models.GuildScheduleConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx, guildID)
}

func (s *ScheduleStore) get(ctx context.Context, guildID string) (models.GuildScheduleConfig, error) {
	var cfg models.GuildScheduleConfig
	err := loadOrCreate(ctx, s.docs, s.logger, KindSchedule, guildID, &cfg, func() {
		cfg = s.Default()
	})
	return cfg, err
}

// Update applies patch and returns the stored result
func (s *ScheduleStore) Update(ctx context.Context, guildID string, patch models.SchedulePatch) (models.GuildScheduleConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.get(ctx, guildID)
	if err != nil {
		return cfg, err
	}

	if patch.Time != nil {
		cfg.Time = *patch.Time
	}
	if patch.TimeZone != nil {
		cfg.TimeZone = *patch.TimeZone
	}
	if patch.ChannelID != nil {
		cfg.ChannelID = *patch.ChannelID
	}
	if patch.Enabled != nil {
		cfg.Enabled = *patch.Enabled
	}

	if err := s.docs.Save(ctx, KindSchedule, guildID, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ListGuilds returns every guild with a stored schedule
func (s *ScheduleStore) ListGuilds(ctx context.Context) ([]string, error) {
	return s.docs.ListGuilds(ctx, KindSchedule)
}
