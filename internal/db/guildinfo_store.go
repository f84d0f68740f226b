package db

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/commitboard/internal/models"
)

// GuildInfoStore persists the code host setup of guilds
type GuildInfoStore struct {
	docs   DocumentStore
	logger *logrus.Logger
	mu     sync.Mutex
}

// NewGuildInfoStore creates a new guild info store
func NewGuildInfoStore(docs DocumentStore, logger *logrus.Logger) *GuildInfoStore {
	return &GuildInfoStore{docs: docs, logger: logger}
}

// DefaultGuildInfo is the setup a guild starts with
func DefaultGuildInfo() models.GuildInfo {
	return models.GuildInfo{Git: models.GitInfo{
		Platform:   models.PlatformGitHub,
		AuthMethod: models.AuthMethodApp,
	}}
}

// Get returns the guild's git setup
func (s *GuildInfoStore) Get(ctx context.Context, guildID string) (models.GitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.get(ctx, guildID)
	return info.Git, err
}

func (s *GuildInfoStore) get(ctx context.Context, guildID string) (models.GuildInfo, error) {
	var info models.GuildInfo
	err := loadOrCreate(ctx, s.docs, s.logger, KindGuildInfo, guildID, &info, func() {
		info = DefaultGuildInfo()
	})
	return info, err
}

// Update applies patch to the guild's git setup and returns the result
func (s *GuildInfoStore) Update(ctx context.Context, guildID string, patch models.GitInfoPatch) (models.GitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.get(ctx, guildID)
	if err != nil {
		return models.GitInfo{}, err
	}

	if patch.Platform != nil {
		info.Git.Platform = *patch.Platform
	}
	if patch.AuthMethod != nil {
		info.Git.AuthMethod = *patch.AuthMethod
	}
	if patch.Key != nil {
		info.Git.Key = *patch.Key
	}
	if patch.Org != nil {
		info.Git.Org = *patch.Org
	}

	if err := s.docs.Save(ctx, KindGuildInfo, guildID, info); err != nil {
		return models.GitInfo{}, err
	}
	s.logger.WithFields(logrus.Fields{"guild": guildID, "org": info.Git.Org}).Info("Updated guild info")
	return info.Git, nil
}
