package db

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// IdentityMapStore persists the author key to platform user id map
type IdentityMapStore struct {
	docs   DocumentStore
	logger *logrus.Logger
	mu     sync.Mutex
}

// NewIdentityMapStore creates a new identity map store
func NewIdentityMapStore(docs DocumentStore, logger *logrus.Logger) *IdentityMapStore {
	return &IdentityMapStore{docs: docs, logger: logger}
}

// Get returns the guild's identity map
func (s *IdentityMapStore) Get(ctx context.Context, guildID string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx, guildID)
}

func (s *IdentityMapStore) get(ctx context.Context, guildID string) (map[string]string, error) {
	var m map[string]string
	err := loadOrCreate(ctx, s.docs, s.logger, KindAuthMap, guildID, &m, func() {
		m = map[string]string{}
	})
	if m == nil {
		m = map[string]string{}
	}
	return m, err
}

// Add maps key to userID. It reports false when key is already mapped.
func (s *IdentityMapStore) Add(ctx context.Context, guildID, key, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.get(ctx, guildID)
	if err != nil {
		return false, err
	}
	if _, ok := m[key]; ok {
		return false, nil
	}

	m[key] = userID
	if err := s.docs.Save(ctx, KindAuthMap, guildID, m); err != nil {
		return false, err
	}
	s.logger.WithFields(logrus.Fields{"guild": guildID, "key": key}).Info("Added identity mapping")
	return true, nil
}

// Remove drops key. It reports false when key was not mapped.
func (s *IdentityMapStore) Remove(ctx context.Context, guildID, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.get(ctx, guildID)
	if err != nil {
		return false, err
	}
	if _, ok := m[key]; !ok {
		return false, nil
	}

	delete(m, key)
	if err := s.docs.Save(ctx, KindAuthMap, guildID, m); err != nil {
		return false, err
	}
	s.logger.WithFields(logrus.Fields{"guild": guildID, "key": key}).Info("Removed identity mapping")
	return true, nil
}

// BlacklistStore persists display names hidden from leaderboards
type BlacklistStore struct {
	docs   DocumentStore
	logger *logrus.Logger
	mu     sync.Mutex
}

// NewBlacklistStore creates a new blacklist store
func NewBlacklistStore(docs DocumentStore, logger *logrus.Logger) *BlacklistStore {
	return &BlacklistStore{docs: docs, logger: logger}
}

// Get returns the guild's blacklist in insertion order
func (s *BlacklistStore) Get(ctx context.Context, guildID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx, guildID)
}

func (s *BlacklistStore) get(ctx context.Context, guildID string) ([]string, error) {
	var names []string
	err := loadOrCreate(ctx, s.docs, s.logger, KindBlacklist, guildID, &names, func() {
		names = []string{}
	})
	return names, err
}

// Add blacklists name. It reports false when name is already listed.
func (s *BlacklistStore) Add(ctx context.Context, guildID, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.get(ctx, guildID)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return false, nil
		}
	}

	names = append(names, name)
	if err := s.docs.Save(ctx, KindBlacklist, guildID, names); err != nil {
		return false, err
	}
	s.logger.WithFields(logrus.Fields{"guild": guildID, "name": name}).Info("Added blacklist entry")
	return true, nil
}

// Remove unlists name. It reports false when name was not listed.
func (s *BlacklistStore) Remove(ctx context.Context, guildID, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.get(ctx, guildID)
	if err != nil {
		return false, err
	}

	idx := -1
	for i, n := range names {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	names = append(names[:idx], names[idx+1:]...)
	if err := s.docs.Save(ctx, KindBlacklist, guildID, names); err != nil {
		return false, err
	}
	s.logger.WithFields(logrus.Fields{"guild": guildID, "name": name}).Info("Removed blacklist entry")
	return true, nil
}
