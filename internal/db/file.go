package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
)

const documentExt = ".json"

// FileStore keeps one JSON file per guild under <root>/config/<kind>/
type FileStore struct {
	root   string
	logger *logrus.Logger
}

// NewFileStore creates a file store rooted at root
func NewFileStore(root string, logger *logrus.Logger) (*FileStore, error) {
	dir := filepath.Join(root, "config")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &FileStore{root: root, logger: logger}, nil
}

// Dir returns the directory holding documents of kind
func (s *FileStore) Dir(kind Kind) string {
	return filepath.Join(s.root, "config", string(kind))
}

func (s *FileStore) path(kind Kind, guildID string) string {
	return filepath.Join(s.Dir(kind), guildID+documentExt)
}

// Load reads a document. Undecodable files are moved aside so the caller
// can materialize a default in their place.
func (s *FileStore) Load(ctx context.Context, kind Kind, guildID string, dst interface{}) (bool, error) {
	if err := ValidateGuildID(guildID); err != nil {
		return false, err
	}

	path := s.path(kind, guildID)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewPersistenceError(fmt.Sprintf("Could not read %s document.", kind), err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		quarantine := fmt.Sprintf("%s.corrupt-%s", path, uuid.NewString())
		s.logger.WithFields(logrus.Fields{
			"kind":       kind,
			"guild":      guildID,
			"quarantine": quarantine,
		}).WithError(err).Warn("Moving aside unreadable document")
		if rerr := os.Rename(path, quarantine); rerr != nil {
			s.logger.WithError(rerr).Error("Failed to move aside unreadable document")
		}
		return false, nil
	}
	return true, nil
}

// Save writes doc atomically
func (s *FileStore) Save(ctx context.Context, kind Kind, guildID string, doc interface{}) error {
	if err := ValidateGuildID(guildID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("Could not encode %s document.", kind), err)
	}
	if err := WriteFileAtomic(s.path(kind, guildID), append(data, '\n')); err != nil {
		return apperrors.NewPersistenceError(fmt.Sprintf("Could not write %s document.", kind), err)
	}
	return nil
}

// Delete removes a document. Missing documents are not an error.
func (s *FileStore) Delete(ctx context.Context, kind Kind, guildID string) error {
	if err := ValidateGuildID(guildID); err != nil {
		return err
	}
	if err := os.Remove(s.path(kind, guildID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.NewPersistenceError(fmt.Sprintf("Could not delete %s document.", kind), err)
	}
	return nil
}

// ListGuilds returns the ids of every stored document of kind, sorted
func (s *FileStore) ListGuilds(ctx context.Context, kind Kind) ([]string, error) {
	entries, err := os.ReadDir(s.Dir(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError(fmt.Sprintf("Could not list %s documents.", kind), err)
	}

	var ids []string
	for _, e := range entries {
		if id, ok := GuildIDFromFile(e.Name()); ok && !e.IsDir() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Close is a no-op for files
func (s *FileStore) Close() error {
	return nil
}

// GuildIDFromFile maps a document file name back to its guild id. Temp and
// quarantined files do not map.
func GuildIDFromFile(name string) (string, bool) {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, documentExt) {
		return "", false
	}
	id := strings.TrimSuffix(name, documentExt)
	return id, guildIDPattern.MatchString(id)
}

// WriteFileAtomic writes data to a uniquely named temp file next to path and
// renames it over path, so readers never observe a partial document.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
