// Package db persists guild-scoped documents such as schedules, identity
// maps, blacklists and code host setup.
package db

import (
	"context"
	"fmt"
	"regexp"

	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
)

// Kind names a family of guild documents
type Kind string

const (
	KindSchedule  Kind = "schedule"
	KindAuthMap   Kind = "authMap"
	KindBlacklist Kind = "blacklist"
	KindGuildInfo Kind = "guildInfo"
)

var guildIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// DocumentStore reads and writes whole JSON documents keyed by kind and guild
type DocumentStore interface {
	// Load decodes the document into dst. It reports false, without error,
	// when the document does not exist or cannot be decoded.
	Load(ctx context.Context, kind Kind, guildID string, dst interface{}) (bool, error)
	Save(ctx context.Context, kind Kind, guildID string, doc interface{}) error
	Delete(ctx context.Context, kind Kind, guildID string) error
	ListGuilds(ctx context.Context, kind Kind) ([]string, error)
	Close() error
}

// ValidateGuildID rejects ids that cannot be used as document keys
func ValidateGuildID(guildID string) error {
	if !guildIDPattern.MatchString(guildID) {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid guild id %q.", guildID), nil)
	}
	return nil
}
