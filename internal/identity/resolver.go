// Package identity turns raw commit author keys into guild display names.
package identity

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Kamar-Folarin/commitboard/internal/models"
)

// DefaultConcurrency bounds parallel display name lookups
const DefaultConcurrency = 8

// MapReader reads a guild's author key to platform user id map
type MapReader interface {
	Get(ctx context.Context, guildID string) (map[string]string, error)
}

// BlacklistReader reads a guild's blacklisted display names
type BlacklistReader interface {
	Get(ctx context.Context, guildID string) ([]string, error)
}

// DisplayNameResolver looks up the name a platform user goes by in a guild
type DisplayNameResolver interface {
	DisplayName(ctx context.Context, guildID, userID string) (string, error)
}

// Resolver maps, merges and filters author rows for a guild
type Resolver struct {
	maps        MapReader
	blacklists  BlacklistReader
	names       DisplayNameResolver
	concurrency int
	logger      *logrus.Logger
}

// NewResolver creates a new identity resolver
func NewResolver(maps MapReader, blacklists BlacklistReader, names DisplayNameResolver, concurrency int, logger *logrus.Logger) *Resolver {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Resolver{
		maps:        maps,
		blacklists:  blacklists,
		names:       names,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ResolveAuthor returns the display name for key. Unmapped keys come back
// unchanged; a mapped id that cannot be looked up comes back as the id.
func (r *Resolver) ResolveAuthor(ctx context.Context, guildID, key string, idMap map[string]string) string {
	userID, ok := idMap[key]
	if !ok || userID == "" {
		return key
	}

	name, err := r.names.DisplayName(ctx, guildID, userID)
	if err != nil || name == "" {
		r.logger.WithFields(logrus.Fields{
			"guild":   guildID,
			"author":  key,
			"user_id": userID,
		}).WithError(err).Debug("Falling back to mapped user id")
		return userID
	}
	return name
}

// MergeByDisplayName sums rows that share an author name. The result is
// sorted and does not depend on input order.
func MergeByDisplayName(rows []models.AuthorAggregate) []models.AuthorAggregate {
	index := make(map[string]int, len(rows))
	var out []models.AuthorAggregate
	for _, row := range rows {
		i, ok := index[row.Author]
		if !ok {
			i = len(out)
			index[row.Author] = i
			out = append(out, models.AuthorAggregate{Author: row.Author})
		}
		out[i].Add(row)
	}
	models.SortAggregates(out)
	return out
}

// FilterBlacklisted drops rows whose author is on the blacklist
func FilterBlacklisted(rows []models.AuthorAggregate, blacklist []string) []models.AuthorAggregate {
	if len(blacklist) == 0 {
		return rows
	}
	blocked := toSet(blacklist)

	out := make([]models.AuthorAggregate, 0, len(rows))
	for _, row := range rows {
		if _, ok := blocked[row.Author]; ok {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Convert resolves every row's author, merges rows that land on the same
// display name and then removes blacklisted names. The blacklist is matched
// against resolved names, never raw keys.
func (r *Resolver) Convert(ctx context.Context, guildID string, rows []models.AuthorAggregate) ([]models.AuthorAggregate, error) {
	if len(rows) == 0 {
		return rows, nil
	}

	idMap, err := r.maps.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	blacklist, err := r.blacklists.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(rows))
	for i, row := range rows {
		keys[i] = row.Author
	}
	names := r.resolveAll(ctx, guildID, keys, idMap)

	resolved := make([]models.AuthorAggregate, len(rows))
	for i, row := range rows {
		row.Author = names[i]
		resolved[i] = row
	}

	out := FilterBlacklisted(MergeByDisplayName(resolved), blacklist)
	r.logger.WithFields(logrus.Fields{
		"guild":  guildID,
		"input":  len(rows),
		"output": len(out),
	}).Debug("Converted author rows")
	return out, nil
}

// ResolveNames resolves keys to display names, dropping duplicates and
// blacklisted names while keeping first-seen order.
func (r *Resolver) ResolveNames(ctx context.Context, guildID string, keys []string) ([]string, error) {
	idMap, err := r.maps.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	blacklist, err := r.blacklists.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	blocked := toSet(blacklist)

	names := r.resolveAll(ctx, guildID, keys, idMap)
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := blocked[name]; ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

// resolveAll looks up every key on a bounded pool. Lookups never fail, so
// the group only carries the concurrency limit.
func (r *Resolver) resolveAll(ctx context.Context, guildID string, keys []string, idMap map[string]string) []string {
	names := make([]string, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			names[i] = r.ResolveAuthor(gctx, guildID, key, idMap)
			return nil
		})
	}
	_ = g.Wait()
	return names
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
