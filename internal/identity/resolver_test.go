package identity

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/commitboard/internal/models"
)

type staticMaps map[string]map[string]string

func (s staticMaps) Get(ctx context.Context, guildID string) (map[string]string, error) {
	return s[guildID], nil
}

type staticBlacklists map[string][]string

func (s staticBlacklists) Get(ctx context.Context, guildID string) ([]string, error) {
	return s[guildID], nil
}

type fakeNames struct {
	mu      sync.Mutex
	names   map[string]string
	lookups []string
}

func (f *fakeNames) DisplayName(ctx context.Context, guildID, userID string) (string, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, userID)
	f.mu.Unlock()

	name, ok := f.names[userID]
	if !ok {
		return "", errors.New("unknown user")
	}
	return name, nil
}

func newTestResolver(maps staticMaps, blacklists staticBlacklists, names map[string]string) (*Resolver, *fakeNames) {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	fn := &fakeNames{names: names}
	return NewResolver(maps, blacklists, fn, 2, logger), fn
}

func TestConvertResolvesThenFiltersBlacklist(t *testing.T) {
	r, _ := newTestResolver(
		staticMaps{"g1": {"alice": "U123"}},
		staticBlacklists{"g1": {"bob"}},
		map[string]string{"U123": "Alice Liddell"},
	)

	for _, rows := range [][]models.AuthorAggregate{
		{{Author: "alice", Additions: 30, Deletions: 5, Total: 35}, {Author: "bob", Additions: 10, Deletions: 2, Total: 12}},
		{{Author: "bob", Additions: 10, Deletions: 2, Total: 12}, {Author: "alice", Additions: 30, Deletions: 5, Total: 35}},
	} {
		out, err := r.Convert(context.Background(), "g1", rows)
		require.NoError(t, err)
		assert.Equal(t, []models.AuthorAggregate{{Author: "Alice Liddell", Additions: 30, Deletions: 5, Total: 35}}, out)
	}
}

func TestConvertBlacklistMatchesResolvedName(t *testing.T) {
	r, _ := newTestResolver(
		staticMaps{"g1": {"carol@x.io": "U9"}},
		staticBlacklists{"g1": {"Carol", "carol@x.io"}},
		map[string]string{"U9": "Carol"},
	)

	out, err := r.Convert(context.Background(), "g1", []models.AuthorAggregate{
		{Author: "carol@x.io", Additions: 1, Total: 1},
		{Author: "dave", Additions: 2, Total: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.AuthorAggregate{{Author: "dave", Additions: 2, Total: 2}}, out)
}

func TestConvertMergesKeysForOnePerson(t *testing.T) {
	r, _ := newTestResolver(
		staticMaps{"g1": {"alice": "U1", "alice@work.io": "U1", "ghost": "U404"}},
		nil,
		map[string]string{"U1": "Alice"},
	)

	out, err := r.Convert(context.Background(), "g1", []models.AuthorAggregate{
		{Author: "alice", Additions: 10, Deletions: 1, Total: 11, Commits: 2},
		{Author: "ghost", Additions: 50, Total: 50, Commits: 1},
		{Author: "alice@work.io", Additions: 5, Deletions: 4, Total: 9, Commits: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, []models.AuthorAggregate{
		{Author: "U404", Additions: 50, Total: 50, Commits: 1},
		{Author: "Alice", Additions: 15, Deletions: 5, Total: 20, Commits: 3},
	}, out)
}

func TestConvertWithoutMapSkipsLookups(t *testing.T) {
	r, names := newTestResolver(nil, nil, nil)

	out, err := r.Convert(context.Background(), "g1", []models.AuthorAggregate{{Author: "erin", Total: 1}})
	require.NoError(t, err)
	assert.Equal(t, "erin", out[0].Author)
	assert.Empty(t, names.lookups)
}

func TestMergeByDisplayNameOrderIndependent(t *testing.T) {
	rows := []models.AuthorAggregate{
		{Author: "a", Additions: 1, Total: 1},
		{Author: "b", Additions: 2, Deletions: 2, Total: 4},
		{Author: "a", Additions: 3, Deletions: 1, Total: 4},
		{Author: "c", Additions: 5, Total: 5},
	}
	reversed := []models.AuthorAggregate{rows[3], rows[2], rows[1], rows[0]}

	want := MergeByDisplayName(rows)
	assert.Equal(t, want, MergeByDisplayName(reversed))
	assert.Equal(t, want, MergeByDisplayName(append(MergeByDisplayName(rows[:2]), rows[2:]...)))
	require.Len(t, want, 3)
	assert.Equal(t, models.AuthorAggregate{Author: "c", Additions: 5, Total: 5}, want[0])
	assert.Equal(t, models.AuthorAggregate{Author: "a", Additions: 4, Deletions: 1, Total: 5}, want[1])
}

func TestResolveNames(t *testing.T) {
	r, _ := newTestResolver(
		staticMaps{"g1": {"alice": "U1", "al": "U1"}},
		staticBlacklists{"g1": {"mallory"}},
		map[string]string{"U1": "Alice"},
	)

	names, err := r.ResolveNames(context.Background(), "g1", []string{"al", "bob", "mallory", "alice"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "bob"}, names)
}
