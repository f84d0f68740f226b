package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/commitboard/internal/models"
)

func TestDedupeBySHA(t *testing.T) {
	ids := []models.CommitIdentity{
		{SHA: "c", AuthorKey: "first-c"},
		{SHA: "a", AuthorKey: "first-a"},
		{SHA: "c", AuthorKey: "second-c"},
		{SHA: "b", AuthorKey: "first-b"},
		{SHA: "a", AuthorKey: "second-a"},
	}

	out := DedupeBySHA(ids)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{out[0].SHA, out[1].SHA, out[2].SHA})
	assert.Equal(t, "first-c", out[0].AuthorKey)
	assert.Equal(t, "first-a", out[1].AuthorKey)
	assert.Empty(t, DedupeBySHA(nil))
}

func TestCollectorListCommits(t *testing.T) {
	src := newFakeSource()
	src.addCommit("api", "main", "c1", "alice", 10, 1)
	src.addCommit("api", "main", "c2", "bob", 5, 0)
	src.addCommit("api", "main", "c1", "alice", 10, 1)
	src.addCommit("api", "main", "c3", "carol", 7, 7)
	src.failStat["c2"] = true

	c := NewCollector(src, quietLogger())
	out, err := c.ListCommits(context.Background(), "acme", "api", "main", models.TimeWindow{}, Options{Concurrency: 2})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "c1", out[0].SHA)
	assert.Equal(t, 11, out[0].Total)
	assert.Equal(t, "c3", out[1].SHA)
	assert.Equal(t, 1, src.statCalls["c1"])
}

func TestCollectorIgnoreMerges(t *testing.T) {
	src := newFakeSource()
	src.addCommit("api", "main", "c1", "alice", 10, 0)
	src.addCommit("api", "main", "m1", "alice", 100, 100)
	src.commits["api@main"][1].stat.IsMerge = true

	c := NewCollector(src, quietLogger())

	out, err := c.ListCommits(context.Background(), "acme", "api", "main", models.TimeWindow{}, Options{IgnoreMerges: true})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "c1", out[0].SHA)

	out, err = c.ListCommits(context.Background(), "acme", "api", "main", models.TimeWindow{}, Options{})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestCollectorListFailurePropagates(t *testing.T) {
	src := newFakeSource()
	src.failBranch["api@main"] = true

	_, err := NewCollector(src, quietLogger()).ListCommits(context.Background(), "acme", "api", "main", models.TimeWindow{}, Options{})
	assert.ErrorIs(t, err, errUpstream)
}
