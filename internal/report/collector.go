package report

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/commitboard/internal/batch"
	"github.com/Kamar-Folarin/commitboard/internal/config"
	"github.com/Kamar-Folarin/commitboard/internal/metrics"
	"github.com/Kamar-Folarin/commitboard/internal/models"
)

// Collector lists the commits of a branch and enriches them with stats
type Collector struct {
	source Source
	logger *logrus.Logger
}

// NewCollector creates a new commit collector
func NewCollector(source Source, logger *logrus.Logger) *Collector {
	return &Collector{source: source, logger: logger}
}

// DedupeBySHA keeps the first occurrence of every SHA, preserving order.
func DedupeBySHA(ids []models.CommitIdentity) []models.CommitIdentity {
	return dedupe(ids, make(map[string]struct{}, len(ids)))
}

// dedupe drops identities already present in seen and records the rest.
func dedupe(ids []models.CommitIdentity, seen map[string]struct{}) []models.CommitIdentity {
	out := make([]models.CommitIdentity, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id.SHA]; ok {
			continue
		}
		seen[id.SHA] = struct{}{}
		out = append(out, id)
	}
	return out
}

// EnrichWithStats fetches stats for every identity on a bounded pool.
// Commits whose stats cannot be fetched are logged and left out, as are
// merge commits when opts.IgnoreMerges is set. Output keeps input order.
func (c *Collector) EnrichWithStats(ctx context.Context, org, repo string, ids []models.CommitIdentity, opts Options) []models.CommitSummary {
	if len(ids) == 0 {
		return nil
	}

	stats := make([]*models.CommitStat, len(ids))
	processor := batch.NewProcessor(&config.BatchConfig{Workers: opts.concurrency()})
	progress := processor.ProcessItems(ctx, len(ids), func(ctx context.Context, i int) error {
		stat, err := c.source.GetCommitStat(ctx, org, repo, ids[i].SHA)
		if err != nil {
			metrics.UpstreamFailuresTotal.WithLabelValues(metrics.StageCommitStats).Inc()
			c.logger.WithFields(logrus.Fields{
				"org":  org,
				"repo": repo,
				"sha":  ids[i].SHA,
			}).WithError(err).Warn("Skipping commit whose stats could not be fetched")
			return err
		}
		stats[i] = stat
		return nil
	})
	metrics.CommitsEnrichedTotal.Add(float64(progress.Processed))

	out := make([]models.CommitSummary, 0, len(ids))
	for i, stat := range stats {
		if stat == nil {
			continue
		}
		if opts.IgnoreMerges && stat.IsMerge {
			continue
		}
		out = append(out, models.NewCommitSummary(ids[i], stat))
	}
	return out
}

// ListCommits returns the enriched, deduplicated commits of one branch
// inside window. A failure to list the branch's commits is returned.
func (c *Collector) ListCommits(ctx context.Context, org, repo, branch string, window models.TimeWindow, opts Options) ([]models.CommitSummary, error) {
	return c.collectBranch(ctx, org, repo, branch, window, opts, make(map[string]struct{}))
}

func (c *Collector) collectBranch(ctx context.Context, org, repo, branch string, window models.TimeWindow, opts Options, seen map[string]struct{}) ([]models.CommitSummary, error) {
	ids, err := c.source.ListCommitIdentities(ctx, org, repo, branch, window)
	if err != nil {
		return nil, err
	}

	fresh := dedupe(ids, seen)
	c.logger.WithFields(logrus.Fields{
		"org":     org,
		"repo":    repo,
		"branch":  branch,
		"listed":  len(ids),
		"fetched": len(fresh),
	}).Debug("Collected branch commits")

	return c.EnrichWithStats(ctx, org, repo, fresh, opts), nil
}
