package report

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/commitboard/internal/batch"
	"github.com/Kamar-Folarin/commitboard/internal/config"
	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
	"github.com/Kamar-Folarin/commitboard/internal/metrics"
	"github.com/Kamar-Folarin/commitboard/internal/models"
)

// OrgReport holds per-repository rows and their merged summary
type OrgReport struct {
	ByRepo  map[string][]models.AuthorAggregate `json:"by_repo"`
	Summary []models.AuthorAggregate            `json:"summary"`
}

// Aggregator builds repository and organization reports
type Aggregator struct {
	source    Source
	collector *Collector
	logger    *logrus.Logger
}

// NewAggregator creates a new aggregator over source
func NewAggregator(source Source, logger *logrus.Logger) *Aggregator {
	return &Aggregator{
		source:    source,
		collector: NewCollector(source, logger),
		logger:    logger,
	}
}

// CollectRepoReport folds every branch of repo into per-author rows.
// Branches are walked one after another and a SHA reachable from several
// branches counts once, for the first branch that lists it. A branch whose
// commits cannot be listed is skipped.
func (a *Aggregator) CollectRepoReport(ctx context.Context, org, repo string, window models.TimeWindow, opts Options) ([]models.AuthorAggregate, error) {
	start := time.Now()
	defer func() {
		metrics.ReportDuration.WithLabelValues("repo").Observe(time.Since(start).Seconds())
	}()

	branches, err := a.source.ListBranches(ctx, org, repo)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var all []models.CommitSummary
	for _, b := range branches {
		summaries, err := a.collector.collectBranch(ctx, org, repo, b.Name, window, opts, seen)
		if err != nil {
			metrics.UpstreamFailuresTotal.WithLabelValues(metrics.StageCommits).Inc()
			a.logger.WithFields(logrus.Fields{
				"org":    org,
				"repo":   repo,
				"branch": b.Name,
			}).WithError(err).Warn("Skipping branch")
			continue
		}
		all = append(all, summaries...)
	}

	return FoldByAuthor(all), nil
}

// ListRepos lists the organization's repositories after applying the fork,
// archive and exclude filters of opts, sorted by name.
func (a *Aggregator) ListRepos(ctx context.Context, org string, opts Options) ([]models.RepoSummary, error) {
	excludes, err := compileExcludes(opts.ExcludeRepos)
	if err != nil {
		return nil, err
	}

	repos, err := a.source.ListOrgRepos(ctx, org)
	if err != nil {
		metrics.UpstreamFailuresTotal.WithLabelValues(metrics.StageRepos).Inc()
		return nil, err
	}

	var out []models.RepoSummary
	for _, r := range repos {
		if r.Name == "" {
			continue
		}
		if r.Fork && !opts.IncludeForks {
			continue
		}
		if r.Archived && !opts.IncludeArchived {
			continue
		}
		if matchesAny(excludes, r.Name) {
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CollectOrgReport runs CollectRepoReport for every listed repository on a
// bounded pool and merges the results. A repository that fails contributes
// an empty row set.
func (a *Aggregator) CollectOrgReport(ctx context.Context, org string, window models.TimeWindow, opts Options) (*OrgReport, error) {
	start := time.Now()
	defer func() {
		metrics.ReportDuration.WithLabelValues("org").Observe(time.Since(start).Seconds())
	}()

	repos, err := a.ListRepos(ctx, org, opts)
	if err != nil {
		return nil, err
	}

	report := &OrgReport{ByRepo: make(map[string][]models.AuthorAggregate, len(repos))}
	if len(repos) == 0 {
		return report, nil
	}

	var mu sync.Mutex
	processor := batch.NewProcessor(&config.BatchConfig{Workers: opts.repoConcurrency()})
	progress := processor.ProcessItems(ctx, len(repos), func(ctx context.Context, i int) error {
		name := repos[i].Name
		rows, err := a.CollectRepoReport(ctx, org, name, window, opts)
		if err != nil {
			metrics.UpstreamFailuresTotal.WithLabelValues(metrics.StageBranches).Inc()
			a.logger.WithFields(logrus.Fields{
				"org":  org,
				"repo": name,
			}).WithError(err).Warn("Skipping repository")
			rows = nil
		}

		mu.Lock()
		report.ByRepo[name] = rows
		mu.Unlock()
		return err
	})

	lists := make([][]models.AuthorAggregate, 0, len(report.ByRepo))
	for _, rows := range report.ByRepo {
		lists = append(lists, rows)
	}
	report.Summary = MergeAggregates(lists...)

	a.logger.WithFields(logrus.Fields{
		"org":          org,
		"repos":        len(repos),
		"failed_repos": progress.Failed,
		"authors":      len(report.Summary),
		"duration":     time.Since(start).String(),
	}).Info("Collected organization report")

	return report, nil
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Invalid repository exclude pattern %q.", p), err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
