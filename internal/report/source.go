// Package report collects commit statistics from a code host and folds them
// into per-author leaderboards for a repository or a whole organization.
package report

import (
	"context"

	"github.com/Kamar-Folarin/commitboard/internal/config"
	"github.com/Kamar-Folarin/commitboard/internal/models"
)

// Source is the code host a report reads from
type Source interface {
	ListOrgRepos(ctx context.Context, org string) ([]models.RepoSummary, error)
	ListBranches(ctx context.Context, org, repo string) ([]models.BranchSummary, error)
	ListCommitIdentities(ctx context.Context, org, repo, branch string, window models.TimeWindow) ([]models.CommitIdentity, error)
	GetCommitStat(ctx context.Context, org, repo, sha string) (*models.CommitStat, error)
	ListMembers(ctx context.Context, org string) ([]string, error)
}

// SourceFactory picks the source for a guild's git setup
type SourceFactory func(info models.GitInfo) (Source, error)

// Options tunes a single collection run
type Options struct {
	Concurrency     int
	RepoConcurrency int
	IgnoreMerges    bool
	IncludeForks    bool
	IncludeArchived bool
	ExcludeRepos    []string
}

// OptionsFromConfig derives run options from the report configuration
func OptionsFromConfig(cfg *config.ReportConfig) Options {
	return Options{
		Concurrency:     cfg.BatchConfig.Workers,
		RepoConcurrency: cfg.RepoConcurrency,
		IgnoreMerges:    cfg.IgnoreMerges,
		IncludeForks:    cfg.IncludeForks,
		IncludeArchived: cfg.IncludeArchived,
		ExcludeRepos:    cfg.ExcludeRepos,
	}
}

func (o Options) concurrency() int {
	if o.Concurrency <= 0 {
		return 8
	}
	return o.Concurrency
}

func (o Options) repoConcurrency() int {
	if o.RepoConcurrency <= 0 {
		return 3
	}
	return o.RepoConcurrency
}
