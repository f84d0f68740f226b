package report

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/commitboard/internal/models"
)

var errUpstream = errors.New("upstream unavailable")

type fakeCommit struct {
	id   models.CommitIdentity
	stat *models.CommitStat
}

// fakeSource serves a fixed organization from memory
type fakeSource struct {
	mu          sync.Mutex
	repos       []models.RepoSummary
	branches    map[string][]string
	commits     map[string][]fakeCommit
	members     []string
	failRepos   bool
	failBranch  map[string]bool
	failStat    map[string]bool
	statCalls   map[string]int
	branchCalls []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		branches:   make(map[string][]string),
		commits:    make(map[string][]fakeCommit),
		failBranch: make(map[string]bool),
		failStat:   make(map[string]bool),
		statCalls:  make(map[string]int),
	}
}

func (f *fakeSource) addCommit(repo, branch, sha, author string, add, del int) {
	f.commits[repo+"@"+branch] = append(f.commits[repo+"@"+branch], fakeCommit{
		id:   models.CommitIdentity{SHA: sha, AuthorKey: author},
		stat: &models.CommitStat{Additions: add, Deletions: del, Total: add + del},
	})
}

func (f *fakeSource) ListOrgRepos(ctx context.Context, org string) ([]models.RepoSummary, error) {
	if f.failRepos {
		return nil, errUpstream
	}
	return f.repos, nil
}

func (f *fakeSource) ListBranches(ctx context.Context, org, repo string) ([]models.BranchSummary, error) {
	names, ok := f.branches[repo]
	if !ok {
		return nil, errUpstream
	}
	var out []models.BranchSummary
	for _, n := range names {
		out = append(out, models.BranchSummary{Name: n, HeadSHA: n + "-head"})
	}
	return out, nil
}

func (f *fakeSource) ListCommitIdentities(ctx context.Context, org, repo, branch string, window models.TimeWindow) ([]models.CommitIdentity, error) {
	f.mu.Lock()
	f.branchCalls = append(f.branchCalls, repo+"@"+branch)
	f.mu.Unlock()

	if f.failBranch[repo+"@"+branch] {
		return nil, errUpstream
	}
	var out []models.CommitIdentity
	for _, c := range f.commits[repo+"@"+branch] {
		out = append(out, c.id)
	}
	return out, nil
}

func (f *fakeSource) GetCommitStat(ctx context.Context, org, repo, sha string) (*models.CommitStat, error) {
	f.mu.Lock()
	f.statCalls[sha]++
	f.mu.Unlock()

	if f.failStat[sha] {
		return nil, errUpstream
	}
	for key, commits := range f.commits {
		if len(key) < len(repo) || key[:len(repo)] != repo {
			continue
		}
		for _, c := range commits {
			if c.id.SHA == sha {
				return c.stat, nil
			}
		}
	}
	return nil, errUpstream
}

func (f *fakeSource) ListMembers(ctx context.Context, org string) ([]string, error) {
	return f.members, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	return logger
}
