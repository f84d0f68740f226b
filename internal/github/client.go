package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/Kamar-Folarin/commitboard/internal/models"
)

const defaultPerPage = 100

// Client reads organizations, branches and commits from the GitHub REST API
type Client struct {
	client  *github.Client
	logger  *logrus.Logger
	perPage int
	baseURL string
	timeout time.Duration
}

// ClientOption allows configuring the GitHub client
type ClientOption func(*Client)

// WithBaseURL points the client at a GitHub Enterprise or test server
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithPerPage sets the page size used for every listing
func WithPerPage(perPage int) ClientOption {
	return func(c *Client) {
		if perPage > 0 {
			c.perPage = perPage
		}
	}
}

// WithTimeout bounds every HTTP request
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a new GitHub client with the given token and options.
// An empty token yields an unauthenticated client.
func NewClient(token string, logger *logrus.Logger, opts ...ClientOption) (*Client, error) {
	c := &Client{
		logger:  logger,
		perPage: defaultPerPage,
		timeout: 120 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	httpClient := &http.Client{}
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Timeout = c.timeout

	c.client = github.NewClient(httpClient)
	if c.baseURL != "" {
		base := c.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", c.baseURL, err)
		}
		c.client.BaseURL = u
	}

	return c, nil
}

// ListOrgRepos lists every repository of an organization, including forks
// and archived ones. Callers filter.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]models.RepoSummary, error) {
	opts := &github.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: github.ListOptions{PerPage: c.perPage},
	}

	var result []models.RepoSummary
	for {
		repos, resp, err := c.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, newUpstreamError("list repositories", org, err)
		}

		for _, r := range repos {
			result = append(result, models.RepoSummary{
				Name:          r.GetName(),
				DefaultBranch: r.GetDefaultBranch(),
				Private:       r.GetPrivate(),
				Fork:          r.GetFork(),
				Archived:      r.GetArchived(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.WithFields(logrus.Fields{
		"org":   org,
		"repos": len(result),
	}).Debug("Listed organization repositories")

	return result, nil
}

// ListBranches lists the branches of a repository. Branches without a head
// commit are skipped.
func (c *Client) ListBranches(ctx context.Context, org, repo string) ([]models.BranchSummary, error) {
	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: c.perPage},
	}

	var result []models.BranchSummary
	for {
		branches, resp, err := c.client.Repositories.ListBranches(ctx, org, repo, opts)
		if err != nil {
			return nil, newUpstreamError("list branches", org+"/"+repo, err)
		}

		for _, b := range branches {
			sha := b.GetCommit().GetSHA()
			if sha == "" {
				continue
			}
			result = append(result, models.BranchSummary{Name: b.GetName(), HeadSHA: sha})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// ListCommitIdentities lists the commits reachable from branch inside window
func (c *Client) ListCommitIdentities(ctx context.Context, org, repo, branch string, window models.TimeWindow) ([]models.CommitIdentity, error) {
	opts := &github.CommitsListOptions{
		SHA:         branch,
		Since:       window.Since,
		Until:       window.Until,
		ListOptions: github.ListOptions{PerPage: c.perPage},
	}

	var result []models.CommitIdentity
	for {
		commits, resp, err := c.client.Repositories.ListCommits(ctx, org, repo, opts)
		if err != nil {
			return nil, newUpstreamError("list commits", fmt.Sprintf("%s/%s@%s", org, repo, branch), err)
		}

		for _, rc := range commits {
			key := models.NewAuthorKey(
				rc.GetAuthor().GetLogin(),
				rc.GetCommit().GetAuthor().GetEmail(),
				rc.GetCommit().GetCommitter().GetEmail(),
			)
			result = append(result, models.CommitIdentity{
				SHA:       rc.GetSHA(),
				AuthorKey: key.String(),
				Date:      rc.GetCommit().GetAuthor().GetDate().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// GetCommitStat fetches line counts and parent count for one commit
func (c *Client) GetCommitStat(ctx context.Context, org, repo, sha string) (*models.CommitStat, error) {
	rc, _, err := c.client.Repositories.GetCommit(ctx, org, repo, sha, nil)
	if err != nil {
		return nil, newUpstreamError("get commit", fmt.Sprintf("%s/%s@%s", org, repo, sha), err)
	}

	stats := rc.GetStats()
	var total *int
	if stats != nil {
		total = stats.Total
	}
	return models.NewCommitStat(stats.GetAdditions(), stats.GetDeletions(), total, len(rc.Parents)), nil
}

// ListMembers lists the logins of an organization's members
func (c *Client) ListMembers(ctx context.Context, org string) ([]string, error) {
	opts := &github.ListMembersOptions{
		ListOptions: github.ListOptions{PerPage: c.perPage},
	}

	var result []string
	for {
		users, resp, err := c.client.Organizations.ListMembers(ctx, org, opts)
		if err != nil {
			return nil, newUpstreamError("list members", org, err)
		}

		for _, u := range users {
			if login := u.GetLogin(); login != "" {
				result = append(result, login)
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}
