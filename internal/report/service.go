package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/commitboard/internal/config"
	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
	"github.com/Kamar-Folarin/commitboard/internal/leaderboard"
	"github.com/Kamar-Folarin/commitboard/internal/metrics"
	"github.com/Kamar-Folarin/commitboard/internal/models"
	"github.com/Kamar-Folarin/commitboard/internal/timewindow"
	"github.com/Kamar-Folarin/commitboard/pkg/utils"
)

const (
	DefaultRepoListMax   = 50
	DefaultBranchListMax = 20
	DefaultPeopleListMax = 20
)

// GuildInfoReader reads a guild's code host setup
type GuildInfoReader interface {
	Get(ctx context.Context, guildID string) (models.GitInfo, error)
}

// IdentityResolver turns raw author keys into guild display names
type IdentityResolver interface {
	Convert(ctx context.Context, guildID string, rows []models.AuthorAggregate) ([]models.AuthorAggregate, error)
	ResolveNames(ctx context.Context, guildID string, keys []string) ([]string, error)
}

// Request is a report command
type Request struct {
	Repo   string
	Window timewindow.Request
}

// Leaderboard is a rendered report
type Leaderboard struct {
	Org     string                   `json:"org"`
	Repo    string                   `json:"repo,omitempty"`
	Title   string                   `json:"title"`
	Window  models.TimeWindow        `json:"-"`
	Since   string                   `json:"since"`
	Until   string                   `json:"until"`
	Rows    []models.AuthorAggregate `json:"rows"`
	Empty   bool                     `json:"empty"`
	Content string                   `json:"content"`
}

// Listing is a rendered list of names
type Listing struct {
	Title   string   `json:"title"`
	Items   []string `json:"items"`
	Content string   `json:"content"`
}

// Service runs guild-scoped reports end to end
type Service struct {
	sources  SourceFactory
	guilds   GuildInfoReader
	identity IdentityResolver
	windows  *timewindow.Resolver
	config   *config.ReportConfig
	logger   *logrus.Logger
}

// NewService creates a new report service
func NewService(sources SourceFactory, guilds GuildInfoReader, identity IdentityResolver, cfg *config.ReportConfig, logger *logrus.Logger) *Service {
	return &Service{
		sources:  sources,
		guilds:   guilds,
		identity: identity,
		windows:  timewindow.NewResolver(cfg.MaxWindow),
		config:   cfg,
		logger:   logger,
	}
}

// Windows exposes the resolver used for report requests
func (s *Service) Windows() *timewindow.Resolver {
	return s.windows
}

// Report resolves the window, collects the repository or organization
// report, converts identities and renders the leaderboard.
func (s *Service) Report(ctx context.Context, guildID string, req Request) (*Leaderboard, error) {
	window, err := s.windows.Resolve(req.Window)
	if err != nil {
		return nil, err
	}

	info, source, err := s.guildSource(ctx, guildID)
	if err != nil {
		return nil, err
	}

	repo := ""
	if strings.TrimSpace(req.Repo) != "" {
		if repo, err = s.repoName(info.Org, req.Repo); err != nil {
			return nil, err
		}
	}

	aggregator := NewAggregator(source, s.logger)
	opts := OptionsFromConfig(s.config)

	var rows []models.AuthorAggregate
	if repo != "" {
		rows, err = aggregator.CollectRepoReport(ctx, info.Org, repo, window, opts)
		if err != nil {
			return nil, err
		}
	} else {
		report, err := aggregator.CollectOrgReport(ctx, info.Org, window, opts)
		if err != nil {
			return nil, err
		}
		rows = report.Summary
	}

	rows, err = s.identity.Convert(ctx, guildID, rows)
	if err != nil {
		return nil, err
	}

	var title, empty string
	if repo != "" {
		title = fmt.Sprintf("Repo: %s · %s", repo, window.Describe())
		empty = fmt.Sprintf("No commits in `%s` within `%s`.", repo, window.Describe())
	} else {
		title = fmt.Sprintf("Org Total · %s", window.Describe())
		empty = fmt.Sprintf("No commits in org within `%s`.", window.Describe())
	}

	return s.render(info.Org, repo, title, empty, window, rows), nil
}

// DailyLeaderboard builds the scheduled organization leaderboard over the
// last windowSpec (default 1d).
func (s *Service) DailyLeaderboard(ctx context.Context, guildID, windowSpec string) (*Leaderboard, error) {
	if windowSpec == "" {
		windowSpec = "1d"
	}
	window, err := s.windows.ParseRelative(windowSpec)
	if err != nil {
		return nil, err
	}

	info, source, err := s.guildSource(ctx, guildID)
	if err != nil {
		return nil, err
	}

	report, err := NewAggregator(source, s.logger).CollectOrgReport(ctx, info.Org, window, OptionsFromConfig(s.config))
	if err != nil {
		return nil, err
	}

	rows, err := s.identity.Convert(ctx, guildID, report.Summary)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("🏆 Daily Leaderboard for %s - %s", info.Org, window.Describe())
	empty := fmt.Sprintf("No commits in `%s` within `%s`.", info.Org, window.Describe())
	return s.render(info.Org, "", title, empty, window, rows), nil
}

// ListRepos lists up to max repositories of the guild's organization
func (s *Service) ListRepos(ctx context.Context, guildID string, max int) (*Listing, error) {
	if max <= 0 {
		max = DefaultRepoListMax
	}
	info, source, err := s.guildSource(ctx, guildID)
	if err != nil {
		return nil, err
	}

	repos, err := NewAggregator(source, s.logger).ListRepos(ctx, info.Org, OptionsFromConfig(s.config))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.Name)
	}
	return newListing(fmt.Sprintf("Repos in %s (max %d)", info.Org, max), names, max), nil
}

// ListBranches lists up to max branches of repo
func (s *Service) ListBranches(ctx context.Context, guildID, repoRef string, max int) (*Listing, error) {
	if max <= 0 {
		max = DefaultBranchListMax
	}
	info, source, err := s.guildSource(ctx, guildID)
	if err != nil {
		return nil, err
	}
	repo, err := s.repoName(info.Org, repoRef)
	if err != nil {
		return nil, err
	}

	branches, err := source.ListBranches(ctx, info.Org, repo)
	if err != nil {
		metrics.UpstreamFailuresTotal.WithLabelValues(metrics.StageBranches).Inc()
		return nil, err
	}

	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
	}
	sort.Strings(names)
	return newListing(fmt.Sprintf("Branches in %s (max %d)", repo, max), names, max), nil
}

// ListPeople lists up to max organization members by display name, with
// blacklisted names removed.
func (s *Service) ListPeople(ctx context.Context, guildID string, max int) (*Listing, error) {
	if max <= 0 {
		max = DefaultPeopleListMax
	}
	info, source, err := s.guildSource(ctx, guildID)
	if err != nil {
		return nil, err
	}

	logins, err := source.ListMembers(ctx, info.Org)
	if err != nil {
		metrics.UpstreamFailuresTotal.WithLabelValues(metrics.StageMembers).Inc()
		return nil, err
	}

	names, err := s.identity.ResolveNames(ctx, guildID, logins)
	if err != nil {
		return nil, err
	}
	return newListing(fmt.Sprintf("People in org %s (max %d)", info.Org, max), names, max), nil
}

// guildSource loads the guild setup and picks its source. Nothing remote is
// touched when the setup is incomplete.
func (s *Service) guildSource(ctx context.Context, guildID string) (models.GitInfo, Source, error) {
	info, err := s.guilds.Get(ctx, guildID)
	if err != nil {
		return models.GitInfo{}, nil, err
	}
	if !info.Complete() {
		return models.GitInfo{}, nil, apperrors.NewConfigurationError("Please set up repo info first using guildinfo (organization and auth method are required).", nil)
	}

	source, err := s.sources(info)
	if err != nil {
		return models.GitInfo{}, nil, apperrors.NewConfigurationError("Could not create a GitHub client for this guild.", err)
	}
	return info, source, nil
}

func (s *Service) repoName(org, ref string) (string, error) {
	owner, repo, err := utils.ParseRepoRef(ref)
	if err != nil {
		return "", apperrors.NewValidationError(fmt.Sprintf("Invalid repository %q.", ref), err)
	}
	if owner != "" && !strings.EqualFold(owner, org) {
		return "", apperrors.NewValidationError(fmt.Sprintf("Repository %s/%s is not part of %s.", owner, repo, org), nil)
	}
	return repo, nil
}

func (s *Service) render(org, repo, title, empty string, window models.TimeWindow, rows []models.AuthorAggregate) *Leaderboard {
	lb := &Leaderboard{
		Org:    org,
		Repo:   repo,
		Title:  title,
		Window: window,
		Since:  window.SinceISO(),
		Until:  window.UntilISO(),
		Rows:   rows,
		Empty:  len(rows) == 0,
	}
	if lb.Empty {
		lb.Content = empty
		return lb
	}

	lb.Content = leaderboard.Render(rows, leaderboard.Options{
		Title:            title,
		Top:              s.config.Leaderboard.Top,
		IncludeDeletions: s.config.Leaderboard.IncludeDeletions,
		IncludeTotal:     s.config.Leaderboard.IncludeTotal,
		SafeBudget:       s.config.Leaderboard.SafeBudget,
	})
	return lb
}

func newListing(title string, items []string, max int) *Listing {
	if len(items) > max {
		items = items[:max]
	}
	l := &Listing{Title: title, Items: items}
	if len(items) == 0 {
		l.Content = "No items found for " + title
	} else {
		l.Content = leaderboard.RenderList(items, title)
	}
	return l
}
