package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Kamar-Folarin/commitboard/internal/config"
	"github.com/Kamar-Folarin/commitboard/internal/discord"
	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
	"github.com/Kamar-Folarin/commitboard/internal/identity"
	"github.com/Kamar-Folarin/commitboard/internal/models"
	"github.com/Kamar-Folarin/commitboard/internal/report"
	"github.com/Kamar-Folarin/commitboard/internal/timewindow"
)

// cliGuild names the identity scope of an --org report that has no guild
const cliGuild = "cli"

type reportFlags struct {
	org     string
	guild   string
	repo    string
	rel     string
	since   string
	until   string
	noColor bool
}

func reportCmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print one leaderboard and exit",
		Long: `Collects commits over the window, resolves identities and prints the
leaderboard. Use --guild to reuse a guild's stored setup, identity map and
blacklist, or --org to report on an organization with the global token.`,
		Example: `  commitboard report --org acme --rel 7d
  commitboard report --guild 1234567890 --repo api --since 2024-03-01T00:00:00.000Z --until 2024-03-08T00:00:00.000Z`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.org == "" && flags.guild == "" {
				return errors.New("one of --org or --guild is required")
			}
			if flags.noColor {
				color.NoColor = true
			}
			return runReport(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.org, "org", "", "GitHub organization (overrides the guild's org)")
	cmd.Flags().StringVar(&flags.guild, "guild", "", "guild whose stored setup is used")
	cmd.Flags().StringVar(&flags.repo, "repo", "", "repository name, owner/repo or URL; empty reports the whole org")
	cmd.Flags().StringVar(&flags.rel, "rel", "", "relative window such as 1d or 12h")
	cmd.Flags().StringVar(&flags.since, "since", "", "window start (YYYY-MM-DDTHH:mm:ss.sssZ)")
	cmd.Flags().StringVar(&flags.until, "until", "", "window end (YYYY-MM-DDTHH:mm:ss.sssZ)")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	return cmd
}

func runReport(ctx context.Context, out io.Writer, flags reportFlags) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	// Progress logs go to stderr so stdout carries only the leaderboard.
	logger.SetOutput(os.Stderr)

	reports, guildID, cleanup, err := reportService(cfg, logger, flags)
	if err != nil {
		return err
	}
	defer cleanup()

	board, err := reports.Report(ctx, guildID, report.Request{
		Repo: flags.repo,
		Window: timewindow.Request{
			Rel:   flags.rel,
			Since: flags.since,
			Until: flags.until,
		},
	})
	if err != nil {
		return errors.New(apperrors.UserMessage(err))
	}

	printLeaderboard(out, board)
	return nil
}

// reportService wires a report service for one CLI run. Guild runs read the
// guild's documents; org runs touch no stored state.
func reportService(cfg *config.Config, logger *logrus.Logger, flags reportFlags) (*report.Service, string, func(), error) {
	sources := sourceFactory(cfg, logger)

	if flags.guild == "" {
		guilds := staticGuild{info: models.GitInfo{
			Platform:   models.PlatformGitHub,
			AuthMethod: models.AuthMethodApp,
			Org:        flags.org,
		}}
		resolver := identity.NewResolver(emptyMap{}, emptyBlacklist{}, rawNames{}, cfg.Report.IdentityConcurrency, logger)
		return report.NewService(sources, guilds, resolver, cfg.Report, logger), cliGuild, func() {}, nil
	}

	st, err := openStores(cfg, logger)
	if err != nil {
		return nil, "", nil, err
	}
	cleanup := func() { st.docs.Close() }

	var names identity.DisplayNameResolver = rawNames{}
	if cfg.DiscordToken != "" {
		session, err := discord.Open(cfg.DiscordToken, logger)
		if err != nil {
			logger.WithError(err).Warn("Display names unavailable, printing raw user ids")
		} else {
			names = discord.NewNameResolver(session, logger)
			cleanup = func() {
				session.Close()
				st.docs.Close()
			}
		}
	}

	var guilds report.GuildInfoReader = st.guilds
	if flags.org != "" {
		guilds = orgOverride{GuildInfoReader: st.guilds, org: flags.org}
	}
	resolver := identity.NewResolver(st.authMap, st.blacklist, names, cfg.Report.IdentityConcurrency, logger)
	return report.NewService(sources, guilds, resolver, cfg.Report, logger), flags.guild, cleanup, nil
}

func printLeaderboard(out io.Writer, board *report.Leaderboard) {
	if board.Empty {
		color.New(color.FgYellow).Fprintln(out, board.Content)
		return
	}

	color.New(color.FgCyan, color.Bold).Fprintln(out, board.Title)
	fmt.Fprintln(out, strings.TrimPrefix(board.Content, board.Title+"\n"))

	var additions, deletions int64
	for _, row := range board.Rows {
		additions += int64(row.Additions)
		deletions += int64(row.Deletions)
	}
	color.New(color.FgGreen).Fprintf(out, "+%s", humanize.Comma(additions))
	fmt.Fprint(out, " ")
	color.New(color.FgRed).Fprintf(out, "-%s", humanize.Comma(deletions))
	fmt.Fprintf(out, " across %d authors\n", len(board.Rows))
}

type staticGuild struct {
	info models.GitInfo
}

func (s staticGuild) Get(ctx context.Context, guildID string) (models.GitInfo, error) {
	return s.info, nil
}

type orgOverride struct {
	report.GuildInfoReader
	org string
}

func (o orgOverride) Get(ctx context.Context, guildID string) (models.GitInfo, error) {
	info, err := o.GuildInfoReader.Get(ctx, guildID)
	if err != nil {
		return info, err
	}
	info.Org = o.org
	return info, nil
}

type emptyMap struct{}

func (emptyMap) Get(ctx context.Context, guildID string) (map[string]string, error) {
	return nil, nil
}

type emptyBlacklist struct{}

func (emptyBlacklist) Get(ctx context.Context, guildID string) ([]string, error) {
	return nil, nil
}

type rawNames struct{}

func (rawNames) DisplayName(ctx context.Context, guildID, userID string) (string, error) {
	return userID, nil
}
