package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	Port               string
	Root               string
	LogLevel           string
	LogFormat          string
	DiscordToken       string
	StoreDriver        string
	DBConnectionString string
	WatchConfig        bool
	GitHub             *GitHubConfig
	Report             *ReportConfig
	Schedule           *ScheduleConfig
	Messenger          *MessengerConfig
}

// Load reads configuration from the environment and, when present, from
// configFile or ./commitboard.{yaml,json,toml}. Environment wins.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("commitboard")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Port:               v.GetString("port"),
		Root:               v.GetString("root"),
		LogLevel:           v.GetString("log.level"),
		LogFormat:          v.GetString("log.format"),
		DiscordToken:       v.GetString("discord.token"),
		StoreDriver:        strings.ToLower(v.GetString("store.driver")),
		DBConnectionString: v.GetString("db.connection.string"),
		WatchConfig:        v.GetBool("watch.config"),
		GitHub: &GitHubConfig{
			Token:      v.GetString("github.token"),
			APIBaseURL: v.GetString("github.api.url"),
			Timeout:    v.GetDuration("github.timeout"),
		},
		Report: &ReportConfig{
			PerPage:             v.GetInt("report.per.page"),
			RepoConcurrency:     v.GetInt("report.repo.concurrency"),
			IdentityConcurrency: v.GetInt("report.identity.concurrency"),
			IgnoreMerges:        v.GetBool("report.ignore.merges"),
			IncludeForks:        v.GetBool("report.include.forks"),
			IncludeArchived:     v.GetBool("report.include.archived"),
			ExcludeRepos:        splitList(v.GetString("report.exclude.repos")),
			MaxWindow:           time.Duration(v.GetInt("report.max.window.days")) * 24 * time.Hour,
			DefaultWindow:       v.GetString("report.default.window"),
			BatchConfig: BatchConfig{
				Workers: v.GetInt("report.commit.concurrency"),
			},
			Leaderboard: LeaderboardConfig{
				Top:              v.GetInt("report.top"),
				SafeBudget:       v.GetInt("report.safe.budget"),
				IncludeDeletions: v.GetBool("report.include.deletions"),
				IncludeTotal:     v.GetBool("report.include.total"),
			},
		},
		Schedule: &ScheduleConfig{
			DefaultTime:     v.GetString("schedule.default.time"),
			DefaultTimeZone: v.GetString("schedule.default.timezone"),
			RunTimeout:      v.GetDuration("schedule.run.timeout"),
			WindowSpec:      v.GetString("schedule.window"),
		},
		Messenger: &MessengerConfig{
			Rate:       v.GetFloat64("messenger.rate"),
			Burst:      v.GetInt("messenger.burst"),
			ChunkLimit: v.GetInt("messenger.chunk.limit"),
		},
	}

	return cfg, nil
}

// Validate checks the settings required by the serve command
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverFile:
	case StoreDriverPostgres:
		if c.DBConnectionString == "" {
			return errors.New("DB_CONNECTION_STRING must be set when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.DiscordToken == "" || c.GitHub.Token == "" {
		return errors.New("missing required configuration (DISCORD_TOKEN and GITHUB_TOKEN must be set)")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	gh := DefaultGitHubConfig()
	report := DefaultReportConfig()
	schedule := DefaultScheduleConfig()
	messenger := DefaultMessengerConfig()

	v.SetDefault("port", "8080")
	v.SetDefault("root", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("discord.token", "")
	v.SetDefault("store.driver", StoreDriverFile)
	v.SetDefault("db.connection.string", "")
	v.SetDefault("watch.config", true)

	v.SetDefault("github.token", "")
	v.SetDefault("github.api.url", gh.APIBaseURL)
	v.SetDefault("github.timeout", gh.Timeout)

	v.SetDefault("report.per.page", report.PerPage)
	v.SetDefault("report.commit.concurrency", report.BatchConfig.Workers)
	v.SetDefault("report.repo.concurrency", report.RepoConcurrency)
	v.SetDefault("report.identity.concurrency", report.IdentityConcurrency)
	v.SetDefault("report.ignore.merges", report.IgnoreMerges)
	v.SetDefault("report.include.forks", report.IncludeForks)
	v.SetDefault("report.include.archived", report.IncludeArchived)
	v.SetDefault("report.exclude.repos", "")
	v.SetDefault("report.max.window.days", int(report.MaxWindow/(24*time.Hour)))
	v.SetDefault("report.default.window", report.DefaultWindow)
	v.SetDefault("report.top", report.Leaderboard.Top)
	v.SetDefault("report.safe.budget", report.Leaderboard.SafeBudget)
	v.SetDefault("report.include.deletions", report.Leaderboard.IncludeDeletions)
	v.SetDefault("report.include.total", report.Leaderboard.IncludeTotal)

	v.SetDefault("schedule.default.time", schedule.DefaultTime)
	v.SetDefault("schedule.default.timezone", schedule.DefaultTimeZone)
	v.SetDefault("schedule.run.timeout", schedule.RunTimeout)
	v.SetDefault("schedule.window", schedule.WindowSpec)

	v.SetDefault("messenger.rate", messenger.Rate)
	v.SetDefault("messenger.burst", messenger.Burst)
	v.SetDefault("messenger.chunk.limit", messenger.ChunkLimit)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
