package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreDriverFile, cfg.StoreDriver)
	assert.Equal(t, 8, cfg.Report.BatchConfig.Workers)
	assert.Equal(t, 3, cfg.Report.RepoConcurrency)
	assert.Equal(t, 90*24*time.Hour, cfg.Report.MaxWindow)
	assert.Equal(t, 1900, cfg.Report.Leaderboard.SafeBudget)
	assert.Equal(t, "08:00", cfg.Schedule.DefaultTime)
	assert.Equal(t, "America/Toronto", cfg.Schedule.DefaultTimeZone)
	assert.Equal(t, 2000, cfg.Messenger.ChunkLimit)
	assert.Empty(t, cfg.Report.ExcludeRepos)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("REPORT_COMMIT_CONCURRENCY", "4")
	t.Setenv("REPORT_IGNORE_MERGES", "true")
	t.Setenv("REPORT_EXCLUDE_REPOS", "sandbox-*, archive-*")
	t.Setenv("REPORT_MAX_WINDOW_DAYS", "30")
	t.Setenv("STORE_DRIVER", "Postgres")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 4, cfg.Report.BatchConfig.Workers)
	assert.True(t, cfg.Report.IgnoreMerges)
	assert.Equal(t, []string{"sandbox-*", "archive-*"}, cfg.Report.ExcludeRepos)
	assert.Equal(t, 30*24*time.Hour, cfg.Report.MaxWindow)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commitboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7070\"\nreport:\n  top: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, 5, cfg.Report.Leaderboard.Top)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Error(t, cfg.Validate())

	cfg.DiscordToken = "discord"
	cfg.GitHub.Token = "github"
	assert.NoError(t, cfg.Validate())

	cfg.StoreDriver = StoreDriverPostgres
	assert.Error(t, cfg.Validate())

	cfg.DBConnectionString = "postgres://localhost/commitboard"
	assert.NoError(t, cfg.Validate())
}
