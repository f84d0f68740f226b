package config

import "time"

// ReportConfig holds commit aggregation configuration
type ReportConfig struct {
	PerPage             int
	RepoConcurrency     int
	IdentityConcurrency int
	IgnoreMerges        bool
	IncludeForks        bool
	IncludeArchived     bool
	ExcludeRepos        []string
	MaxWindow           time.Duration
	DefaultWindow       string
	BatchConfig         BatchConfig
	Leaderboard         LeaderboardConfig
}

// BatchConfig holds bounded pool configuration
type BatchConfig struct {
	Workers int
}

// LeaderboardConfig holds rendering limits
type LeaderboardConfig struct {
	Top              int
	SafeBudget       int
	IncludeDeletions bool
	IncludeTotal     bool
}

// DefaultReportConfig returns the default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		PerPage:             100,
		RepoConcurrency:     3,
		IdentityConcurrency: 8,
		MaxWindow:           90 * 24 * time.Hour,
		DefaultWindow:       "1d",
		BatchConfig: BatchConfig{
			Workers: 8,
		},
		Leaderboard: LeaderboardConfig{
			Top:              10,
			SafeBudget:       1900,
			IncludeDeletions: true,
			IncludeTotal:     true,
		},
	}
}
