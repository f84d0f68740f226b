package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ReportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "commitboard_report_duration_seconds",
		Help:    "Time spent collecting a repository or organization report.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"scope"})

	UpstreamFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commitboard_upstream_failures_total",
		Help: "GitHub calls that failed and were absorbed, by collection stage.",
	}, []string{"stage"})

	CommitsEnrichedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "commitboard_commits_enriched_total",
		Help: "Commits whose line statistics were fetched successfully.",
	})

	ScheduledRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commitboard_scheduled_runs_total",
		Help: "Scheduled leaderboard runs by outcome.",
	}, []string{"result"})

	ScheduledJobs = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "commitboard_scheduled_jobs",
		Help: "Guild jobs known to the scheduler by state.",
	}, []string{"state"})

	MessagesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "commitboard_messages_sent_total",
		Help: "Chat message chunks delivered.",
	})
)

const (
	StageRepos       = "repos"
	StageBranches    = "branches"
	StageCommits     = "commits"
	StageCommitStats = "commit_stats"
	StageMembers     = "members"
)
