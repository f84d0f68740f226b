// Package scheduler keeps one daily leaderboard job per guild in step with
// the guild's persisted schedule.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/commitboard/internal/config"
	"github.com/Kamar-Folarin/commitboard/internal/metrics"
	"github.com/Kamar-Folarin/commitboard/internal/models"
)

// ConfigStore persists guild schedules
type ConfigStore interface {
	Get(ctx context.Context, guildID string) (models.GuildScheduleConfig, error)
	Update(ctx context.Context, guildID string, patch models.SchedulePatch) (models.GuildScheduleConfig, error)
	ListGuilds(ctx context.Context) ([]string, error)
}

// Runner does the scheduled work for a guild
type Runner interface {
	Run(ctx context.Context, guildID, channelID string) error
}

// Job is the live schedule of one guild. It is updated in place and only
// discarded by RemoveJob.
type Job struct {
	GuildID  string
	Time     string
	TimeZone string
	Spec     string

	running bool
	entry   cron.EntryID
}

// Running reports whether the job is registered to fire
func (j *Job) Running() bool {
	return j.running
}

// Snapshot is a read-only view of a job
type Snapshot struct {
	GuildID  string    `json:"guild_id"`
	Time     string    `json:"time"`
	TimeZone string    `json:"time_zone"`
	Spec     string    `json:"spec"`
	Running  bool      `json:"running"`
	Next     time.Time `json:"next,omitempty"`
}

// Scheduler owns the guild job table
type Scheduler struct {
	cron    *cron.Cron
	store   ConfigStore
	runner  Runner
	timeout time.Duration
	logger  *logrus.Logger

	// reconcile serializes the read-then-apply cycle of EnsureJob
	reconcile sync.Mutex

	mu      sync.Mutex
	jobs    map[string]*Job
	baseCtx context.Context
}

// New creates a scheduler. Jobs fire only after Start.
func New(store ConfigStore, runner Runner, cfg *config.ScheduleConfig, logger *logrus.Logger) *Scheduler {
	if cfg == nil {
		cfg = config.DefaultScheduleConfig()
	}
	// A guild whose previous run is still in flight skips the tick.
	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(logger)),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
	)
	return &Scheduler{
		cron:    c,
		store:   store,
		runner:  runner,
		timeout: cfg.RunTimeout,
		logger:  logger,
		jobs:    make(map[string]*Job),
		baseCtx: context.Background(),
	}
}

// Start begins firing jobs. Runs inherit ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
	s.cron.Start()
}

// Stop halts the cron loop and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// ReloadAll rebuilds the job table from every persisted schedule
func (s *Scheduler) ReloadAll(ctx context.Context) error {
	ids, err := s.store.ListGuilds(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.EnsureJob(ctx, id); err != nil {
			s.logger.WithField("guild", id).WithError(err).Warn("Failed to restore scheduled job")
		}
	}
	s.logger.WithField("guilds", len(ids)).Info("Reloaded scheduled jobs")
	return nil
}

// EnsureJob reconciles the guild's job with its persisted schedule. A
// schedule without a channel, or with an invalid time or zone, leaves the
// guild without a job.
func (s *Scheduler) EnsureJob(ctx context.Context, guildID string) error {
	s.reconcile.Lock()
	defer s.reconcile.Unlock()

	cfg, err := s.store.Get(ctx, guildID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.updateGauge()

	if cfg.ChannelID == "" {
		s.removeLocked(guildID)
		return nil
	}

	spec, err := CronSpec(cfg.Time, cfg.TimeZone)
	if err != nil {
		s.removeLocked(guildID)
		return err
	}

	job, ok := s.jobs[guildID]
	if !ok {
		job = &Job{GuildID: guildID}
		s.jobs[guildID] = job
	}

	if job.running && (job.Spec != spec || !cfg.Enabled) {
		s.cron.Remove(job.entry)
		job.running = false
	}
	job.Time, job.TimeZone, job.Spec = cfg.Time, cfg.TimeZone, spec

	if cfg.Enabled && !job.running {
		entry, err := s.cron.AddFunc(spec, func() { s.fire(guildID) })
		if err != nil {
			return fmt.Errorf("failed to register job for guild %s: %w", guildID, err)
		}
		job.entry = entry
		job.running = true
	}

	s.logger.WithFields(logrus.Fields{
		"guild":   guildID,
		"spec":    spec,
		"running": job.running,
	}).Debug("Reconciled scheduled job")
	return nil
}

// RemoveJob stops and discards the guild's job
func (s *Scheduler) RemoveJob(guildID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(guildID)
	s.updateGauge()
}

func (s *Scheduler) removeLocked(guildID string) {
	job, ok := s.jobs[guildID]
	if !ok {
		return
	}
	if job.running {
		s.cron.Remove(job.entry)
	}
	delete(s.jobs, guildID)
	s.logger.WithField("guild", guildID).Info("Removed scheduled job")
}

// SetTime persists a new daily time and reconciles the job
func (s *Scheduler) SetTime(ctx context.Context, guildID, hhmm string) (models.GuildScheduleConfig, error) {
	return s.Apply(ctx, guildID, models.SchedulePatch{Time: &hhmm})
}

// SetTimeZone persists a new zone and reconciles the job
func (s *Scheduler) SetTimeZone(ctx context.Context, guildID, tz string) (models.GuildScheduleConfig, error) {
	return s.Apply(ctx, guildID, models.SchedulePatch{TimeZone: &tz})
}

// SetChannelID persists the target channel and reconciles the job. An empty
// channel removes the job.
func (s *Scheduler) SetChannelID(ctx context.Context, guildID, channelID string) (models.GuildScheduleConfig, error) {
	return s.Apply(ctx, guildID, models.SchedulePatch{ChannelID: &channelID})
}

// SetEnabled persists the enabled flag and reconciles the job
func (s *Scheduler) SetEnabled(ctx context.Context, guildID string, enabled bool) (models.GuildScheduleConfig, error) {
	return s.Apply(ctx, guildID, models.SchedulePatch{Enabled: &enabled})
}

// Apply validates every field of patch, persists it and reconciles the job.
// Nothing is written when any field is invalid.
func (s *Scheduler) Apply(ctx context.Context, guildID string, patch models.SchedulePatch) (models.GuildScheduleConfig, error) {
	if patch.Time != nil {
		hhmm, err := NormalizeClock(*patch.Time)
		if err != nil {
			return models.GuildScheduleConfig{}, err
		}
		patch.Time = &hhmm
	}
	if patch.TimeZone != nil {
		tz := strings.TrimSpace(*patch.TimeZone)
		if err := ValidateTimeZone(tz); err != nil {
			return models.GuildScheduleConfig{}, err
		}
		patch.TimeZone = &tz
	}
	if patch.ChannelID != nil {
		channel := strings.TrimSpace(*patch.ChannelID)
		patch.ChannelID = &channel
	}

	cfg, err := s.store.Update(ctx, guildID, patch)
	if err != nil {
		return cfg, err
	}
	return cfg, s.EnsureJob(ctx, guildID)
}

// Snapshot returns the guild's job, if any
func (s *Scheduler) Snapshot(guildID string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[guildID]
	if !ok {
		return Snapshot{}, false
	}

	snap := Snapshot{
		GuildID:  job.GuildID,
		Time:     job.Time,
		TimeZone: job.TimeZone,
		Spec:     job.Spec,
		Running:  job.running,
	}
	if job.running {
		if sched, err := cron.ParseStandard(job.Spec); err == nil {
			snap.Next = sched.Next(time.Now())
		}
	}
	return snap, true
}

// job returns the live job object for guildID
func (s *Scheduler) job(guildID string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[guildID]
}

// fire runs one scheduled tick against the latest persisted schedule
func (s *Scheduler) fire(guildID string) {
	s.mu.Lock()
	base := s.baseCtx
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, s.runTimeout())
	defer cancel()

	logger := s.logger.WithField("guild", guildID)
	cfg, err := s.store.Get(ctx, guildID)
	if err != nil {
		metrics.ScheduledRunsTotal.WithLabelValues("failed").Inc()
		logger.WithError(err).Error("Failed to read schedule at fire time")
		return
	}
	if !cfg.Enabled || cfg.ChannelID == "" {
		metrics.ScheduledRunsTotal.WithLabelValues("skipped").Inc()
		logger.Warn("Skipping scheduled run because the schedule is disabled or has no channel")
		return
	}

	start := time.Now()
	if err := s.runner.Run(ctx, guildID, cfg.ChannelID); err != nil {
		metrics.ScheduledRunsTotal.WithLabelValues("failed").Inc()
		logger.WithError(err).WithField("duration", time.Since(start).String()).Error("Scheduled run failed")
		return
	}
	metrics.ScheduledRunsTotal.WithLabelValues("sent").Inc()
	logger.WithField("duration", time.Since(start).String()).Info("Scheduled run finished")
}

func (s *Scheduler) runTimeout() time.Duration {
	if s.timeout <= 0 {
		return 10 * time.Minute
	}
	return s.timeout
}

func (s *Scheduler) updateGauge() {
	running, stopped := 0, 0
	for _, job := range s.jobs {
		if job.running {
			running++
		} else {
			stopped++
		}
	}
	metrics.ScheduledJobs.WithLabelValues("running").Set(float64(running))
	metrics.ScheduledJobs.WithLabelValues("stopped").Set(float64(stopped))
}
