package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Kamar-Folarin/commitboard/internal/api"
	"github.com/Kamar-Folarin/commitboard/internal/config"
	"github.com/Kamar-Folarin/commitboard/internal/db"
	"github.com/Kamar-Folarin/commitboard/internal/discord"
	"github.com/Kamar-Folarin/commitboard/internal/github"
	"github.com/Kamar-Folarin/commitboard/internal/identity"
	"github.com/Kamar-Folarin/commitboard/internal/models"
	"github.com/Kamar-Folarin/commitboard/internal/report"
	"github.com/Kamar-Folarin/commitboard/internal/scheduler"
)

const watchDebounce = 500 * time.Millisecond

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot, its HTTP command surface and the scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// stores groups the guild-scoped typed stores over one document store
type stores struct {
	docs      db.DocumentStore
	schedules *db.ScheduleStore
	authMap   *db.IdentityMapStore
	blacklist *db.BlacklistStore
	guilds    *db.GuildInfoStore
}

func openStores(cfg *config.Config, logger *logrus.Logger) (*stores, error) {
	docs, err := retryOpen(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &stores{
		docs:      docs,
		schedules: db.NewScheduleStore(docs, cfg.Schedule, logger),
		authMap:   db.NewIdentityMapStore(docs, logger),
		blacklist: db.NewBlacklistStore(docs, logger),
		guilds:    db.NewGuildInfoStore(docs, logger),
	}, nil
}

// retryOpen gives a starting database a few chances before giving up
func retryOpen(cfg *config.Config, logger *logrus.Logger) (db.DocumentStore, error) {
	var docs db.DocumentStore
	err := retry(3, 5*time.Second, func() error {
		var err error
		docs, err = db.Open(cfg, logger)
		if err != nil {
			logger.WithError(err).WithField("driver", cfg.StoreDriver).Warn("Failed to open store")
		}
		return err
	})
	return docs, err
}

func sourceFactory(cfg *config.Config, logger *logrus.Logger) report.SourceFactory {
	factory := github.NewFactory(cfg.GitHub, cfg.Report.PerPage, logger)
	return func(info models.GitInfo) (report.Source, error) {
		client, err := factory.ForGuild(info)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func runServe(parent context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := openStores(cfg, logger)
	if err != nil {
		return err
	}
	defer st.docs.Close()

	session, err := discord.Open(cfg.DiscordToken, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	messenger := discord.NewMessenger(session, cfg.Messenger, logger)
	names := discord.NewNameResolver(session, logger)
	resolver := identity.NewResolver(st.authMap, st.blacklist, names, cfg.Report.IdentityConcurrency, logger)
	reports := report.NewService(sourceFactory(cfg, logger), st.guilds, resolver, cfg.Report, logger)
	daily := report.NewDailyRunner(reports, messenger, cfg.Schedule.WindowSpec, logger)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(st.schedules, daily, cfg.Schedule, logger)
	if err := sched.ReloadAll(ctx); err != nil {
		logger.WithError(err).Warn("Some schedules could not be loaded")
	}
	sched.Start(ctx)
	defer sched.Stop()

	if files, ok := st.docs.(*db.FileStore); ok && cfg.WatchConfig {
		watcher := db.NewWatcher(files.Dir(db.KindSchedule), sched, watchDebounce, logger)
		if err := watcher.Start(ctx); err != nil {
			logger.WithError(err).Warn("Schedule watcher disabled")
		} else {
			defer watcher.Wait()
		}
	}

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(reports, sched, st.schedules, st.blacklist, st.authMap, st.guilds, logger)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.SetupRouter(handler, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Schedule.RunTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logger.WithError(err).Error("Server failed")
			stop()
			return err
		}
	}
	stop()

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	logger.Info("Server exited properly")
	return nil
}

// retry retries a function up to a certain number of attempts with a delay between attempts
func retry(attempts int, sleep time.Duration, fn func() error) error {
	if err := fn(); err != nil {
		if attempts--; attempts > 0 {
			time.Sleep(sleep)
			return retry(attempts, sleep, fn)
		}
		return err
	}
	return nil
}
