package report

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Messenger delivers text to a chat channel
type Messenger interface {
	Send(ctx context.Context, channelID, content string) error
}

// DailyRunner posts the scheduled leaderboard of a guild
type DailyRunner struct {
	reports    *Service
	messenger  Messenger
	windowSpec string
	logger     *logrus.Logger
}

// NewDailyRunner creates a runner posting leaderboards over windowSpec
func NewDailyRunner(reports *Service, messenger Messenger, windowSpec string, logger *logrus.Logger) *DailyRunner {
	return &DailyRunner{
		reports:    reports,
		messenger:  messenger,
		windowSpec: windowSpec,
		logger:     logger,
	}
}

// Run builds the guild's leaderboard and sends it to channelID
func (r *DailyRunner) Run(ctx context.Context, guildID, channelID string) error {
	logger := r.logger.WithFields(logrus.Fields{
		"guild":   guildID,
		"channel": channelID,
	})

	lb, err := r.reports.DailyLeaderboard(ctx, guildID, r.windowSpec)
	if err != nil {
		logger.WithError(err).Error("Failed to build scheduled leaderboard")
		return err
	}

	if err := r.messenger.Send(ctx, channelID, lb.Content); err != nil {
		logger.WithError(err).Error("Failed to send scheduled leaderboard")
		return err
	}

	logger.WithFields(logrus.Fields{
		"org":     lb.Org,
		"authors": len(lb.Rows),
	}).Info("Sent scheduled leaderboard")
	return nil
}
