package db

import (
	"context"

	"github.com/sirupsen/logrus"
)

// loadOrCreate loads a document into dst. When the document is missing or
// unreadable, init resets dst to its default and the default is written
// back. Read failures never surface; a failed write of the default is only
// logged.
func loadOrCreate(ctx context.Context, docs DocumentStore, logger *logrus.Logger, kind Kind, guildID string, dst interface{}, init func()) error {
	if err := ValidateGuildID(guildID); err != nil {
		return err
	}

	found, err := docs.Load(ctx, kind, guildID, dst)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"kind":  kind,
			"guild": guildID,
		}).WithError(err).Warn("Treating unreadable document as absent")
	}
	if found && err == nil {
		return nil
	}

	init()
	if err := docs.Save(ctx, kind, guildID, dst); err != nil {
		logger.WithFields(logrus.Fields{
			"kind":  kind,
			"guild": guildID,
		}).WithError(err).Error("Failed to create default document")
	}
	return nil
}
