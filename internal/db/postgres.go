package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
)

// Load retrieves a guild document
func (s *PostgresStore) Load(ctx context.Context, kind Kind, guildID string, dst interface{}) (bool, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT doc FROM guild_documents
		WHERE kind = $1 AND guild_id = $2
	`, string(kind), guildID).Scan(&doc)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	} else if err != nil {
		return false, apperrors.NewPersistenceError(fmt.Sprintf("Could not read %s document.", kind), err)
	}

	if err := json.Unmarshal(doc, dst); err != nil {
		s.logger.WithFields(logrus.Fields{
			"kind":  kind,
			"guild": guildID,
		}).WithError(err).Warn("Ignoring unreadable document")
		return false, nil
	}
	return true, nil
}

// Save upserts a guild document
func (s *PostgresStore) Save(ctx context.Context, kind Kind, guildID string, doc interface{}) error {
	if err := ValidateGuildID(guildID); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("Could not encode %s document.", kind), err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO guild_documents (kind, guild_id, doc, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (kind, guild_id) DO UPDATE SET
			doc = EXCLUDED.doc,
			updated_at = NOW()
	`, string(kind), guildID, data)
	if err != nil {
		return apperrors.NewPersistenceError(fmt.Sprintf("Could not write %s document.", kind), err)
	}
	return nil
}

// Delete removes a guild document
func (s *PostgresStore) Delete(ctx context.Context, kind Kind, guildID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM guild_documents
		WHERE kind = $1 AND guild_id = $2
	`, string(kind), guildID)
	if err != nil {
		return apperrors.NewPersistenceError(fmt.Sprintf("Could not delete %s document.", kind), err)
	}
	return nil
}

// ListGuilds returns every guild with a document of kind
func (s *PostgresStore) ListGuilds(ctx context.Context, kind Kind) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guild_id FROM guild_documents
		WHERE kind = $1
		ORDER BY guild_id
	`, string(kind))
	if err != nil {
		return nil, apperrors.NewPersistenceError(fmt.Sprintf("Could not list %s documents.", kind), err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan guild id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guild documents: %w", err)
	}

	return ids, nil
}
