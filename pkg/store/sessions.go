package store

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
)

const defaultSessionHistoryLimit = 50

// AppendInteraction appends an interaction to a session's history,
// creating the session if it does not yet exist. A session is a UUID v4
// with an append-only list of interactions.
func (c *Client) AppendInteraction(ctx context.Context, sessionID string, sessionTTL time.Time, interaction model.SessionInteraction) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return queryFailed("sessions", map[string]any{"session_id": sessionID}, err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsertSession = `
		INSERT INTO sessions (session_id, ttl) VALUES ($1, $2)
		ON CONFLICT (session_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, upsertSession, sessionID, sessionTTL); err != nil {
		return queryFailed("sessions", map[string]any{"session_id": sessionID}, err)
	}

	const insertInteraction = `
		INSERT INTO session_interactions
			(session_id, timestamp_ms, request_id, prompt, response, status, execution_time_ms, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := tx.ExecContext(ctx, insertInteraction,
		sessionID, interaction.TimestampMS, interaction.RequestID, interaction.Prompt,
		interaction.Response, interaction.Status, interaction.ExecutionTimeMS, nullableString(interaction.ErrorMessage),
	); err != nil {
		return queryFailed("session_interactions", map[string]any{"session_id": sessionID}, err)
	}

	if err := tx.Commit(); err != nil {
		return queryFailed("sessions", map[string]any{"session_id": sessionID}, err)
	}
	return nil
}

// GetSession retrieves a session's interaction history, sorted by
// timestamp descending and bounded by limit (default 50).
func (c *Client) GetSession(ctx context.Context, sessionID string, limit int) (*model.SessionRecord, error) {
	if limit <= 0 {
		limit = defaultSessionHistoryLimit
	}
	params := map[string]any{"session_id": sessionID}

	var ttl time.Time
	err := c.db.QueryRowContext(ctx, `SELECT ttl FROM sessions WHERE session_id = $1`, sessionID).Scan(&ttl)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, notFound("sessions", params)
	}
	if err != nil {
		return nil, queryFailed("sessions", params, err)
	}

	const q = `
		SELECT timestamp_ms, request_id, prompt, response, status, execution_time_ms, error_message
		FROM session_interactions
		WHERE session_id = $1
		ORDER BY timestamp_ms DESC
		LIMIT $2`
	rows, err := c.db.QueryContext(ctx, q, sessionID, limit)
	if err != nil {
		return nil, queryFailed("session_interactions", params, err)
	}
	defer rows.Close()

	var interactions []model.SessionInteraction
	for rows.Next() {
		var (
			it      model.SessionInteraction
			status  string
			errMsg  stdsql.NullString
		)
		if err := rows.Scan(&it.TimestampMS, &it.RequestID, &it.Prompt, &it.Response, &status, &it.ExecutionTimeMS, &errMsg); err != nil {
			return nil, queryFailed("session_interactions", params, err)
		}
		it.Status = config.RequestStatus(status)
		it.ErrorMessage = errMsg.String
		interactions = append(interactions, it)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("session_interactions", params, err)
	}

	return &model.SessionRecord{SessionID: sessionID, Interactions: interactions, TTL: ttl}, nil
}
