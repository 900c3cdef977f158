package store

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
)

// CreateRequest persists a new request record with status=processing.
// The assessment payload is stored as JSONB — a textual
// encoding, never a binary float column — satisfying the "no floating
// point at rest" constraint without a dedicated decimal type.
func (c *Client) CreateRequest(ctx context.Context, req *model.RequestRecord) error {
	const q = `
		INSERT INTO requests (request_id, status, prompt, session_id, created_at, updated_at, ttl)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := c.db.ExecContext(ctx, q,
		req.RequestID, req.Status, req.Prompt, nullableString(req.SessionID),
		req.CreatedAt, req.UpdatedAt, req.TTL,
	)
	if err != nil {
		return queryFailed("requests", map[string]any{"request_id": req.RequestID}, err)
	}
	return nil
}

// GetRequest retrieves a request record by id.
func (c *Client) GetRequest(ctx context.Context, requestID string) (*model.RequestRecord, error) {
	const q = `
		SELECT request_id, status, prompt, session_id, created_at, updated_at, ttl,
		       assessment, execution_time_ms, error, error_code
		FROM requests WHERE request_id = $1`
	params := map[string]any{"request_id": requestID}

	var (
		rec           model.RequestRecord
		sessionID     stdsql.NullString
		assessmentRaw []byte
		execTimeMS    stdsql.NullInt64
		errMsg        stdsql.NullString
		errCode       stdsql.NullString
	)
	err := c.db.QueryRowContext(ctx, q, requestID).Scan(
		&rec.RequestID, &rec.Status, &rec.Prompt, &sessionID, &rec.CreatedAt, &rec.UpdatedAt, &rec.TTL,
		&assessmentRaw, &execTimeMS, &errMsg, &errCode,
	)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, notFound("requests", params)
	}
	if err != nil {
		return nil, queryFailed("requests", params, err)
	}

	rec.SessionID = sessionID.String
	rec.ExecutionTimeMS = execTimeMS.Int64
	rec.Error = errMsg.String
	rec.ErrorCode = config.ErrorCode(errCode.String)
	if len(assessmentRaw) > 0 {
		var out model.ArbitratorOutput
		if err := json.Unmarshal(assessmentRaw, &out); err != nil {
			return nil, queryFailed("requests", params, err)
		}
		rec.Assessment = &out
	}
	return &rec, nil
}

// CompleteRequest transitions a request to status=complete. Status
// transitions are monotonic: processing, then exactly one terminal write.
func (c *Client) CompleteRequest(ctx context.Context, requestID string, assessment *model.ArbitratorOutput, executionTimeMS int64) error {
	payload, err := json.Marshal(assessment)
	if err != nil {
		return queryFailed("requests", map[string]any{"request_id": requestID}, err)
	}
	const q = `
		UPDATE requests SET status = $2, assessment = $3, execution_time_ms = $4, updated_at = $5
		WHERE request_id = $1`
	res, err := c.db.ExecContext(ctx, q, requestID, config.RequestStatusComplete, payload, executionTimeMS, time.Now().UTC())
	if err != nil {
		return queryFailed("requests", map[string]any{"request_id": requestID}, err)
	}
	return checkRowAffected(res, "requests", requestID)
}

// ErrorRequest transitions a request to status=error.
func (c *Client) ErrorRequest(ctx context.Context, requestID string, errCode config.ErrorCode, message string) error {
	const q = `
		UPDATE requests SET status = $2, error = $3, error_code = $4, updated_at = $5
		WHERE request_id = $1`
	res, err := c.db.ExecContext(ctx, q, requestID, config.RequestStatusError, message, errCode, time.Now().UTC())
	if err != nil {
		return queryFailed("requests", map[string]any{"request_id": requestID}, err)
	}
	return checkRowAffected(res, "requests", requestID)
}

func checkRowAffected(res stdsql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return queryFailed(entity, map[string]any{"id": id}, err)
	}
	if n == 0 {
		return notFound(entity, map[string]any{"id": id})
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
