package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

// SaveSyncLogs upserts fetched Afalika sync logs into the local cache.
func (s *SQLiteStorage) SaveSyncLogs(ctx context.Context, logs []model.SyncLog) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i := range logs {
		if err := validateSyncLog(&logs[i]); err != nil {
			return fmt.Errorf("sync log at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sync_logs (id, operation, request_data, response_data, error_message, timestamp, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			operation = excluded.operation,
			request_data = excluded.request_data,
			response_data = excluded.response_data,
			error_message = excluded.error_message,
			timestamp = excluded.timestamp,
			fetched_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, log := range logs {
		_, err := stmt.ExecContext(ctx,
			log.ID,
			log.Operation,
			nullableRaw(log.RequestData),
			nullableRaw(log.ResponseData),
			log.ErrorMessage,
			log.Timestamp.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to save sync log %s: %w", log.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sync logs: %w", err)
	}
	return nil
}

// GetSyncLogs returns the most recent cached sync logs, newest first.
// A limit of zero or less returns every cached log.
func (s *SQLiteStorage) GetSyncLogs(ctx context.Context, limit int) ([]model.SyncLog, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, operation, request_data, response_data, error_message, timestamp
		FROM sync_logs
		ORDER BY timestamp DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []model.SyncLog
	for rows.Next() {
		var (
			log          model.SyncLog
			request      sql.NullString
			response     sql.NullString
			errorMessage sql.NullString
		)
		if err := rows.Scan(&log.ID, &log.Operation, &request, &response, &errorMessage, &log.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan sync log: %w", err)
		}
		if request.Valid {
			log.RequestData = []byte(request.String)
		}
		if response.Valid {
			log.ResponseData = []byte(response.String)
		}
		log.ErrorMessage = errorMessage.String
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync logs: %w", err)
	}
	return logs, nil
}

func nullableRaw(raw []byte) sql.NullString {
	if len(raw) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}
