// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mdhender/tabtxt/model"
)

// InsertWork inserts a Work job and returns its assigned ID.
func (s *Store) InsertWork(ctx context.Context, work *model.Work) (int64, error) {
	const query = `
		INSERT INTO work (dataset_id, stage, status, attempt, available_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		work.DatasetID,
		work.Stage,
		work.Status,
		work.Attempt,
		work.AvailableAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert work: %w", err)
	}
	return result.LastInsertId()
}

// ClaimWork atomically claims a queued job for a stage, returning nil if none available.
func (s *Store) ClaimWork(ctx context.Context, stage, workerID string) (*model.Work, error) {
	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339)

	const query = `
		UPDATE work
		SET status = 'running',
		    locked_by = ?,
		    locked_at = ?,
		    started_at = COALESCE(started_at, ?),
		    attempt = attempt + 1
		WHERE id = (
			SELECT id FROM work
			WHERE stage = ?
			  AND status = 'queued'
			  AND available_at <= ?
			ORDER BY available_at
			LIMIT 1
		)
		RETURNING id, dataset_id, stage, status, attempt, available_at,
		          locked_by, locked_at, started_at, finished_at, error_code, error_message
	`

	row := s.db.QueryRowContext(ctx, query, workerID, nowStr, nowStr, stage, nowStr)
	work, err := scanWork(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim work: %w", err)
	}
	return work, nil
}

// FinishWork updates a job's status to ok or failed with optional error info.
func (s *Store) FinishWork(ctx context.Context, id int64, status, errorCode, errorMsg string) error {
	const query = `
		UPDATE work
		SET status = ?,
		    finished_at = ?,
		    error_code = ?,
		    error_message = ?,
		    locked_by = NULL,
		    locked_at = NULL
		WHERE id = ?
	`
	_, err := s.db.ExecContext(ctx, query,
		status,
		time.Now().UTC().Format(time.RFC3339),
		nullString(errorCode),
		nullString(errorMsg),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish work: %w", err)
	}
	return nil
}

// RetryWork resets a failed job to queued so a worker can claim it again.
func (s *Store) RetryWork(ctx context.Context, id int64) error {
	const query = `
		UPDATE work
		SET status = 'queued',
		    available_at = ?,
		    error_code = NULL,
		    error_message = NULL,
		    locked_by = NULL,
		    locked_at = NULL
		WHERE id = ?
		  AND status = 'failed'
	`
	_, err := s.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("retry work: %w", err)
	}
	return nil
}

// WorkByDataset returns all jobs for a dataset, oldest first.
func (s *Store) WorkByDataset(ctx context.Context, datasetID int64) ([]*model.Work, error) {
	const query = `
		SELECT id, dataset_id, stage, status, attempt, available_at,
		       locked_by, locked_at, started_at, finished_at, error_code, error_message
		FROM work
		WHERE dataset_id = ?
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, datasetID)
	if err != nil {
		return nil, fmt.Errorf("query work: %w", err)
	}
	defer rows.Close()

	var jobs []*model.Work
	for rows.Next() {
		work, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work: %w", err)
		}
		jobs = append(jobs, work)
	}
	return jobs, rows.Err()
}

func scanWork(row rowScanner) (*model.Work, error) {
	var work model.Work
	var availableAt string
	var lockedBy, lockedAt, startedAt, finishedAt, errorCode, errorMessage sql.NullString
	if err := row.Scan(
		&work.ID,
		&work.DatasetID,
		&work.Stage,
		&work.Status,
		&work.Attempt,
		&availableAt,
		&lockedBy,
		&lockedAt,
		&startedAt,
		&finishedAt,
		&errorCode,
		&errorMessage,
	); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, availableAt); err == nil {
		work.AvailableAt = t
	}
	work.LockedBy = lockedBy.String
	work.LockedAt = parseNullTime(lockedAt)
	work.StartedAt = parseNullTime(startedAt)
	work.FinishedAt = parseNullTime(finishedAt)
	work.ErrorCode = errorCode.String
	work.ErrorMessage = errorMessage.String
	return &work, nil
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	return &t
}
