// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mdhender/tabtxt/model"
)

// InsertUploadBatch inserts an UploadBatch and returns its assigned ID.
func (s *Store) InsertUploadBatch(ctx context.Context, batch *model.UploadBatch) (int64, error) {
	const query = `
		INSERT INTO upload_batches (created_by, created_at)
		VALUES (?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		nullString(batch.CreatedBy),
		batch.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert upload_batch: %w", err)
	}
	return result.LastInsertId()
}

// InsertDataset inserts a Dataset and returns its assigned ID.
func (s *Store) InsertDataset(ctx context.Context, ds *model.Dataset) (int64, error) {
	const query = `
		INSERT INTO datasets (name, sha256, mime, fs_path, batch_id, created_at,
		                      delimiter, comment, has_header, trim)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var batchID sql.NullInt64
	if ds.BatchID != nil {
		batchID = sql.NullInt64{Int64: *ds.BatchID, Valid: true}
	}
	result, err := s.db.ExecContext(ctx, query,
		ds.Name,
		ds.SHA256,
		ds.Mime,
		ds.FsPath,
		batchID,
		ds.CreatedAt.Format(time.RFC3339),
		ds.Delimiter,
		ds.Comment,
		ds.HasHeader,
		ds.Trim,
	)
	if err != nil {
		return 0, fmt.Errorf("insert dataset: %w", err)
	}
	return result.LastInsertId()
}

// GetDataset retrieves a Dataset by ID. Returns nil, nil when not found.
func (s *Store) GetDataset(ctx context.Context, id int64) (*model.Dataset, error) {
	return s.getDataset(ctx, `WHERE id = ?`, id)
}

// GetDatasetBySHA256 retrieves a Dataset by content hash, for upload
// deduplication. Returns nil, nil when not found.
func (s *Store) GetDatasetBySHA256(ctx context.Context, sha256 string) (*model.Dataset, error) {
	return s.getDataset(ctx, `WHERE sha256 = ?`, sha256)
}

func (s *Store) getDataset(ctx context.Context, where string, arg any) (*model.Dataset, error) {
	query := `
		SELECT id, name, sha256, mime, fs_path, batch_id, created_at,
		       delimiter, comment, has_header, trim, row_count, col_count
		FROM datasets
	` + where
	row := s.db.QueryRowContext(ctx, query, arg)
	ds, err := scanDataset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	return ds, nil
}

// ListDatasets returns all datasets, newest first.
func (s *Store) ListDatasets(ctx context.Context) ([]*model.Dataset, error) {
	const query = `
		SELECT id, name, sha256, mime, fs_path, batch_id, created_at,
		       delimiter, comment, has_header, trim, row_count, col_count
		FROM datasets
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []*model.Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		datasets = append(datasets, ds)
	}
	return datasets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (*model.Dataset, error) {
	var ds model.Dataset
	var batchID sql.NullInt64
	var createdAt string
	if err := row.Scan(
		&ds.ID,
		&ds.Name,
		&ds.SHA256,
		&ds.Mime,
		&ds.FsPath,
		&batchID,
		&createdAt,
		&ds.Delimiter,
		&ds.Comment,
		&ds.HasHeader,
		&ds.Trim,
		&ds.RowCount,
		&ds.ColCount,
	); err != nil {
		return nil, err
	}
	if batchID.Valid {
		ds.BatchID = &batchID.Int64
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		ds.CreatedAt = t
	}
	return &ds, nil
}

// UpdateDatasetCounts records the row and column counts after parsing.
func (s *Store) UpdateDatasetCounts(ctx context.Context, id int64, rowCount, colCount int) error {
	const query = `
		UPDATE datasets SET row_count = ?, col_count = ? WHERE id = ?
	`
	if _, err := s.db.ExecContext(ctx, query, rowCount, colCount, id); err != nil {
		return fmt.Errorf("update dataset counts: %w", err)
	}
	return nil
}

// DeleteDataset removes a dataset; rows, columns, and work cascade.
func (s *Store) DeleteDataset(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return nil
}

// InsertDataRow inserts one parsed row. Fields are stored as a JSON
// array so ragged rows round-trip without schema changes.
func (s *Store) InsertDataRow(ctx context.Context, dr *model.DataRow) (int64, error) {
	fields, err := json.Marshal(dr.Fields)
	if err != nil {
		return 0, fmt.Errorf("marshal fields: %w", err)
	}
	const query = `
		INSERT INTO data_rows (dataset_id, row_no, fields)
		VALUES (?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, dr.DatasetID, dr.RowNo, string(fields))
	if err != nil {
		return 0, fmt.Errorf("insert data_row: %w", err)
	}
	return result.LastInsertId()
}

// DeleteDataRows removes all parsed rows and columns for a dataset, so a
// re-parse starts clean.
func (s *Store) DeleteDataRows(ctx context.Context, datasetID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM data_rows WHERE dataset_id = ?`, datasetID); err != nil {
		return fmt.Errorf("delete data_rows: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM columns WHERE dataset_id = ?`, datasetID); err != nil {
		return fmt.Errorf("delete columns: %w", err)
	}
	return nil
}

// DataRowsByDataset returns parsed rows for a dataset ordered by row
// number, with limit/offset paging. A limit of 0 means no limit.
func (s *Store) DataRowsByDataset(ctx context.Context, datasetID int64, limit, offset int) ([]*model.DataRow, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	const query = `
		SELECT id, dataset_id, row_no, fields
		FROM data_rows
		WHERE dataset_id = ?
		ORDER BY row_no
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, datasetID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query data_rows: %w", err)
	}
	defer rows.Close()

	var dataRows []*model.DataRow
	for rows.Next() {
		var dr model.DataRow
		var fields string
		if err := rows.Scan(&dr.ID, &dr.DatasetID, &dr.RowNo, &fields); err != nil {
			return nil, fmt.Errorf("scan data_row: %w", err)
		}
		if err := json.Unmarshal([]byte(fields), &dr.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal fields: %w", err)
		}
		dataRows = append(dataRows, &dr)
	}
	return dataRows, rows.Err()
}

// InsertColumn inserts per-dataset column metadata.
func (s *Store) InsertColumn(ctx context.Context, col *model.Column) (int64, error) {
	const query = `
		INSERT INTO columns (dataset_id, position, name, rows, empty, numeric, min_width, max_width)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		col.DatasetID,
		col.Position,
		col.Name,
		col.Rows,
		col.Empty,
		col.Numeric,
		col.MinWidth,
		col.MaxWidth,
	)
	if err != nil {
		return 0, fmt.Errorf("insert column: %w", err)
	}
	return result.LastInsertId()
}

// ColumnsByDataset returns column metadata ordered by position.
func (s *Store) ColumnsByDataset(ctx context.Context, datasetID int64) ([]*model.Column, error) {
	const query = `
		SELECT id, dataset_id, position, name, rows, empty, numeric, min_width, max_width
		FROM columns
		WHERE dataset_id = ?
		ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query, datasetID)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []*model.Column
	for rows.Next() {
		var col model.Column
		if err := rows.Scan(
			&col.ID,
			&col.DatasetID,
			&col.Position,
			&col.Name,
			&col.Rows,
			&col.Empty,
			&col.Numeric,
			&col.MinWidth,
			&col.MaxWidth,
		); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, &col)
	}
	return columns, rows.Err()
}
