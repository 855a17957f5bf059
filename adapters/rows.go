// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package adapters bridges the tokenizer's output to the model store:
// tokenized rows go in, column metadata and persisted data rows come out.
package adapters

import (
	"context"
	"fmt"

	"github.com/mdhender/tabtxt"
	"github.com/mdhender/tabtxt/model"
	"github.com/mdhender/tabtxt/walkers/tally"
)

// RowStore defines the store operations needed to persist parsed rows.
type RowStore interface {
	DeleteDataRows(ctx context.Context, datasetID int64) error
	InsertDataRow(ctx context.Context, dr *model.DataRow) (int64, error)
	InsertColumn(ctx context.Context, col *model.Column) (int64, error)
	UpdateDatasetCounts(ctx context.Context, id int64, rowCount, colCount int) error
}

// DatasetConfig converts a dataset's stored dialect into a ParseConfig.
// Missing dialect characters fall back to the defaults.
func DatasetConfig(ds *model.Dataset) tabtxt.ParseConfig {
	cfg := tabtxt.DefaultConfig()
	if ds.Delimiter != "" {
		cfg.Delimiter = ds.Delimiter[0]
	}
	if ds.Comment != "" {
		cfg.Comment = ds.Comment[0]
	}
	cfg.HasHeader = ds.HasHeader
	cfg.Trim = ds.Trim
	return cfg
}

// RowsToStore persists tokenized rows for a dataset: any rows from a
// previous parse are removed, column metadata is tallied and inserted,
// data rows are inserted (header row excluded), and the dataset counts
// are updated. Returns the stored row and column counts.
func RowsToStore(ctx context.Context, s RowStore, ds *model.Dataset, rows [][]string) (int, int, error) {
	cfg := DatasetConfig(ds)

	if err := s.DeleteDataRows(ctx, ds.ID); err != nil {
		return 0, 0, fmt.Errorf("clear rows: %w", err)
	}

	columns := tally.Walk(rows, cfg)
	for _, col := range columns {
		_, err := s.InsertColumn(ctx, &model.Column{
			DatasetID: ds.ID,
			Position:  col.Position,
			Name:      col.Name,
			Rows:      col.Rows,
			Empty:     col.Empty,
			Numeric:   col.Numeric,
			MinWidth:  col.MinWidth,
			MaxWidth:  col.MaxWidth,
		})
		if err != nil {
			return 0, 0, fmt.Errorf("insert column %d: %w", col.Position, err)
		}
	}

	data := rows
	if cfg.HasHeader && len(rows) > 0 {
		data = rows[1:]
	}
	for n, row := range data {
		_, err := s.InsertDataRow(ctx, &model.DataRow{
			DatasetID: ds.ID,
			RowNo:     n + 1,
			Fields:    row,
		})
		if err != nil {
			return 0, 0, fmt.Errorf("insert row %d: %w", n+1, err)
		}
	}

	if err := s.UpdateDatasetCounts(ctx, ds.ID, len(data), len(columns)); err != nil {
		return 0, 0, fmt.Errorf("update counts: %w", err)
	}

	return len(data), len(columns), nil
}
