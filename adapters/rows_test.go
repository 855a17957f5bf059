// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package adapters_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mdhender/tabtxt/adapters"
	"github.com/mdhender/tabtxt/model"
)

// fakeStore records what the adapter persists.
type fakeStore struct {
	cleared  []int64
	rows     []*model.DataRow
	columns  []*model.Column
	rowCount int
	colCount int
	failRow  bool
}

func (f *fakeStore) DeleteDataRows(_ context.Context, datasetID int64) error {
	f.cleared = append(f.cleared, datasetID)
	return nil
}

func (f *fakeStore) InsertDataRow(_ context.Context, dr *model.DataRow) (int64, error) {
	if f.failRow {
		return 0, errors.New("disk full")
	}
	f.rows = append(f.rows, dr)
	return int64(len(f.rows)), nil
}

func (f *fakeStore) InsertColumn(_ context.Context, col *model.Column) (int64, error) {
	f.columns = append(f.columns, col)
	return int64(len(f.columns)), nil
}

func (f *fakeStore) UpdateDatasetCounts(_ context.Context, _ int64, rowCount, colCount int) error {
	f.rowCount, f.colCount = rowCount, colCount
	return nil
}

func TestDatasetConfig(t *testing.T) {
	ds := &model.Dataset{Delimiter: "\t", Comment: ";", HasHeader: false, Trim: true}
	cfg := adapters.DatasetConfig(ds)
	if cfg.Delimiter != '\t' || cfg.Comment != ';' || cfg.HasHeader || !cfg.Trim {
		t.Fatalf("config = %+v", cfg)
	}

	// empty dialect strings fall back to defaults
	cfg = adapters.DatasetConfig(&model.Dataset{})
	if cfg.Delimiter != ',' || cfg.Comment != '#' {
		t.Fatalf("default config = %+v", cfg)
	}
}

func TestRowsToStore(t *testing.T) {
	ctx := context.Background()
	s := &fakeStore{}
	ds := &model.Dataset{ID: 7, Delimiter: ",", Comment: "#", HasHeader: true, Trim: true}

	rows := [][]string{
		{"name", "qty"},
		{"widget", "3"},
		{"gadget", "5", "extra"},
	}
	rowCount, colCount, err := adapters.RowsToStore(ctx, s, ds, rows)
	if err != nil {
		t.Fatalf("rows to store: %v", err)
	}
	if rowCount != 2 || colCount != 3 {
		t.Fatalf("counts = %d, %d, want 2, 3", rowCount, colCount)
	}
	if got, want := s.cleared, []int64{7}; !reflect.DeepEqual(got, want) {
		t.Fatalf("cleared = %v, want %v", got, want)
	}
	if len(s.rows) != 2 {
		t.Fatalf("stored rows = %d, want 2", len(s.rows))
	}
	// header is not stored as data but names the columns
	if got, want := s.rows[0].Fields, []string{"widget", "3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("row 1 = %v, want %v", got, want)
	}
	if got, want := s.columns[0].Name, "name"; got != want {
		t.Fatalf("column 0 = %q, want %q", got, want)
	}
	// the ragged third position is tallied but has no header name
	if got := s.columns[2].Name; got != "" {
		t.Fatalf("column 2 = %q, want empty", got)
	}
	if s.rowCount != 2 || s.colCount != 3 {
		t.Fatalf("dataset counts = %d, %d, want 2, 3", s.rowCount, s.colCount)
	}
}

func TestRowsToStore_InsertError(t *testing.T) {
	ctx := context.Background()
	s := &fakeStore{failRow: true}
	ds := &model.Dataset{ID: 1, HasHeader: false}

	_, _, err := adapters.RowsToStore(ctx, s, ds, [][]string{{"a"}})
	if err == nil {
		t.Fatalf("insert error not surfaced")
	}
}
