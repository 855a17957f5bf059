// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages_test

import (
	"context"
	"testing"

	"github.com/mdhender/tabtxt/pipelines/stages"
	store "github.com/mdhender/tabtxt/stores/sqlite"
	"github.com/spf13/afero"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore()
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestIngestFile(t *testing.T) {
	ctx := context.Background()
	sqlStore := newTestStore(t)
	fs := afero.NewMemMapFs()

	ingest := stages.NewIngestService(sqlStore, "data")
	ingest.SetFS(fs)

	batchID, err := ingest.NewBatch(ctx, "mdhender")
	if err != nil {
		t.Fatalf("new batch: %v", err)
	}

	req := stages.IngestRequest{
		Filename:  "orders (final).csv",
		Data:      []byte("sku,qty\nA-1,3\nB-2,5\n"),
		HasHeader: true,
		Trim:      true,
	}
	result, err := ingest.IngestFile(ctx, batchID, req)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Duplicate {
		t.Fatalf("first ingest flagged duplicate")
	}
	if result.DatasetID == 0 || result.WorkID == 0 {
		t.Fatalf("result = %+v, want dataset and work ids", result)
	}

	ds, err := sqlStore.GetDataset(ctx, result.DatasetID)
	if err != nil {
		t.Fatalf("get dataset: %v", err)
	}
	if ds == nil {
		t.Fatalf("dataset %d not found", result.DatasetID)
	}
	// unsafe characters in the upload name are replaced
	if got, want := ds.Name, "orders__final_.csv"; got != want {
		t.Fatalf("name = %q, want %q", got, want)
	}
	if got, want := ds.Delimiter, ","; got != want {
		t.Fatalf("delimiter = %q, want %q", got, want)
	}

	// the raw bytes landed under the data dir
	data, err := afero.ReadFile(fs, "data/"+ds.FsPath)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != string(req.Data) {
		t.Fatalf("stored bytes differ from upload")
	}

	// re-ingesting the same content is an idempotent no-op
	dup, err := ingest.IngestFile(ctx, batchID, req)
	if err != nil {
		t.Fatalf("re-ingest: %v", err)
	}
	if !dup.Duplicate {
		t.Fatalf("re-ingest not flagged duplicate")
	}
	if dup.DatasetID != result.DatasetID {
		t.Fatalf("duplicate dataset id = %d, want %d", dup.DatasetID, result.DatasetID)
	}

	// drain the queued parse job so later tests see an empty queue
	worker := stages.NewWorkerService(sqlStore, "data", "test-worker")
	worker.SetFS(fs)
	count, err := worker.Drain(ctx)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if count != 1 {
		t.Fatalf("drained %d jobs, want 1", count)
	}
}

func TestIngestFile_TSVDelimiter(t *testing.T) {
	ctx := context.Background()
	sqlStore := newTestStore(t)
	fs := afero.NewMemMapFs()

	ingest := stages.NewIngestService(sqlStore, "data")
	ingest.SetFS(fs)

	batchID, err := ingest.NewBatch(ctx, "")
	if err != nil {
		t.Fatalf("new batch: %v", err)
	}
	result, err := ingest.IngestFile(ctx, batchID, stages.IngestRequest{
		Filename:  "items.tsv",
		Data:      []byte("a\tb\n1\t2\n"),
		HasHeader: true,
		Trim:      true,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	ds, err := sqlStore.GetDataset(ctx, result.DatasetID)
	if err != nil || ds == nil {
		t.Fatalf("get dataset: %v, %v", ds, err)
	}
	if got, want := ds.Delimiter, "\t"; got != want {
		t.Fatalf("delimiter = %q, want tab", got)
	}
	if got, want := ds.Mime, "text/tab-separated-values"; got != want {
		t.Fatalf("mime = %q, want %q", got, want)
	}

	worker := stages.NewWorkerService(sqlStore, "data", "test-worker")
	worker.SetFS(fs)
	if _, err := worker.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
}

func TestIngestFile_EmptyUpload(t *testing.T) {
	ctx := context.Background()
	sqlStore := newTestStore(t)

	ingest := stages.NewIngestService(sqlStore, "data")
	ingest.SetFS(afero.NewMemMapFs())

	batchID, err := ingest.NewBatch(ctx, "")
	if err != nil {
		t.Fatalf("new batch: %v", err)
	}
	_, err = ingest.IngestFile(ctx, batchID, stages.IngestRequest{Filename: "empty.csv"})
	if err == nil {
		t.Fatalf("ingest of empty file succeeded, want error")
	}
	if got, want := stages.ErrorCode(err), stages.ErrCodeBadInput; got != want {
		t.Fatalf("error code = %q, want %q", got, want)
	}
}
