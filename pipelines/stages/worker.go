// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mdhender/tabtxt"
	"github.com/mdhender/tabtxt/adapters"
	"github.com/mdhender/tabtxt/model"
	"github.com/spf13/afero"
)

// WorkerService claims and executes pipeline jobs.
type WorkerService struct {
	store    WorkerStore
	dataDir  string
	workerID string
	fs       afero.Fs
}

// WorkerStore defines the store operations needed by WorkerService.
type WorkerStore interface {
	ClaimWork(ctx context.Context, stage, workerID string) (*model.Work, error)
	FinishWork(ctx context.Context, id int64, status, errorCode, errorMsg string) error
	GetDataset(ctx context.Context, id int64) (*model.Dataset, error)

	// For the parse stage - persist extracted rows
	adapters.RowStore
}

// NewWorkerService creates a new WorkerService.
func NewWorkerService(store WorkerStore, dataDir, workerID string) *WorkerService {
	if workerID == "" {
		hostname, _ := os.Hostname()
		workerID = fmt.Sprintf("%s:%d", hostname, os.Getpid())
	}
	return &WorkerService{
		store:    store,
		dataDir:  dataDir,
		workerID: workerID,
		fs:       afero.NewOsFs(),
	}
}

// SetFS sets the filesystem for testing.
func (w *WorkerService) SetFS(fs afero.Fs) {
	w.fs = fs
}

// WorkResult represents the outcome of executing a job.
type WorkResult struct {
	Success      bool
	ErrorCode    string
	ErrorMessage string
}

// ClaimJob atomically claims a queued job for the given stage.
// Returns nil if no work is available.
func (w *WorkerService) ClaimJob(ctx context.Context, stage string) (*model.Work, error) {
	return w.store.ClaimWork(ctx, stage, w.workerID)
}

// ExecuteParse reads the stored file for a dataset, tokenizes it with
// the dataset's dialect, and persists rows and column metadata. The
// tokenizer itself cannot fail; the failure modes here are file I/O and
// the database.
func (w *WorkerService) ExecuteParse(ctx context.Context, job *model.Work, ds *model.Dataset) error {
	fullPath := filepath.Join(w.dataDir, ds.FsPath)

	data, err := afero.ReadFile(w.fs, fullPath)
	if err != nil {
		return &ErrWriteFile{Op: "read", Path: fullPath, Err: err}
	}

	rows := tabtxt.Tokenize(string(data), adapters.DatasetConfig(ds))

	rowCount, colCount, err := adapters.RowsToStore(ctx, w.store, ds, rows)
	if err != nil {
		return &ErrDatabase{Op: "persist parse result", Err: err}
	}
	log.Printf("worker: %s: dataset %d: %d rows, %d columns\n", w.workerID, ds.ID, rowCount, colCount)

	return nil
}

// FinishJob marks a job as completed (ok or failed) based on the result.
func (w *WorkerService) FinishJob(ctx context.Context, job *model.Work, result WorkResult) error {
	status := model.WorkStatusOk
	errorCode := ""
	errorMsg := ""

	if !result.Success {
		status = model.WorkStatusFailed
		errorCode = result.ErrorCode
		errorMsg = result.ErrorMessage
	}

	return w.store.FinishWork(ctx, job.ID, status, errorCode, errorMsg)
}

// RunOnce claims one parse job and executes it to completion, reporting
// whether a job was found. This is the loop body for both the CLI import
// command and the upload handler.
func (w *WorkerService) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.ClaimJob(ctx, model.WorkStageParse)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	ds, err := w.store.GetDataset(ctx, job.DatasetID)
	if err == nil && ds == nil {
		err = &ErrDatabase{Op: "get dataset", Err: fmt.Errorf("dataset %d not found", job.DatasetID)}
	}
	if err == nil {
		err = w.ExecuteParse(ctx, job, ds)
	}

	result := WorkResult{Success: err == nil}
	if err != nil {
		result.ErrorCode = ErrorCode(err)
		result.ErrorMessage = err.Error()
	}
	if finishErr := w.FinishJob(ctx, job, result); finishErr != nil {
		return true, finishErr
	}
	return true, err
}

// Drain runs jobs until the queue is empty, returning the number of
// jobs executed and the first error encountered (the drain continues
// past failed jobs; they are marked failed in the store).
func (w *WorkerService) Drain(ctx context.Context) (int, error) {
	var firstErr error
	count := 0
	for {
		found, err := w.RunOnce(ctx)
		if !found {
			return count, firstErr
		}
		count++
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
}
