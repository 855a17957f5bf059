// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mdhender/tabtxt/model"
	"github.com/spf13/afero"
)

// IngestService handles file ingestion into the pipeline.
type IngestService struct {
	store   IngestStore
	dataDir string
	fs      afero.Fs
}

// IngestStore defines the store operations needed by IngestService.
type IngestStore interface {
	InsertUploadBatch(ctx context.Context, batch *model.UploadBatch) (int64, error)
	GetDatasetBySHA256(ctx context.Context, sha256 string) (*model.Dataset, error)
	InsertDataset(ctx context.Context, ds *model.Dataset) (int64, error)
	InsertWork(ctx context.Context, work *model.Work) (int64, error)
}

// NewIngestService creates a new IngestService.
func NewIngestService(store IngestStore, dataDir string) *IngestService {
	return &IngestService{
		store:   store,
		dataDir: dataDir,
		fs:      afero.NewOsFs(),
	}
}

// SetFS sets the filesystem for testing.
func (s *IngestService) SetFS(fs afero.Fs) {
	s.fs = fs
}

// IngestRequest contains the parameters for ingesting a file.
type IngestRequest struct {
	Filename  string // original filename
	Data      []byte // file content
	Delimiter byte   // 0 means infer from the extension
	Comment   byte   // 0 means '#'
	HasHeader bool
	Trim      bool
}

// IngestResult contains the result of an ingest operation.
type IngestResult struct {
	DatasetID int64
	WorkID    int64
	Duplicate bool // true if file was already ingested (idempotent no-op)
}

// NewBatch inserts an upload batch for the given creator and returns its ID.
func (s *IngestService) NewBatch(ctx context.Context, createdBy string) (int64, error) {
	id, err := s.store.InsertUploadBatch(ctx, &model.UploadBatch{
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return 0, &ErrDatabase{Op: "insert batch", Err: err}
	}
	return id, nil
}

// IngestFile ingests a single file into the pipeline: the raw bytes are
// written under the data directory, a dataset row is inserted, and a
// parse job is queued. Returns IngestResult with Duplicate=true if the
// same content was already ingested (idempotent no-op).
func (s *IngestService) IngestFile(ctx context.Context, batchID int64, req IngestRequest) (*IngestResult, error) {
	if len(req.Data) == 0 {
		return nil, &ErrBadInput{Name: req.Filename, Msg: "empty file"}
	}

	hash := sha256.Sum256(req.Data)
	hashStr := hex.EncodeToString(hash[:])

	existing, err := s.store.GetDatasetBySHA256(ctx, hashStr)
	if err != nil {
		return nil, &ErrDatabase{Op: "check duplicate", Err: err}
	}
	if existing != nil {
		return &IngestResult{
			DatasetID: existing.ID,
			Duplicate: true,
		}, nil
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	stdName := sanitizeFilename(req.Filename)

	fsPath := filepath.Join("batches", fmt.Sprintf("%d", batchID), stdName)
	fullPath := filepath.Join(s.dataDir, fsPath)

	if err := s.fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, &ErrWriteFile{Op: "mkdir", Path: filepath.Dir(fullPath), Err: err}
	}
	if err := afero.WriteFile(s.fs, fullPath, req.Data, 0644); err != nil {
		return nil, &ErrWriteFile{Op: "write", Path: fullPath, Err: err}
	}

	delimiter := req.Delimiter
	if delimiter == 0 {
		delimiter = inferDelimiter(ext)
	}
	comment := req.Comment
	if comment == 0 {
		comment = '#'
	}

	ds := &model.Dataset{
		Name:      stdName,
		SHA256:    hashStr,
		Mime:      detectMime(ext),
		FsPath:    fsPath,
		BatchID:   &batchID,
		CreatedAt: time.Now().UTC(),
		Delimiter: string(delimiter),
		Comment:   string(comment),
		HasHeader: req.HasHeader,
		Trim:      req.Trim,
	}
	dsID, err := s.store.InsertDataset(ctx, ds)
	if err != nil {
		return nil, &ErrDatabase{Op: "insert dataset", Err: err}
	}

	workID, err := s.store.InsertWork(ctx, &model.Work{
		DatasetID:   dsID,
		Stage:       model.WorkStageParse,
		Status:      model.WorkStatusQueued,
		Attempt:     0,
		AvailableAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, &ErrDatabase{Op: "insert work", Err: err}
	}

	return &IngestResult{
		DatasetID: dsID,
		WorkID:    workID,
	}, nil
}

// sanitizeFilename keeps the base name and replaces anything outside a
// conservative character set. Uploaded names are untrusted.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "upload.txt"
	}
	return sb.String()
}

func inferDelimiter(ext string) byte {
	if ext == ".tsv" {
		return '\t'
	}
	return ','
}

func detectMime(ext string) string {
	switch ext {
	case ".csv":
		return "text/csv"
	case ".tsv":
		return "text/tab-separated-values"
	default:
		return "text/plain"
	}
}
