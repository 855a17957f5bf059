package model

import (
	"time"
)

// Dataset is one ingested tabular file: the raw bytes on disk plus the
// dialect used to parse it and the counts recorded after parsing.
type Dataset struct {
	ID        int64     `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"` // original filename (sanitized)
	SHA256    string    `json:"sha256"    db:"sha256"`
	Mime      string    `json:"mime"      db:"mime"`
	FsPath    string    `json:"fsPath"    db:"fs_path"` // relative to the data directory
	BatchID   *int64    `json:"batchId,omitempty" db:"batch_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// dialect
	Delimiter string `json:"delimiter" db:"delimiter"` // single character
	Comment   string `json:"comment"   db:"comment"`   // single character
	HasHeader bool   `json:"hasHeader" db:"has_header"`
	Trim      bool   `json:"trim"      db:"trim"`

	// set once the parse stage has run
	RowCount int `json:"rowCount" db:"row_count"`
	ColCount int `json:"colCount" db:"col_count"`
}

// DataRow is one parsed row of a dataset. Fields are stored in sqlite as
// a JSON array so ragged rows round-trip without schema changes.
type DataRow struct {
	ID        int64    `json:"id"        db:"id"`
	DatasetID int64    `json:"datasetId" db:"dataset_id"`
	RowNo     int      `json:"rowNo"     db:"row_no"` // 1-based, data rows only
	Fields    []string `json:"fields"    db:"fields"`
}

// Column is per-dataset column metadata, filled in by the tally walker
// during the parse stage.
type Column struct {
	ID        int64  `json:"id"        db:"id"`
	DatasetID int64  `json:"datasetId" db:"dataset_id"`
	Position  int    `json:"position"  db:"position"` // 0-based
	Name      string `json:"name"      db:"name"`     // header name or synthesized
	Rows      int    `json:"rows"      db:"rows"`
	Empty     int    `json:"empty"     db:"empty"`
	Numeric   int    `json:"numeric"   db:"numeric"`
	MinWidth  int    `json:"minWidth"  db:"min_width"`
	MaxWidth  int    `json:"maxWidth"  db:"max_width"`
}

// UploadBatch groups the files from one upload action.
type UploadBatch struct {
	ID        int64     `json:"id"        db:"id"`
	CreatedBy string    `json:"createdBy" db:"created_by"` // user handle, empty for CLI imports
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Work stage constants.
const (
	WorkStageParse = "parse"
)

// Work status constants.
const (
	WorkStatusQueued  = "queued"
	WorkStatusRunning = "running"
	WorkStatusOk      = "ok"
	WorkStatusFailed  = "failed"
)

// Work is one pipeline job row. Jobs are claimed atomically by workers;
// a failed job can be retried by resetting it to queued.
type Work struct {
	ID           int64      `json:"id"           db:"id"`
	DatasetID    int64      `json:"datasetId"    db:"dataset_id"`
	Stage        string     `json:"stage"        db:"stage"`
	Status       string     `json:"status"       db:"status"`
	Attempt      int        `json:"attempt"      db:"attempt"`
	AvailableAt  time.Time  `json:"availableAt"  db:"available_at"`
	LockedBy     string     `json:"lockedBy"     db:"locked_by"`
	LockedAt     *time.Time `json:"lockedAt"     db:"locked_at"`
	StartedAt    *time.Time `json:"startedAt"    db:"started_at"`
	FinishedAt   *time.Time `json:"finishedAt"   db:"finished_at"`
	ErrorCode    string     `json:"errorCode"    db:"error_code"`
	ErrorMessage string     `json:"errorMessage" db:"error_message"`
}

// User is a web UI account. Passwords are stored as bcrypt hashes.
type User struct {
	Handle       string    `json:"handle"    db:"handle"`
	UserName     string    `json:"userName"  db:"user_name"`
	Email        string    `json:"email"     db:"email"`
	Timezone     string    `json:"tz"        db:"timezone"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Roles        []string  `json:"roles"     db:"-"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
