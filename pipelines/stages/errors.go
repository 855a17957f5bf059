// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import "fmt"

// ErrWriteFile is returned when file I/O operations fail.
type ErrWriteFile struct {
	Op   string // mkdir, write, read
	Path string
	Err  error
}

func (e *ErrWriteFile) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrWriteFile) Unwrap() error {
	return e.Err
}

// ErrDatabase is returned when database operations fail.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e *ErrDatabase) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ErrDatabase) Unwrap() error {
	return e.Err
}

// ErrBadInput is returned when a dataset cannot be processed at all,
// e.g. an empty upload. Note that malformed delimited text is NOT an
// error; the tolerant parser absorbs it.
type ErrBadInput struct {
	Name string
	Msg  string
}

func (e *ErrBadInput) Error() string {
	return fmt.Sprintf("bad input %s: %s", e.Name, e.Msg)
}

// Error code constants for database storage.
const (
	ErrCodeWriteFile = "WRITE_FILE"
	ErrCodeDatabase  = "DATABASE"
	ErrCodeBadInput  = "BAD_INPUT"
	ErrCodeUnknown   = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
func ErrorCode(err error) string {
	switch err.(type) {
	case *ErrWriteFile:
		return ErrCodeWriteFile
	case *ErrDatabase:
		return ErrCodeDatabase
	case *ErrBadInput:
		return ErrCodeBadInput
	default:
		return ErrCodeUnknown
	}
}
