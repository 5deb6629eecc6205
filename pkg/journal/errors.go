package journal

import (
	"errors"
	"fmt"
)

// ErrRecorderClosed is returned by Record after Close.
var ErrRecorderClosed = errors.New("journal recorder closed")

// ErrBufferFull is returned by Record when the write buffer is full and the
// entry was dropped.
var ErrBufferFull = errors.New("journal buffer full")

// StorageError represents an error from the storage backend.
type StorageError struct {
	Driver    string // Database driver ("sqlite3" or "sqlite")
	Operation string // Operation that failed ("store", "query", "delete", etc.)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("journal storage error [driver=%s, operation=%s]: %v", e.Driver, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(driver, operation string, cause error) *StorageError {
	return &StorageError{
		Driver:    driver,
		Operation: operation,
		Cause:     cause,
	}
}

// ExportError represents a failure while writing an export.
type ExportError struct {
	Format      string
	RecordCount int
	Cause       error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("journal export error [format=%s, records=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}
