package crud

import (
	"errors"
	"fmt"
)

// Sentinel kinds surfaced to the transport layer. Cancelled is the only one
// that must stay invisible to the user.
var (
	ErrLoadFailed       = errors.New("load failed")
	ErrSubmitRejected   = errors.New("submit rejected")
	ErrConflictOnDelete = errors.New("conflict on delete")
	ErrCancelled        = errors.New("cancelled")
	ErrRowBusy          = errors.New("row busy")
	ErrNotFound         = errors.New("record not found")
	ErrConfirmRequired  = errors.New("confirmation required")
	ErrInactiveEdit     = errors.New("record is inactive; reactivate before editing")
)

// ValidationError carries the per-field message map produced before any
// request is issued.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// RemoteError wraps an upstream rejection, keeping the server-provided message
// verbatim when one was present.
type RemoteError struct {
	Kind    error // one of the sentinels above
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream status %d", e.Status)
}

func (e *RemoteError) Unwrap() error { return e.Kind }
