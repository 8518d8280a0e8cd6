package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrNoCatalog   = errors.New("no catalog")
	ErrSyncRunning = errors.New("sync already running")
)
