package router

import "errors"

// The four error kinds callers can observe. Timeout and ErrBackend are
// recovered locally by the single retry on the alternate backend and only
// surface when the retry fails too; the other two always surface.
var (
	ErrTimeout                = errors.New("backend call timed out")
	ErrBackend                = errors.New("backend call failed")
	ErrAllBackendsUnavailable = errors.New("all backends unavailable")
	ErrNotConfigured          = errors.New("backend not configured")
)
