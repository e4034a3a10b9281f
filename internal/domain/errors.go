package domain

import "errors"

var (
	// ErrStoreUnavailable is the only error the path store produces. An
	// unknown room is never an error — it reads as empty history.
	ErrStoreUnavailable = errors.New("path store unavailable")
)
