package models

import "errors"

// Row-level import errors. Pipelines convert these into skipped rows;
// nothing here ever aborts a batch.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrDuplicate       = errors.New("item already exists or conflict")
	ErrParse           = errors.New("malformed input")
	ErrExternalService = errors.New("external service unavailable")
	ErrPersist         = errors.New("store rejected write")
	ErrBadRequest      = errors.New("bad request")
	ErrNoCandidate     = errors.New("no candidate pin")
	ErrUnknownCategory = errors.New("unknown pin category")
)
