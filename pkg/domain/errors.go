package domain

import "errors"

// error categories returned by repositories and the renderer, check with errors.Is
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")
	ErrFetch      = errors.New("fetch failure")
)
