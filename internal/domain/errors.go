// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrTaskExists indicates a task id was submitted while a task with the
// same id is already stored.
var ErrTaskExists = errors.New("task already exists")

// ErrValidation indicates invalid caller-supplied input.
var ErrValidation = errors.New("validation failed")
