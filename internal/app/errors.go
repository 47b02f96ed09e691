package service

import "errors"

// ErrMismatchedKinds indicates an explain request paired two entities of the
// same kind; explanations only exist across the candidate/job boundary.
var ErrMismatchedKinds = errors.New("entities must be a candidate and a job")
