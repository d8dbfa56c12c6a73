package datasync

import (
	"errors"
	"fmt"
)

// MappingError reports a single raw provider record that could not be
// translated into a domain row. The batch it belongs to keeps going.
type MappingError struct {
	EntityType EntityType
	ExternalID string
	Field      string
	Reason     string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map %s record external_id=%s field=%s: %s", e.EntityType, e.ExternalID, e.Field, e.Reason)
}

// ConstraintError reports a row rejected by a uniqueness or foreign key
// constraint. Row-level: siblings in the batch are unaffected.
type ConstraintError struct {
	EntityType EntityType
	Key        string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint %s violated for %s key=%s: %v", e.Constraint, e.EntityType, e.Key, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// TransientError reports a retryable failure: network error, timeout,
// provider rate limit, or a lost store connection.
type TransientError struct {
	Op          string
	RateLimited bool
	Err         error
}

func (e *TransientError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("%s: rate limited: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// FatalError aborts the whole sync job: unreachable store, invalid
// provider credentials. Never retried.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: fatal: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

func IsRateLimited(err error) bool {
	var te *TransientError
	return errors.As(err, &te) && te.RateLimited
}

func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

func IsConstraint(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}
