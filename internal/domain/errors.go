// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrMalformedDefinition indicates a workflow definition file exists but does
// not deserialize into the expected shape.
var ErrMalformedDefinition = errors.New("malformed workflow definition")

// ErrConflict indicates a state mutation that would violate a lifecycle
// invariant, such as overwriting a recorded stage result.
var ErrConflict = errors.New("conflict: state already recorded")
