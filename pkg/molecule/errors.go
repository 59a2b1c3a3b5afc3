package molecule

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrAtomNotFound    = errors.New("atom not found")
	ErrResidueNotFound = errors.New("residue not found")
	ErrBlockNotFound   = errors.New("block not found")
	ErrEmptyBlock      = errors.New("block has no atoms")
	ErrEdgeUnknownNode = errors.New("edge refers to unknown node")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op     string // operation that failed, e.g. "expand", "merge"
	Entity string // "atom", "residue", "block", "link"
	ID     int    // entity ID where applicable
	Name   string // entity name where applicable
	Cause  error
}

func (e *GraphError) Error() string {
	switch {
	case e.Name != "" && e.ID != 0:
		return fmt.Sprintf("%s %s %q (id %d): %v", e.Op, e.Entity, e.Name, e.ID, e.Cause)
	case e.Name != "":
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.Name, e.Cause)
	default:
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
}

func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// AtomNotFoundError creates an atom lookup failure for the given operation.
func AtomNotFoundError(op string, id int) error {
	return &GraphError{Op: op, Entity: "atom", ID: id, Cause: ErrAtomNotFound}
}

// BlockNotFoundError creates a missing-template failure.
func BlockNotFoundError(name string) error {
	return &GraphError{Op: "lookup", Entity: "block", Name: name, Cause: ErrBlockNotFound}
}
