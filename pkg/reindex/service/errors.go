package service

import (
	"errors"
	"fmt"
)

// ErrClusterRed aborts a run when the cluster stays red and nobody agreed to continue.
var ErrClusterRed = errors.New("cluster health is still red after waiting for recovery")

// ConnectivityError means the search cluster could not be reached at all.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach search cluster: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IndexCreationError means the target index could not be created, e.g. a mapping conflict or
// exhausted cluster resources.
type IndexCreationError struct {
	Index string
	Err   error
}

func (e *IndexCreationError) Error() string {
	return fmt.Sprintf("failed to create index %s: %v", e.Index, e.Err)
}

func (e *IndexCreationError) Unwrap() error {
	return e.Err
}

const (
	SourceOpCount = "count"
	SourceOpPage  = "page"
)

// SourceError wraps a failure of the record source.
type SourceError struct {
	Op  string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("record source %s failed: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
