// Package graph is the boundary to the card graph database. Everything above
// it sees a single capability: run a query with bound parameters and get rows.
package graph

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when the executor refuses work, for example while
// the circuit breaker is open.
var ErrUnavailable = errors.New("graph database unavailable")

// Row is one result record keyed by the RETURN aliases of the query.
type Row map[string]any

// Map returns the value under key as a property map.
func (r Row) Map(key string) (map[string]any, bool) {
	m, ok := r[key].(map[string]any)
	return m, ok
}

// Executor runs a parameterized query and returns its rows.
type Executor interface {
	Execute(ctx context.Context, query string, params map[string]any) ([]Row, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, query string, params map[string]any) ([]Row, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	return f(ctx, query, params)
}

// ExecutorError reports a failed query. It is distinct from an empty result.
type ExecutorError struct {
	Op  string // logical operation, e.g. "search" or "facets"
	Err error
}

func (e *ExecutorError) Error() string {
	return fmt.Sprintf("graph %s: %v", e.Op, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As chain.
func (e *ExecutorError) Unwrap() error {
	return e.Err
}

// Wrap returns err as an *ExecutorError for op. Nil stays nil and an existing
// *ExecutorError is returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var execErr *ExecutorError
	if errors.As(err, &execErr) {
		return err
	}
	return &ExecutorError{Op: op, Err: err}
}

// IsExecutorError reports whether err came from the executor boundary.
func IsExecutorError(err error) bool {
	var execErr *ExecutorError
	return errors.As(err, &execErr)
}
