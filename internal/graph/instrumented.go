package graph

import (
	"context"
	"time"
)

type operationKey struct{}

// WithOperation labels queries issued under ctx with op for metrics and errors.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

// OperationFromContext returns the label set by WithOperation, or "query".
func OperationFromContext(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok && op != "" {
		return op
	}
	return "query"
}

// QueryObserver receives the duration and outcome of every query.
type QueryObserver interface {
	ObserveQuery(op string, d time.Duration, err error)
}

// InstrumentedExecutor times each query and reports it to an observer.
type InstrumentedExecutor struct {
	next     Executor
	observer QueryObserver
	now      func() time.Time
}

// NewInstrumentedExecutor wraps next.
func NewInstrumentedExecutor(next Executor, observer QueryObserver) *InstrumentedExecutor {
	return &InstrumentedExecutor{next: next, observer: observer, now: time.Now}
}

// Execute implements Executor.
func (e *InstrumentedExecutor) Execute(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	start := e.now()
	rows, err := e.next.Execute(ctx, query, params)
	if e.observer != nil {
		e.observer.ObserveQuery(OperationFromContext(ctx), e.now().Sub(start), err)
	}
	return rows, err
}
