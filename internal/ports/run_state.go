package ports

import (
	"context"
	"errors"
)

// ErrRunInProgress signals that a job's running flag is already set.
var ErrRunInProgress = errors.New("job run already in progress")

// RunState makes the at-most-one-concurrent-run rule concrete: callers
// acquire a job flag before a reconciliation pass and release it after.
// It also keeps last-run bookkeeping for operators.
type RunState interface {
	Acquire(ctx context.Context, job string) error
	Release(ctx context.Context, job string) error
	RecordRun(ctx context.Context, job string, summary string) error
	LastRun(ctx context.Context, job string) (summary string, found bool, err error)
}
