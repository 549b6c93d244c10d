package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/config"
)

// DefaultMaxConcurrency is the worker count when the CPU count is unknown
const DefaultMaxConcurrency = 4

// TaskError is the failure of one root
type TaskError struct {
	Root string
	Err  error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.Root, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all root failures
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d audits failed:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// ConfigResolver returns the configuration for one root
type ConfigResolver func(root string) (*config.Config, error)

// RootAuditor audits one root
type RootAuditor interface {
	Audit(ctx context.Context, root string, cfg *config.Config) (*domain.AuditReport, error)
}

// ParallelExecutor audits several roots concurrently. Each root gets its own
// configuration and pipeline; nothing is shared between audits.
type ParallelExecutor struct {
	maxConcurrency int
	// timeout bounds the whole run; zero means no deadline
	timeout        time.Duration
	progress       domain.ProgressManager
	mu             sync.RWMutex
}

// NewParallelExecutor creates an executor using one worker per CPU
func NewParallelExecutor() *ParallelExecutor {
	n := runtime.NumCPU()
	if n <= 0 {
		n = DefaultMaxConcurrency
	}
	return &ParallelExecutor{maxConcurrency: n}
}

// NewParallelExecutorWithProgress creates an executor reporting one step per root
func NewParallelExecutorWithProgress(pm domain.ProgressManager) *ParallelExecutor {
	e := NewParallelExecutor()
	e.progress = pm
	return e
}

// Execute audits every root. Reports are returned in the order of roots;
// the entry of a failed root is nil and its error is part of the returned
// AggregatedError.
func (e *ParallelExecutor) Execute(ctx context.Context, auditor RootAuditor, resolve ConfigResolver, roots []string) ([]*domain.AuditReport, error) {
	reports := make([]*domain.AuditReport, len(roots))
	if len(roots) == 0 {
		return reports, nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	timeout := e.timeout
	e.mu.RUnlock()

	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	var task domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil && len(roots) > 1 {
		task = e.progress.StartTask("Auditing roots", len(roots))
	}
	defer task.Complete()

	g, gCtx := errgroup.WithContext(runCtx)
	g.SetLimit(maxConcurrency)

	errs := make([]error, len(roots))
	for i, root := range roots {
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				errs[i] = gCtx.Err()
				return nil
			default:
			}

			cfg, err := resolve(root)
			if err == nil {
				reports[i], err = auditor.Audit(gCtx, root, cfg)
			}
			errs[i] = err
			task.Increment(1)

			// Other roots keep running; failures are aggregated below.
			return nil
		})
	}
	_ = g.Wait()

	var failed []TaskError
	for i, err := range errs {
		if err != nil {
			failed = append(failed, TaskError{Root: roots[i], Err: err})
		}
	}
	if len(failed) > 0 {
		return reports, &AggregatedError{Errors: failed}
	}
	return reports, nil
}

// SetMaxConcurrency sets the maximum number of concurrent audits
func (e *ParallelExecutor) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout bounds the whole run. Zero or a negative value removes the deadline.
func (e *ParallelExecutor) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timeout = max(timeout, 0)
}
