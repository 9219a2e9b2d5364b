package async

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task is a named operation.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes tasks concurrently with at most limit in flight
// (limit <= 0 means unbounded). It waits for every task and returns all
// failures joined, each prefixed with the task name. Tasks keep running
// when a sibling fails so partial results can be cleaned up by the caller.
func RunParallel(ctx context.Context, tasks []Task, limit int) error {
	if len(tasks) == 0 {
		return nil
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	var (
		mu   sync.Mutex
		errs = make([]error, len(tasks))
	)
	for i, task := range tasks {
		g.Go(func() error {
			if err := task.Func(ctx); err != nil {
				mu.Lock()
				errs[i] = fmt.Errorf("%s: %w", task.Name, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
